package timer

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by an explicit virtual clock.
type Manual struct {
	now   time.Time
	seq   uint64
	tasks []*task
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time { return m.now }

func (m *Manual) AfterFunc(d time.Duration, fn func()) Task {
	m.seq++
	t := &task{at: m.now.Add(d), seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every task whose deadline
// falls within the window in deadline order. Tasks scheduled by a running
// task are honoured if they also fall within the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		next := m.next(end)
		if next == nil {
			break
		}
		m.now = next.at
		next.run()
	}
	m.now = end
}

// AdvanceTo moves the clock to t; earlier times are ignored.
func (m *Manual) AdvanceTo(t time.Time) {
	if t.After(m.now) {
		m.Advance(t.Sub(m.now))
	}
}

// Pending returns the number of tasks that have neither run nor been
// canceled.
func (m *Manual) Pending() int {
	m.compact()
	return len(m.tasks)
}

func (m *Manual) next(end time.Time) *task {
	m.compact()
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].at.Equal(m.tasks[j].at) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].at.Before(m.tasks[j].at)
	})
	t := m.tasks[0]
	if t.at.After(end) {
		return nil
	}
	m.tasks = m.tasks[1:]
	return t
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.canceled && !t.done {
			live = append(live, t)
		}
	}
	m.tasks = live
}
