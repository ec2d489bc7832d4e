// Package timer provides cancelable delayed tasks for code that runs on a
// single event-processing goroutine.
//
// A Scheduler never runs a task concurrently with other work scheduled
// through it. Loop does this with one goroutine in real time; Manual does it
// on the caller's goroutine against a virtual clock, which is what tests and
// trace replays use.
package timer

import "time"

// Task is a handle to a scheduled callback.
type Task interface {
	// Cancel stops the task from running. It reports whether the call
	// prevented the run; canceling a task that already ran or was already
	// canceled is a no-op returning false.
	Cancel() bool
}

type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Task
}

type task struct {
	at       time.Time
	seq      uint64
	fn       func()
	canceled bool
	done     bool
	stop     func() bool
}

func (t *task) Cancel() bool {
	if t == nil || t.done || t.canceled {
		return false
	}
	t.canceled = true
	if t.stop != nil {
		t.stop()
	}
	return true
}

func (t *task) run() {
	if t.canceled || t.done {
		return
	}
	t.done = true
	t.fn()
}
