package trace

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/gobrowse/dom"
	"github.com/heathj/gobrowse/event"
	"github.com/heathj/gobrowse/timer"
)

// Record is one synthetic event observed during a replay.
type Record struct {
	At     time.Duration
	Type   string
	Target string
	Data   map[string]any
}

// Option configures a replay.
type Option func(*replay)

type replay struct {
	listening func()
}

// OnListening registers fn to run once the recording listeners are bound,
// before the first step fires.
func OnListening(fn func()) Option {
	return func(r *replay) { r.listening = fn }
}

// session holds the recording listeners of one replay.
type session struct {
	tr       *Trace
	ev       *event.Events
	log      *logrus.Entry
	now      func() time.Time
	start    time.Time
	records  []Record
	recorder event.Listener
}

func newSession(tr *Trace, ev *event.Events, now func() time.Time, opts []Option) *session {
	var cfg replay
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &session{
		tr:    tr,
		ev:    ev,
		log:   ev.Logger().WithField("component", "trace"),
		now:   now,
		start: now(),
	}
	s.recorder = event.Func(s.record)

	doc := ev.Select(ev.Document())
	for _, typ := range tr.Listen {
		doc.On(typ, s.recorder)
	}
	if cfg.listening != nil {
		cfg.listening()
	}
	return s
}

func (s *session) record(_ event.Target, e *dom.Event, _ ...any) bool {
	r := Record{
		At:     s.now().Sub(s.start),
		Type:   e.Type,
		Target: e.Target.String(),
	}
	if keys := e.Keys(); len(keys) > 0 {
		r.Data = map[string]any{}
		for _, k := range keys {
			r.Data[k], _ = e.Get(k)
		}
	}
	s.records = append(s.records, r)
	return true
}

func (s *session) close() {
	doc := s.ev.Select(s.ev.Document())
	for _, typ := range s.tr.Listen {
		doc.Un(typ, s.recorder)
	}
}

// fire dispatches step i on the element its selector matches.
func (s *session) fire(i int) error {
	step := s.tr.Steps[i]
	target, err := s.ev.Document().QuerySelector(step.Target)
	if err != nil {
		return errors.Wrapf(err, "step %d", i)
	}
	if target == nil {
		return errors.Errorf("step %d: no element matches %q", i, step.Target)
	}
	s.log.WithField("step", i).Debugf("%s on %s", step.Type, target)
	target.DispatchEvent(step.event(target))
	return nil
}

// Replay fires the trace's steps on the document of ev, advancing clock to
// each step's offset first, and returns the listened-for events in the
// order they reached the document. The recording listeners are removed
// before Replay returns.
func Replay(tr *Trace, ev *event.Events, clock *timer.Manual, opts ...Option) ([]Record, error) {
	s := newSession(tr, ev, clock.Now, opts)
	defer s.close()

	for i, step := range tr.Steps {
		clock.AdvanceTo(s.start.Add(step.At))
		if err := s.fire(i); err != nil {
			return s.records, err
		}
	}
	clock.AdvanceTo(s.start.Add(tr.End))
	return s.records, nil
}

// Play is Replay in real time: steps are fired from loop at their offsets
// and the loop is run on the calling goroutine until the trace ends, ctx is
// done or a step fails. The gestures of ev must be installed with loop as
// their scheduler. Play closes loop before returning.
func Play(ctx context.Context, tr *Trace, ev *event.Events, loop *timer.Loop, opts ...Option) ([]Record, error) {
	s := newSession(tr, ev, loop.Now, opts)
	defer s.close()
	defer loop.Close()

	var failed error
	var next func(i int)
	next = func(i int) {
		if i == len(tr.Steps) {
			loop.AfterFunc(s.start.Add(tr.End).Sub(loop.Now()), loop.Close)
			return
		}
		loop.AfterFunc(s.start.Add(tr.Steps[i].At).Sub(loop.Now()), func() {
			if err := s.fire(i); err != nil {
				failed = err
				loop.Close()
				return
			}
			next(i + 1)
		})
	}
	if !loop.Post(func() { next(0) }) {
		return nil, timer.ErrClosed
	}

	err := loop.Run(ctx)
	if failed != nil {
		return s.records, failed
	}
	if errors.Is(err, timer.ErrClosed) {
		err = nil
	}
	return s.records, err
}
