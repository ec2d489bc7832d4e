package timer

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var ErrClosed = errors.New("timer: loop closed")

// Loop runs posted functions and expired tasks one at a time on the
// goroutine that calls Run. Post and AfterFunc may be called from any
// goroutine; Task.Cancel must be called from the loop itself.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop() *Loop {
	return &Loop{
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

func (l *Loop) Now() time.Time { return time.Now() }

// Post queues fn to run on the loop. It reports false once the loop is
// closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Task {
	t := &task{at: time.Now().Add(d), fn: fn}
	tm := time.AfterFunc(d, func() { l.Post(t.run) })
	t.stop = tm.Stop
	return t
}

// Run processes the queue until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrClosed
		case fn := <-l.queue:
			fn()
		}
	}
}

func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}
