package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualRunsInDeadlineOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string
	m.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, m.Pending())
	assert.Equal(t, epoch.Add(20*time.Millisecond), m.Now())

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, m.Pending())
}

func TestManualNowDuringTask(t *testing.T) {
	m := NewManual(epoch)
	var at time.Time
	m.AfterFunc(700*time.Millisecond, func() { at = m.Now() })
	m.Advance(time.Second)
	assert.Equal(t, epoch.Add(700*time.Millisecond), at)
}

func TestManualNestedScheduling(t *testing.T) {
	m := NewManual(epoch)
	runs := 0
	m.AfterFunc(10*time.Millisecond, func() {
		runs++
		m.AfterFunc(10*time.Millisecond, func() { runs++ })
	})
	m.Advance(15 * time.Millisecond)
	assert.Equal(t, 1, runs)
	m.AdvanceTo(epoch.Add(20 * time.Millisecond))
	assert.Equal(t, 2, runs)
	m.AdvanceTo(epoch)
	assert.Equal(t, epoch.Add(20*time.Millisecond), m.Now())
}

func TestCancelIsIdempotent(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	task := m.AfterFunc(time.Millisecond, func() { ran = true })
	assert.True(t, task.Cancel())
	assert.False(t, task.Cancel())
	m.Advance(time.Second)
	assert.False(t, ran)

	task = m.AfterFunc(time.Millisecond, func() { ran = true })
	m.Advance(time.Second)
	assert.True(t, ran)
	assert.False(t, task.Cancel())
}

func TestLoopRunsPostedAndTimedWork(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fired := make(chan string, 3)
	require.True(t, l.Post(func() { fired <- "posted" }))
	l.AfterFunc(10*time.Millisecond, func() { fired <- "timer" })
	l.AfterFunc(20*time.Millisecond, func() {
		fired <- "last"
		l.Close()
	})

	err := l.Run(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	close(fired)
	var got []string
	for s := range fired {
		got = append(got, s)
	}
	assert.Equal(t, []string{"posted", "timer", "last"}, got)
	assert.False(t, l.Post(func() {}))
}

func TestLoopCancel(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ran := false
	task := l.AfterFunc(10*time.Millisecond, func() { ran = true })
	l.Post(func() { task.Cancel() })
	l.AfterFunc(50*time.Millisecond, l.Close)

	assert.ErrorIs(t, l.Run(ctx), ErrClosed)
	assert.False(t, ran)
}
