// Package touch defines the tap, dbltap, taphold and swipe custom events.
//
// Each gesture is a small state machine fed by raw touch events captured at
// the document, or by mouse events where the environment has no touch
// support. Raw listeners exist only while someone listens for the gesture:
// they are attached by the custom event's setup hook and removed by its
// destroy hook. Only single-pointer gestures are recognized; a second
// simultaneous contact aborts whatever is in flight.
package touch

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/heathj/gobrowse/dom"
	"github.com/heathj/gobrowse/event"
	"github.com/heathj/gobrowse/timer"
)

// Synthetic event names.
const (
	Tap       = "tap"
	DoubleTap = "dbltap"
	TapHold   = "taphold"
	Swipe     = "swipe"

	// TapCancel is fired on the target when a hold is recognized so that
	// tap and dbltap drop the touch in progress.
	TapCancel = "tapcancel"
)

// Swipe directions.
const (
	Left  = "left"
	Right = "right"
	Up    = "up"
	Down  = "down"
)

type Mode string

const (
	Auto  Mode = "auto"
	Touch Mode = "touch"
	Mouse Mode = "mouse"
)

type Config struct {
	// MoveThreshold is how far, in screen pixels along either axis, a
	// pointer may travel before a touch stops being a tap or hold and
	// starts being a swipe.
	MoveThreshold   float64
	DoubleTapWindow time.Duration
	HoldDelay       time.Duration
	Mode            Mode
}

func DefaultConfig() Config {
	return Config{
		MoveThreshold:   30,
		DoubleTapWindow: 300 * time.Millisecond,
		HoldDelay:       700 * time.Millisecond,
		Mode:            Auto,
	}
}

// Inputs names the raw events a gesture listens to. An empty Cancel means
// the input source has no cancel event.
type Inputs struct {
	Start, Move, End, Cancel string
}

var (
	TouchInputs = Inputs{Start: "touchstart", Move: "touchmove", End: "touchend", Cancel: "touchcancel"}
	MouseInputs = Inputs{Start: "mousedown", Move: "mousemove", End: "mouseup"}
)

// Gestures is the installed set of gesture definitions for one document.
type Gestures struct {
	ev    *event.Events
	doc   *dom.Node
	clock timer.Scheduler
	cfg   Config
	in    Inputs
	mouse bool
	log   *logrus.Entry

	tap   *tapMachine
	dbl   *doubleTapMachine
	hold  *holdMachine
	swipe *swipeMachine
}

// Install defines the gesture events on ev. Zero fields of cfg take their
// defaults.
func Install(ev *event.Events, clock timer.Scheduler, cfg Config) *Gestures {
	cfg = cfg.withDefaults()
	doc := ev.Document()
	g := &Gestures{
		ev:    ev,
		doc:   doc,
		clock: clock,
		cfg:   cfg,
		in:    TouchInputs,
		log:   ev.Logger().WithField("component", "touch"),
	}

	switch {
	case cfg.Mode == Mouse:
		g.in, g.mouse = MouseInputs, true
	case cfg.Mode == Auto && !doc.TouchEnabled:
		g.log.Info("touch is not supported on this device, recognizing gestures from mouse input")
		g.in, g.mouse = MouseInputs, true
	}

	g.tap = newTapMachine(g)
	g.dbl = newDoubleTapMachine(g)
	g.hold = newHoldMachine(g)
	g.swipe = newSwipeMachine(g)
	for _, m := range []gesture{g.tap, g.dbl, g.hold, g.swipe} {
		ev.Define(event.Definition{
			Type:    m.name(),
			Setup:   m.attach,
			Destroy: m.detach,
		})
	}
	return g
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MoveThreshold <= 0 {
		c.MoveThreshold = d.MoveThreshold
	}
	if c.DoubleTapWindow <= 0 {
		c.DoubleTapWindow = d.DoubleTapWindow
	}
	if c.HoldDelay <= 0 {
		c.HoldDelay = d.HoldDelay
	}
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	return c
}

func (g *Gestures) Inputs() Inputs { return g.in }

func (g *Gestures) Config() Config { return g.cfg }

// Reset aborts every gesture in flight.
func (g *Gestures) Reset() {
	g.tap.reset()
	g.dbl.reset()
	g.hold.reset()
	g.swipe.reset()
}

func (g *Gestures) fire(target *dom.Node, eventType string, payload any) {
	if target == nil {
		return
	}
	g.log.WithField("type", eventType).Debugf("dispatching on %s", target)
	g.ev.Select(target).Dispatch(eventType, payload)
}

// moved reports whether two points are further apart than the threshold
// along either axis.
func (g *Gestures) moved(x1, y1, x2, y2 float64) bool {
	t := g.cfg.MoveThreshold
	return math.Abs(x2-x1) > t || math.Abs(y2-y1) > t
}

// point is one pointer contact in screen coordinates.
type point struct {
	id   int
	x, y float64
}

// contacts counts the distinct pointers an event reports, including ones
// that just lifted.
func (g *Gestures) contacts(e *dom.Event) int {
	if g.mouse {
		return 1
	}
	seen := map[int]bool{}
	for _, t := range e.Touches {
		seen[t.Identifier] = true
	}
	for _, t := range e.ChangedTouches {
		seen[t.Identifier] = true
	}
	return len(seen)
}

// first returns the pointer that caused e.
func (g *Gestures) first(e *dom.Event) (point, bool) {
	if g.mouse {
		return point{x: e.ScreenX, y: e.ScreenY}, true
	}
	if len(e.ChangedTouches) > 0 {
		t := e.ChangedTouches[0]
		return point{t.Identifier, t.ScreenX, t.ScreenY}, true
	}
	if len(e.Touches) > 0 {
		t := e.Touches[0]
		return point{t.Identifier, t.ScreenX, t.ScreenY}, true
	}
	return point{}, false
}

// tracked returns the pointer with the given id from e.
func (g *Gestures) tracked(e *dom.Event, id int) (point, bool) {
	if g.mouse {
		return point{x: e.ScreenX, y: e.ScreenY}, true
	}
	t, ok := e.ChangedTouches.Identified(id)
	if !ok {
		t, ok = e.Touches.Identified(id)
	}
	if !ok {
		return point{}, false
	}
	return point{t.Identifier, t.ScreenX, t.ScreenY}, true
}

// Direction names the dominant axis of a movement. Horizontal wins ties.
func Direction(dx, dy float64) string {
	if math.Abs(dx) >= math.Abs(dy) {
		if dx < 0 {
			return Left
		}
		return Right
	}
	if dy < 0 {
		return Up
	}
	return Down
}

type gesture interface {
	name() string
	attach()
	detach()
}

type binding struct {
	eventType string
	capture   bool
	listener  event.Listener
}

// machine holds the raw-event bindings shared by every gesture.
type machine struct {
	g        *Gestures
	bindings []binding
}

func (m *machine) bind(eventType string, capture bool, fn func(e *dom.Event)) {
	if eventType == "" {
		return
	}
	m.bindings = append(m.bindings, binding{
		eventType: eventType,
		capture:   capture,
		listener: event.Func(func(_ event.Target, e *dom.Event, _ ...any) bool {
			fn(e)
			return true
		}),
	})
}

func (m *machine) bindInputs(start, move, end, cancel func(e *dom.Event)) {
	in := m.g.in
	m.bind(in.Start, true, start)
	m.bind(in.Move, true, move)
	m.bind(in.End, true, end)
	m.bind(in.Cancel, true, cancel)
}

func (m *machine) attachBindings() {
	doc := m.g.ev.Select(m.g.doc)
	for _, b := range m.bindings {
		if b.capture {
			doc.Capture(b.eventType, b.listener)
		} else {
			doc.On(b.eventType, b.listener)
		}
	}
}

func (m *machine) detachBindings() {
	doc := m.g.ev.Select(m.g.doc)
	for _, b := range m.bindings {
		doc.Un(b.eventType, b.listener, b.capture)
	}
}
