package touch

import (
	"time"

	"github.com/heathj/gobrowse/dom"
)

type doubleTapState struct {
	pending bool
	at      time.Time
	target  *dom.Node
}

// doubleTapMachine listens for tap rather than raw input, so binding it
// keeps the tap machine alive. It captures tap at the document so element
// handlers that stop propagation cannot hide taps from it; dbltap is
// therefore dispatched before the second tap reaches the element.
type doubleTapMachine struct {
	machine
	state doubleTapState
}

func newDoubleTapMachine(g *Gestures) *doubleTapMachine {
	m := &doubleTapMachine{machine: machine{g: g}}
	m.bind(Tap, true, m.tap)
	m.bind(TapCancel, true, m.cancel)
	m.bind(g.in.Start, true, m.abortMulti)
	m.bind(g.in.Move, true, m.abortMulti)
	return m
}

func (m *doubleTapMachine) name() string { return DoubleTap }

func (m *doubleTapMachine) attach() { m.attachBindings() }

func (m *doubleTapMachine) detach() {
	m.detachBindings()
	m.reset()
}

func (m *doubleTapMachine) reset() { m.state = doubleTapState{} }

func (m *doubleTapMachine) tap(e *dom.Event) {
	now := m.g.clock.Now()
	s := m.state
	if s.pending && e.Target == s.target && now.Sub(s.at) <= m.g.cfg.DoubleTapWindow {
		m.reset()
		m.g.fire(s.target, DoubleTap, nil)
		return
	}
	m.state = doubleTapState{pending: true, at: now, target: e.Target}
}

func (m *doubleTapMachine) cancel(*dom.Event) { m.reset() }

func (m *doubleTapMachine) abortMulti(e *dom.Event) {
	if m.g.contacts(e) > 1 {
		m.reset()
	}
}
