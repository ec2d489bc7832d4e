package touch

import (
	"github.com/heathj/gobrowse/dom"
	"github.com/heathj/gobrowse/timer"
)

type holdState struct {
	armed  bool
	held   bool
	id     int
	x, y   float64
	target *dom.Node
	task   timer.Task
}

// holdMachine recognizes a contact that stays put for the hold delay. The
// pending task is canceled by every transition that ends the touch.
type holdMachine struct {
	machine
	state holdState
}

func newHoldMachine(g *Gestures) *holdMachine {
	m := &holdMachine{machine: machine{g: g}}
	m.bindInputs(m.start, m.move, m.end, m.end)
	return m
}

func (m *holdMachine) name() string { return TapHold }

func (m *holdMachine) attach() { m.attachBindings() }

func (m *holdMachine) detach() {
	m.detachBindings()
	m.reset()
}

func (m *holdMachine) reset() {
	if m.state.task != nil {
		m.state.task.Cancel()
	}
	m.state = holdState{}
}

func (m *holdMachine) start(e *dom.Event) {
	m.reset()
	if m.g.contacts(e) != 1 {
		return
	}
	p, ok := m.g.first(e)
	if !ok {
		return
	}
	m.state = holdState{armed: true, id: p.id, x: p.x, y: p.y, target: e.Target}
	m.state.task = m.g.clock.AfterFunc(m.g.cfg.HoldDelay, m.fire)
}

func (m *holdMachine) fire() {
	if !m.state.armed || m.state.held {
		return
	}
	m.state.held = true
	m.state.task = nil
	target := m.state.target
	m.g.fire(target, TapHold, nil)
	m.g.fire(target, TapCancel, nil)
}

func (m *holdMachine) move(e *dom.Event) {
	if !m.state.armed {
		return
	}
	if m.g.contacts(e) > 1 {
		m.reset()
		return
	}
	if m.state.held {
		return
	}
	p, ok := m.g.tracked(e, m.state.id)
	if ok && m.g.moved(m.state.x, m.state.y, p.x, p.y) {
		m.reset()
	}
}

func (m *holdMachine) end(*dom.Event) { m.reset() }
