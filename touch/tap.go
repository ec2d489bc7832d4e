package touch

import "github.com/heathj/gobrowse/dom"

type tapState struct {
	armed  bool
	id     int
	x, y   float64
	target *dom.Node
}

// tapMachine recognizes a single contact that lifts on the element it
// started on without travelling past the move threshold.
type tapMachine struct {
	machine
	state tapState
}

func newTapMachine(g *Gestures) *tapMachine {
	m := &tapMachine{machine: machine{g: g}}
	m.bindInputs(m.start, m.move, m.end, m.cancel)
	m.bind(TapCancel, true, m.cancel)
	return m
}

func (m *tapMachine) name() string { return Tap }

func (m *tapMachine) attach() { m.attachBindings() }

func (m *tapMachine) detach() {
	m.detachBindings()
	m.reset()
}

func (m *tapMachine) reset() { m.state = tapState{} }

func (m *tapMachine) start(e *dom.Event) {
	m.reset()
	if m.g.contacts(e) != 1 {
		return
	}
	p, ok := m.g.first(e)
	if !ok {
		return
	}
	m.state = tapState{armed: true, id: p.id, x: p.x, y: p.y, target: e.Target}
}

func (m *tapMachine) move(e *dom.Event) {
	if !m.state.armed {
		return
	}
	if m.g.contacts(e) > 1 {
		m.reset()
		return
	}
	p, ok := m.g.tracked(e, m.state.id)
	if ok && m.g.moved(m.state.x, m.state.y, p.x, p.y) {
		m.reset()
	}
}

func (m *tapMachine) end(e *dom.Event) {
	s := m.state
	m.reset()
	if !s.armed || m.g.contacts(e) > 1 {
		return
	}
	p, ok := m.g.tracked(e, s.id)
	if !ok || e.Target != s.target || m.g.moved(s.x, s.y, p.x, p.y) {
		return
	}
	m.g.fire(s.target, Tap, nil)
	e.PreventDefault()
}

func (m *tapMachine) cancel(*dom.Event) { m.reset() }
