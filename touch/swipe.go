package touch

import "github.com/heathj/gobrowse/dom"

type swipeState struct {
	tracking       bool
	swiped         bool
	id             int
	startX, startY float64
	endX, endY     float64
	target         *dom.Node
}

type swipeMachine struct {
	machine
	state swipeState
}

func newSwipeMachine(g *Gestures) *swipeMachine {
	m := &swipeMachine{machine: machine{g: g}}
	m.bindInputs(m.start, m.move, m.end, m.cancel)
	return m
}

func (m *swipeMachine) name() string { return Swipe }

func (m *swipeMachine) attach() { m.attachBindings() }

func (m *swipeMachine) detach() {
	m.detachBindings()
	m.reset()
}

func (m *swipeMachine) reset() { m.state = swipeState{} }

func (m *swipeMachine) start(e *dom.Event) {
	m.reset()
	if m.g.contacts(e) != 1 {
		return
	}
	p, ok := m.g.first(e)
	if !ok {
		return
	}
	m.state = swipeState{
		tracking: true,
		id:       p.id,
		startX:   p.x,
		startY:   p.y,
		target:   e.Target,
	}
}

func (m *swipeMachine) move(e *dom.Event) {
	s := &m.state
	if !s.tracking {
		return
	}
	if m.g.contacts(e) > 1 {
		m.reset()
		return
	}
	p, ok := m.g.tracked(e, s.id)
	if !ok {
		return
	}
	if s.swiped || m.g.moved(s.startX, s.startY, p.x, p.y) {
		s.swiped = true
		s.endX, s.endY = p.x, p.y
	}
}

func (m *swipeMachine) end(e *dom.Event) {
	s := m.state
	m.reset()
	if !s.tracking || !s.swiped || m.g.contacts(e) > 1 {
		return
	}
	p, ok := m.g.tracked(e, s.id)
	if !ok {
		return
	}
	if m.g.moved(s.startX, s.startY, p.x, p.y) {
		s.endX, s.endY = p.x, p.y
	}
	m.g.fire(s.target, Swipe, map[string]any{
		"direction": Direction(s.endX-s.startX, s.endY-s.startY),
		"startX":    s.startX,
		"startY":    s.startY,
		"endX":      s.endX,
		"endY":      s.endY,
	})
}

func (m *swipeMachine) cancel(*dom.Event) { m.reset() }
