package dom

import "strings"

// LegacyElement exposes a node through the pre-standard attachEvent API
// only: handler names carry an "on" prefix and there is no capture phase.
// It stands in for engines that never shipped addEventListener.
type LegacyElement struct {
	node *Node
}

func Legacy(n *Node) *LegacyElement {
	return &LegacyElement{node: n}
}

func (l *LegacyElement) Node() *Node { return l.node }

func (l *LegacyElement) AttachEvent(name string, h EventListener) bool {
	if !strings.HasPrefix(name, "on") {
		return false
	}
	l.node.AddEventListener(strings.TrimPrefix(name, "on"), h, false)
	return true
}

func (l *LegacyElement) DetachEvent(name string, h EventListener) {
	l.node.RemoveEventListener(strings.TrimPrefix(name, "on"), h, false)
}

// FireEvent dispatches e under the "on"-prefixed name. Legacy events always
// bubble.
func (l *LegacyElement) FireEvent(name string, e *Event) bool {
	e.Type = strings.TrimPrefix(name, "on")
	e.Bubbles = true
	return l.node.DispatchEvent(e)
}

func (l *LegacyElement) Expando(name string) string { return l.node.Expando(name) }

func (l *LegacyElement) SetExpando(name, value string) { l.node.SetExpando(name, value) }
