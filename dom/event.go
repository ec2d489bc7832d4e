package dom

import (
	"reflect"
	"sort"
	"time"
)

type EventPhase uint

const (
	NoneEventPhase EventPhase = iota
	CapturingPhase
	AtTargetPhase
	BubblingPhase
)

// https://dom.spec.whatwg.org/#interface-event
type Event struct {
	Type             string
	Target           *Node
	CurrentTarget    *Node
	EventPhase       EventPhase
	Bubbles          bool
	Cancelable       bool
	DefaultPrevented bool
	IsTrusted        bool
	TimeStamp        time.Time

	// Data carries a non-dictionary payload, the h5 convention for
	// event.data.
	Data any

	// Pointer fields shared by mouse and touch events.
	ScreenX, ScreenY float64
	Touches          TouchList
	ChangedTouches   TouchList

	props                       map[string]any
	propagationStopped          bool
	immediatePropagationStopped bool
}

// https://w3c.github.io/touch-events/#touch-interface
type Touch struct {
	Identifier       int
	Target           *Node
	ScreenX, ScreenY float64
	ClientX, ClientY float64
}

// https://w3c.github.io/touch-events/#touchlist-interface
type TouchList []Touch

// Identified returns the touch with the given identifier.
func (l TouchList) Identified(id int) (Touch, bool) {
	for _, t := range l {
		if t.Identifier == id {
			return t, true
		}
	}
	return Touch{}, false
}

// CreateEvent is https://dom.spec.whatwg.org/#dom-document-createevent
// The returned event must be initialized with InitEvent before dispatch.
func CreateEvent(iface string) *Event {
	return &Event{TimeStamp: time.Now()}
}

// NewEvent creates and initializes an event in one step.
func NewEvent(eventType string, bubbles, cancelable bool) *Event {
	e := CreateEvent("Events")
	e.InitEvent(eventType, bubbles, cancelable)
	return e
}

// InitEvent is https://dom.spec.whatwg.org/#dom-event-initevent
func (e *Event) InitEvent(eventType string, bubbles, cancelable bool) {
	e.Type = eventType
	e.Bubbles = bubbles
	e.Cancelable = cancelable
	e.DefaultPrevented = false
	e.propagationStopped = false
	e.immediatePropagationStopped = false
}

func (e *Event) StopPropagation() { e.propagationStopped = true }

func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatePropagationStopped = true
}

func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.DefaultPrevented = true
	}
}

func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// Set assigns an expando property on the event.
func (e *Event) Set(key string, value any) {
	if e.props == nil {
		e.props = map[string]any{}
	}
	e.props[key] = value
}

// Get reads an expando property set with Set.
func (e *Event) Get(key string) (any, bool) {
	v, ok := e.props[key]
	return v, ok
}

// Keys returns the expando property names in sorted order.
func (e *Event) Keys() []string {
	keys := make([]string, 0, len(e.props))
	for k := range e.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// https://dom.spec.whatwg.org/#callbackdef-eventlistener
type EventListener interface {
	HandleEvent(e *Event)
}

type listenerEntry struct {
	eventType string
	listener  EventListener
	capture   bool
	removed   bool
}

// Identical reports whether two listener values are the same listener.
// Values whose dynamic type is not comparable, such as funcs, are never
// identical to anything.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// AddEventListener is https://dom.spec.whatwg.org/#dom-eventtarget-addeventlistener
func (n *Node) AddEventListener(eventType string, l EventListener, capture bool) {
	if l == nil || n.findListener(eventType, l, capture) >= 0 {
		return
	}
	n.listeners = append(n.listeners, &listenerEntry{
		eventType: eventType,
		listener:  l,
		capture:   capture,
	})
}

// RemoveEventListener is https://dom.spec.whatwg.org/#dom-eventtarget-removeeventlistener
func (n *Node) RemoveEventListener(eventType string, l EventListener, capture bool) {
	i := n.findListener(eventType, l, capture)
	if i < 0 {
		return
	}
	n.listeners[i].removed = true
	n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
}

// ListenerCount returns the number of native listeners attached for the
// event type, in either phase.
func (n *Node) ListenerCount(eventType string) int {
	count := 0
	for _, e := range n.listeners {
		if e.eventType == eventType {
			count++
		}
	}
	return count
}

func (n *Node) findListener(eventType string, l EventListener, capture bool) int {
	for i, e := range n.listeners {
		if e.eventType == eventType && e.capture == capture && Identical(e.listener, l) {
			return i
		}
	}
	return -1
}

// DispatchEvent is https://dom.spec.whatwg.org/#dom-eventtarget-dispatchevent
// The event travels from the root down to the target's parent in the
// capturing phase, hits the target, then bubbles back up if it bubbles.
func (n *Node) DispatchEvent(e *Event) bool {
	e.Target = n
	e.IsTrusted = false

	var path NodeList
	for p := n.ParentNode; p != nil; p = p.ParentNode {
		path = append(path, p)
	}

	e.EventPhase = CapturingPhase
	for i := len(path) - 1; i >= 0 && !e.propagationStopped; i-- {
		path[i].invoke(e)
	}

	if !e.propagationStopped {
		e.EventPhase = AtTargetPhase
		n.invoke(e)
	}

	if e.Bubbles {
		e.EventPhase = BubblingPhase
		for i := 0; i < len(path) && !e.propagationStopped; i++ {
			path[i].invoke(e)
		}
	}

	e.EventPhase = NoneEventPhase
	e.CurrentTarget = nil
	return !e.DefaultPrevented
}

func (n *Node) invoke(e *Event) {
	e.CurrentTarget = n
	entries := make([]*listenerEntry, len(n.listeners))
	copy(entries, n.listeners)
	for _, entry := range entries {
		if entry.removed || entry.eventType != e.Type {
			continue
		}
		if e.EventPhase == CapturingPhase && !entry.capture {
			continue
		}
		if e.EventPhase == BubblingPhase && entry.capture {
			continue
		}
		entry.listener.HandleEvent(e)
		if e.immediatePropagationStopped {
			return
		}
	}
}
