package event

import (
	"github.com/google/uuid"

	"github.com/heathj/gobrowse/dom"
)

// idKey is the expando under which an element's registry id is stamped.
const idKey = "__h5evtId"

// Target is anything events can be bound to. Elements only carry an opaque
// id stamp; every handler lives in the Registry.
type Target interface {
	Expando(name string) string
	SetExpando(name, value string)
}

// Listener is an application callback. this is the element the listener was
// bound to and args are the extra arguments given at registration.
// Returning false stops propagation and prevents the default action.
//
// Listeners are matched by identity when unbinding, so implementations
// should be pointers. Use Func to wrap a plain function.
type Listener interface {
	HandleEvent(this Target, e *dom.Event, args ...any) bool
}

// ListenerFunc is the function form of a Listener.
type ListenerFunc func(this Target, e *dom.Event, args ...any) bool

type funcListener struct {
	fn ListenerFunc
}

func (f *funcListener) HandleEvent(this Target, e *dom.Event, args ...any) bool {
	return f.fn(this, e, args...)
}

// Func wraps fn into a Listener with a stable identity. Keep the returned
// value around to unbind it later.
func Func(fn ListenerFunc) Listener {
	return &funcListener{fn: fn}
}

// HandlerRecord bridges a Listener to the native event system. It is the
// value actually attached to the element.
type HandlerRecord struct {
	Owner    Target
	Type     string
	Listener Listener
	Capture  bool
	Args     []any
}

// HandleEvent implements dom.EventListener.
func (h *HandlerRecord) HandleEvent(e *dom.Event) {
	if h.Listener.HandleEvent(h.Owner, e, h.Args...) {
		return
	}
	e.StopPropagation()
	e.PreventDefault()
}

func (h *HandlerRecord) matches(eventType string, l Listener, capture bool) bool {
	return h.Type == eventType && h.Capture == capture && dom.Identical(h.Listener, l)
}

// Registry stores handler records per element and event type.
type Registry struct {
	handlers map[string][]*HandlerRecord
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string][]*HandlerRecord{}}
}

func eid(el Target) string {
	id := el.Expando(idKey)
	if id == "" {
		id = "h5evt_" + uuid.NewString()
		el.SetExpando(idKey, id)
	}
	return id
}

// Register creates the handler record for the tuple, or returns nil when an
// identical one already exists.
func (r *Registry) Register(el Target, eventType string, l Listener, capture bool, args ...any) *HandlerRecord {
	id := eid(el)
	elemH, ok := r.handlers[id]
	if !ok {
		r.order = append(r.order, id)
	}
	for _, h := range elemH {
		if h.matches(eventType, l, capture) {
			return nil
		}
	}

	h := &HandlerRecord{
		Owner:    el,
		Type:     eventType,
		Listener: l,
		Capture:  capture,
		Args:     args,
	}
	r.handlers[id] = append(elemH, h)
	return h
}

// Unregister removes and returns the matching record, or nil if there is
// none.
func (r *Registry) Unregister(el Target, eventType string, l Listener, capture bool) *HandlerRecord {
	id := el.Expando(idKey)
	if id == "" {
		return nil
	}
	elemH := r.handlers[id]
	for i, h := range elemH {
		if !h.matches(eventType, l, capture) {
			continue
		}
		elemH = append(elemH[:i:i], elemH[i+1:]...)
		if len(elemH) == 0 {
			r.drop(id)
		} else {
			r.handlers[id] = elemH
		}
		return h
	}
	return nil
}

func (r *Registry) drop(id string) {
	delete(r.handlers, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// All returns every record, grouped by element in first-registration order.
func (r *Registry) All() []*HandlerRecord {
	var all []*HandlerRecord
	for _, id := range r.order {
		all = append(all, r.handlers[id]...)
	}
	return all
}

// Len returns the number of live records.
func (r *Registry) Len() int {
	n := 0
	for _, h := range r.handlers {
		n += len(h)
	}
	return n
}

// For returns the records bound to el.
func (r *Registry) For(el Target) []*HandlerRecord {
	id := el.Expando(idKey)
	if id == "" {
		return nil
	}
	return append([]*HandlerRecord(nil), r.handlers[id]...)
}
