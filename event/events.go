// Package event binds, unbinds and dispatches DOM events over sets of
// elements, and lets callers define custom events whose native plumbing is
// set up lazily while anyone listens for them.
//
// All methods must be called from the goroutine that owns the document.
package event

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/heathj/gobrowse/dom"
)

// Events is the event layer of one document.
type Events struct {
	doc      *dom.Node
	registry *Registry
	bridge   Bridge
	table    *Table
	log      *logrus.Entry

	isReady    bool
	readyCalls []func()
	onReady    *nativeFunc
	onUnload   *nativeFunc
}

type Option func(*Events)

func WithLogger(log *logrus.Entry) Option {
	return func(ev *Events) { ev.log = log }
}

func WithBridge(b Bridge) Option {
	return func(ev *Events) { ev.bridge = b }
}

type nativeFunc struct {
	fn func(e *dom.Event)
}

func (f *nativeFunc) HandleEvent(e *dom.Event) { f.fn(e) }

func New(doc *dom.Node, opts ...Option) *Events {
	ev := &Events{
		doc:      doc,
		registry: NewRegistry(),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(ev)
	}
	ev.log = ev.log.WithField("component", "event")
	if ev.bridge == nil {
		ev.bridge = NewNativeBridge(ev.log)
	}
	ev.table = NewTable(ev.Ready, ev.log)

	ev.onUnload = &nativeFunc{fn: func(*dom.Event) { ev.Teardown() }}
	doc.AddEventListener("unload", ev.onUnload, false)
	if doc.ReadyState != dom.Loading {
		ev.callReady()
	} else {
		ev.onReady = &nativeFunc{fn: func(*dom.Event) { ev.callReady() }}
		doc.AddEventListener("DOMContentLoaded", ev.onReady, false)
	}
	return ev
}

func (ev *Events) Document() *dom.Node { return ev.doc }

func (ev *Events) Registry() *Registry { return ev.registry }

func (ev *Events) Table() *Table { return ev.table }

func (ev *Events) Bridge() Bridge { return ev.bridge }

func (ev *Events) Logger() *logrus.Entry { return ev.log }

// Define registers a custom event; see Definition.
func (ev *Events) Define(d Definition) { ev.table.Define(d) }

func (ev *Events) Select(targets ...Target) *Set {
	return &Set{ev: ev, elements: targets}
}

// Query selects the elements of the document matching selectors.
func (ev *Events) Query(selectors string) (*Set, error) {
	nodes, err := ev.doc.QuerySelectorAll(selectors)
	if err != nil {
		return nil, err
	}
	s := &Set{ev: ev}
	for _, n := range nodes {
		s.elements = append(s.elements, n)
	}
	return s, nil
}

// Ready runs fn once the document is interactive: immediately if it already
// is, otherwise when DOMContentLoaded fires.
func (ev *Events) Ready(fn func()) {
	if ev.isReady {
		fn()
		return
	}
	ev.readyCalls = append(ev.readyCalls, fn)
}

func (ev *Events) callReady() {
	if ev.isReady {
		return
	}
	ev.isReady = true
	if ev.onReady != nil {
		ev.doc.RemoveEventListener("DOMContentLoaded", ev.onReady, false)
	}
	calls := ev.readyCalls
	ev.readyCalls = nil
	for _, fn := range calls {
		fn()
	}
}

// Teardown unbinds every listener bound through this layer, destroying
// custom events as their counts reach zero, then runs the Destroy hooks of
// unmanaged definitions. It runs automatically when the document unloads.
func (ev *Events) Teardown() {
	for _, h := range ev.registry.All() {
		ev.Select(h.Owner).Un(h.Type, h.Listener, h.Capture)
	}
	ev.table.Unload()
}

// Set is a group of elements that event operations apply to.
type Set struct {
	ev       *Events
	elements []Target
}

func (s *Set) Elements() []Target { return s.elements }

func (s *Set) Len() int { return len(s.elements) }

// On binds l for the bubbling phase. eventType may carry a namespace, as in
// "tap.menu"; the native listener is bound for "tap" but unbinding must use
// the full name.
func (s *Set) On(eventType string, l Listener, args ...any) *Set {
	return s.bind(eventType, l, false, args)
}

// Capture binds l for the capturing phase.
func (s *Set) Capture(eventType string, l Listener, args ...any) *Set {
	return s.bind(eventType, l, true, args)
}

func (s *Set) bind(eventType string, l Listener, capture bool, args []any) *Set {
	domType, _ := parse(eventType)
	for _, el := range s.elements {
		h := s.ev.registry.Register(el, eventType, l, capture, args...)
		if h == nil {
			continue
		}
		s.ev.table.Added(domType, 1)
		s.ev.bridge.Attach(el, domType, h, capture)
	}
	return s
}

// Un unbinds a listener previously bound with On, or with Capture when
// capture is true. Unknown listeners are ignored; use Off to find out
// whether anything was removed.
func (s *Set) Un(eventType string, l Listener, capture ...bool) *Set {
	s.Off(eventType, l, capture...)
	return s
}

// Off is Un reporting how many elements of the set actually had the
// listener bound. Zero means the listener was not found anywhere.
func (s *Set) Off(eventType string, l Listener, capture ...bool) int {
	c := len(capture) > 0 && capture[0]
	domType, _ := parse(eventType)
	removed := 0
	for _, el := range s.elements {
		h := s.ev.registry.Unregister(el, eventType, l, c)
		if h == nil {
			continue
		}
		removed++
		s.ev.bridge.Detach(el, domType, h, c)
		s.ev.table.Removed(domType, 1)
	}
	return removed
}

// Dispatch fires a fresh event of eventType on every element in the set.
// See BuildEvent for how payload is applied.
func (s *Set) Dispatch(eventType string, payload any) *Set {
	for _, el := range s.elements {
		s.ev.bridge.Fire(el, eventType, payload)
	}
	return s
}

// parse splits "type.namespace" at the first dot.
func parse(eventType string) (string, string) {
	t, ns, _ := strings.Cut(eventType, ".")
	return t, ns
}
