package event

import "github.com/sirupsen/logrus"

// Definition describes a custom event. With a Type, Setup runs when the
// first listener for the type is bound and Destroy when the last one is
// unbound. Without a Type the definition is unmanaged: Setup runs once the
// document is ready and Destroy at teardown.
type Definition struct {
	Type    string
	Setup   func()
	Destroy func()
}

func noop() {}

func (d Definition) withDefaults() Definition {
	if d.Setup == nil {
		d.Setup = noop
	}
	if d.Destroy == nil {
		d.Destroy = noop
	}
	return d
}

// unmanaged is a definition without a Type. Setup waits on the ready
// latch; Destroy only runs if Setup did.
type unmanaged struct {
	definition Definition
	ran        bool
	dropped    bool
}

func (u *unmanaged) setup() {
	if u.dropped || u.ran {
		return
	}
	u.ran = true
	u.definition.Setup()
}

type descriptor struct {
	definition Definition
	count      int
}

// Table tracks custom event definitions and how many listeners each one
// currently has.
type Table struct {
	events    map[string]*descriptor
	unmanaged []*unmanaged
	ready     func(func())
	log       *logrus.Entry
}

// NewTable returns an empty table. ready schedules a function to run once
// the document is ready.
func NewTable(ready func(func()), log *logrus.Entry) *Table {
	return &Table{
		events: map[string]*descriptor{},
		ready:  ready,
		log:    log,
	}
}

func (t *Table) Define(d Definition) {
	d = d.withDefaults()
	if d.Type == "" {
		u := &unmanaged{definition: d}
		t.unmanaged = append(t.unmanaged, u)
		t.ready(u.setup)
		return
	}

	prev, ok := t.events[d.Type]
	if !ok {
		t.events[d.Type] = &descriptor{definition: d}
		return
	}

	prev.definition.Destroy()
	t.log.WithField("type", d.Type).Warn("custom event is already defined, overwriting")
	prev.definition = d
	if prev.count > 0 {
		d.Setup()
	}
}

// Defined reports whether eventType has a managed definition.
func (t *Table) Defined(eventType string) bool {
	_, ok := t.events[eventType]
	return ok
}

// Added records n new listeners for eventType, running Setup if the type
// had none. Unknown types are ignored.
func (t *Table) Added(eventType string, n int) {
	desc, ok := t.events[eventType]
	if !ok || n <= 0 {
		return
	}
	first := desc.count == 0
	desc.count += n
	if first {
		desc.definition.Setup()
	}
}

// Removed records n fewer listeners for eventType, running Destroy when the
// count drops to zero.
func (t *Table) Removed(eventType string, n int) {
	desc, ok := t.events[eventType]
	if !ok || desc.count == 0 || n <= 0 {
		return
	}
	desc.count -= n
	if desc.count <= 0 {
		desc.count = 0
		desc.definition.Destroy()
	}
}

// Count returns the active listener count for eventType.
func (t *Table) Count(eventType string) int {
	if desc, ok := t.events[eventType]; ok {
		return desc.count
	}
	return 0
}

// Unload runs the Destroy hook of every unmanaged definition whose Setup
// has run, most recent first, and forgets them. Setups still waiting for
// the document to become ready are dropped.
func (t *Table) Unload() {
	for i := len(t.unmanaged) - 1; i >= 0; i-- {
		u := t.unmanaged[i]
		u.dropped = true
		if u.ran {
			u.definition.Destroy()
		}
	}
	t.unmanaged = nil
}
