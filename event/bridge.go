package event

import (
	"github.com/sirupsen/logrus"

	"github.com/heathj/gobrowse/dom"
)

// Bridge is the one place that talks to an element's native event API.
type Bridge interface {
	Attach(el Target, eventType string, h dom.EventListener, capture bool)
	Detach(el Target, eventType string, h dom.EventListener, capture bool)
	Fire(el Target, eventType string, payload any) bool
}

type standardTarget interface {
	AddEventListener(eventType string, l dom.EventListener, capture bool)
	RemoveEventListener(eventType string, l dom.EventListener, capture bool)
}

type standardDispatcher interface {
	DispatchEvent(e *dom.Event) bool
}

type legacyTarget interface {
	AttachEvent(name string, h dom.EventListener) bool
	DetachEvent(name string, h dom.EventListener)
}

type legacyDispatcher interface {
	FireEvent(name string, e *dom.Event) bool
}

// NativeBridge picks the standard API when an element has it and falls back
// to the legacy "on"-prefixed one. Elements with neither are skipped.
type NativeBridge struct {
	log *logrus.Entry
}

func NewNativeBridge(log *logrus.Entry) *NativeBridge {
	return &NativeBridge{log: log}
}

func (b *NativeBridge) Attach(el Target, eventType string, h dom.EventListener, capture bool) {
	switch t := el.(type) {
	case standardTarget:
		t.AddEventListener(eventType, h, capture)
	case legacyTarget:
		t.AttachEvent("on"+eventType, h)
	default:
		b.log.WithField("type", eventType).Debugf("target %T cannot take listeners", el)
	}
}

func (b *NativeBridge) Detach(el Target, eventType string, h dom.EventListener, capture bool) {
	switch t := el.(type) {
	case standardTarget:
		t.RemoveEventListener(eventType, h, capture)
	case legacyTarget:
		t.DetachEvent("on"+eventType, h)
	}
}

// Fire builds an event and dispatches it on el. It returns false only when
// a listener prevented the default action.
func (b *NativeBridge) Fire(el Target, eventType string, payload any) bool {
	evt := BuildEvent(eventType, payload)
	switch t := el.(type) {
	case standardDispatcher:
		return t.DispatchEvent(evt)
	case legacyDispatcher:
		return t.FireEvent("on"+eventType, evt)
	default:
		b.log.WithField("type", eventType).Debugf("target %T cannot dispatch", el)
		return true
	}
}

// BuildEvent creates an initialized event. A map payload has its entries
// copied onto the event, except bubbles and cancelable which configure it;
// any other payload is stored as the event's Data. Events bubble and are
// cancelable unless the payload says false.
func BuildEvent(eventType string, payload any) *dom.Event {
	bubbles, cancelable := true, true
	evt := dom.CreateEvent("Events")

	if props, ok := payload.(map[string]any); ok {
		for k, v := range props {
			switch k {
			case "bubbles":
				if b, ok := v.(bool); ok && !b {
					bubbles = false
				}
			case "cancelable":
				if b, ok := v.(bool); ok && !b {
					cancelable = false
				}
			default:
				evt.Set(k, v)
			}
		}
	} else if payload != nil {
		evt.Data = payload
	}

	evt.InitEvent(eventType, bubbles, cancelable)
	return evt
}
