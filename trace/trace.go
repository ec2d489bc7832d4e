// Package trace replays recorded pointer input against a document and
// reports the gesture events it produces.
package trace

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/heathj/gobrowse/dom"
)

// Trace is a scripted sequence of raw input events.
type Trace struct {
	// Listen names the synthetic events to record.
	Listen []string `yaml:"listen"`
	Steps  []Step   `yaml:"steps"`
	// End is how long after the start the clock runs once the last step
	// has been fired, so that pending holds can expire.
	End time.Duration `yaml:"end,omitempty"`
}

// Step is one raw event. Touch steps list their contacts; mouse steps use
// X and Y.
type Step struct {
	At     time.Duration `yaml:"at"`
	Type   string        `yaml:"type"`
	Target string        `yaml:"target"`

	// Touches are the contacts still on the surface after the event.
	// Changed are the contacts the event is about. When Changed is omitted
	// it equals Touches, except that for touchend and touchcancel Touches
	// then becomes empty.
	Touches []Point `yaml:"touches,omitempty"`
	Changed []Point `yaml:"changed,omitempty"`

	X float64 `yaml:"x,omitempty"`
	Y float64 `yaml:"y,omitempty"`
}

type Point struct {
	ID int     `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

// Load decodes a YAML trace. Unknown fields are an error.
func Load(r io.Reader) (*Trace, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var tr Trace
	if err := dec.Decode(&tr); err != nil {
		return nil, errors.Wrap(err, "decoding trace")
	}
	if err := tr.validate(); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (tr *Trace) validate() error {
	var last time.Duration
	for i, s := range tr.Steps {
		if s.Type == "" {
			return errors.Errorf("step %d: missing type", i)
		}
		if s.Target == "" {
			return errors.Errorf("step %d: missing target", i)
		}
		if s.At < last {
			return errors.Errorf("step %d: at %s is before the previous step", i, s.At)
		}
		last = s.At
	}
	return nil
}

func (s Step) touch() bool {
	return strings.HasPrefix(s.Type, "touch")
}

// event builds the raw event for the step, targeted at target.
func (s Step) event(target *dom.Node) *dom.Event {
	e := dom.NewEvent(s.Type, true, s.Type != "touchcancel")
	if !s.touch() {
		e.ScreenX, e.ScreenY = s.X, s.Y
		return e
	}

	touches, changed := s.Touches, s.Changed
	if changed == nil {
		changed = touches
		if s.Type == "touchend" || s.Type == "touchcancel" {
			touches = nil
		}
	}
	e.Touches = touchList(target, touches)
	e.ChangedTouches = touchList(target, changed)
	if p := e.ChangedTouches; len(p) > 0 {
		e.ScreenX, e.ScreenY = p[0].ScreenX, p[0].ScreenY
	}
	return e
}

func touchList(target *dom.Node, points []Point) dom.TouchList {
	if len(points) == 0 {
		return nil
	}
	l := make(dom.TouchList, 0, len(points))
	for _, p := range points {
		l = append(l, dom.Touch{
			Identifier: p.ID,
			Target:     target,
			ScreenX:    p.X,
			ScreenY:    p.Y,
			ClientX:    p.X,
			ClientY:    p.Y,
		})
	}
	return l
}
