package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name string
	log  *[]string
	stop bool
}

func (r *recorder) HandleEvent(e *Event) {
	*r.log = append(*r.log, r.name+":"+phaseName(e.EventPhase))
	if r.stop {
		e.StopPropagation()
	}
}

func phaseName(p EventPhase) string {
	switch p {
	case CapturingPhase:
		return "capture"
	case AtTargetPhase:
		return "target"
	case BubblingPhase:
		return "bubble"
	}
	return "none"
}

func tree(t *testing.T) (doc, outer, inner *Node) {
	doc = NewDocument()
	outer = doc.CreateElement("div")
	inner = doc.CreateElement("span")
	doc.AppendChild(outer)
	outer.AppendChild(inner)
	return doc, outer, inner
}

func TestDispatchPhases(t *testing.T) {
	doc, outer, inner := tree(t)
	var log []string
	doc.AddEventListener("poke", &recorder{name: "doc", log: &log}, true)
	outer.AddEventListener("poke", &recorder{name: "outer", log: &log}, false)
	inner.AddEventListener("poke", &recorder{name: "inner", log: &log}, false)

	inner.DispatchEvent(NewEvent("poke", true, true))
	assert.Equal(t, []string{"doc:capture", "inner:target", "outer:bubble"}, log)

	log = nil
	inner.DispatchEvent(NewEvent("poke", false, true))
	assert.Equal(t, []string{"doc:capture", "inner:target"}, log)
}

func TestStopPropagation(t *testing.T) {
	doc, outer, inner := tree(t)
	var log []string
	doc.AddEventListener("poke", &recorder{name: "doc", log: &log, stop: true}, true)
	outer.AddEventListener("poke", &recorder{name: "outer", log: &log}, false)

	inner.DispatchEvent(NewEvent("poke", true, true))
	assert.Equal(t, []string{"doc:capture"}, log)
}

func TestListenerDedupAndRemoval(t *testing.T) {
	doc, _, _ := tree(t)
	var log []string
	r := &recorder{name: "r", log: &log}
	doc.AddEventListener("poke", r, false)
	doc.AddEventListener("poke", r, false)
	doc.AddEventListener("poke", r, true)
	assert.Equal(t, 2, doc.ListenerCount("poke"))

	doc.RemoveEventListener("poke", r, true)
	doc.DispatchEvent(NewEvent("poke", true, true))
	assert.Equal(t, []string{"r:target"}, log)

	doc.RemoveEventListener("poke", r, false)
	assert.Equal(t, 0, doc.ListenerCount("poke"))
}

func TestPreventDefault(t *testing.T) {
	e := NewEvent("x", true, false)
	e.PreventDefault()
	assert.False(t, e.DefaultPrevented)

	e = NewEvent("x", true, true)
	e.PreventDefault()
	assert.True(t, e.DefaultPrevented)
	assert.False(t, NewDocument().DispatchEvent(e))
}

func TestIdentical(t *testing.T) {
	var log []string
	a, b := &recorder{log: &log}, &recorder{log: &log}
	assert.True(t, Identical(a, a))
	assert.False(t, Identical(a, b))
	f := func() {}
	assert.False(t, Identical(f, f))
	assert.True(t, Identical(nil, nil))
}

func TestLegacyElement(t *testing.T) {
	_, outer, inner := tree(t)
	var log []string
	r := &recorder{name: "outer", log: &log}
	lo := Legacy(outer)
	require.True(t, lo.AttachEvent("onpoke", r))
	assert.False(t, lo.AttachEvent("poke", r))

	Legacy(inner).FireEvent("onpoke", CreateEvent("Events"))
	assert.Equal(t, []string{"outer:bubble"}, log)

	lo.DetachEvent("onpoke", r)
	assert.Equal(t, 0, outer.ListenerCount("poke"))
}

func TestParseAndQuery(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<html><body><ul id="list"><li class="a">1</li><li>2</li></ul></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, Loading, doc.ReadyState)
	require.NotNil(t, doc.Body())

	list := doc.GetElementByID("list")
	require.NotNil(t, list)
	assert.Equal(t, "ul", list.NodeName)

	items, err := doc.QuerySelectorAll("#list li")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Same(t, list, items[0].ParentNode)

	a, err := list.QuerySelector(".a")
	require.NoError(t, err)
	assert.Equal(t, "a", a.GetAttribute("class"))

	_, err = doc.QuerySelectorAll("li[")
	assert.Error(t, err)
}

func TestCreatedElementsAreSelectable(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("DIV")
	div.SetAttribute("id", "box")
	doc.AppendChild(div)

	found, err := doc.QuerySelector("div#box")
	require.NoError(t, err)
	assert.Same(t, div, found)

	doc.RemoveChild(div)
	found, err = doc.QuerySelector("#box")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestReadyStateEvents(t *testing.T) {
	doc := NewDocument()
	var log []string
	doc.AddEventListener("DOMContentLoaded", &recorder{name: "ready", log: &log}, false)
	doc.AddEventListener("load", &recorder{name: "load", log: &log}, false)
	doc.AddEventListener("unload", &recorder{name: "unload", log: &log}, false)

	doc.SetReadyState(Interactive)
	doc.SetReadyState(Interactive)
	doc.SetReadyState(Complete)
	doc.Unload()
	assert.Equal(t, []string{"ready:target", "load:target", "unload:target"}, log)
}

func TestExpando(t *testing.T) {
	doc := NewDocument()
	assert.Equal(t, "", doc.Expando("k"))
	doc.SetExpando("k", "v")
	assert.Equal(t, "v", doc.Expando("k"))
	assert.Equal(t, "v", Legacy(doc).Expando("k"))
}
