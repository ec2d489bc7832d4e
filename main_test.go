package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heathj/gobrowse/dom"
	"github.com/heathj/gobrowse/event"
)

const page = `<html><body><button id="go">go</button></body></html>`

const taps = `
listen: [tap, dbltap]
steps:
  - {at: 0s, type: touchstart, target: "#go", touches: [{id: 1, x: 10, y: 10}]}
  - {at: 20ms, type: touchend, target: "#go", touches: [{id: 1, x: 10, y: 10}]}
  - {at: 120ms, type: touchstart, target: "#go", touches: [{id: 1, x: 10, y: 10}]}
  - {at: 140ms, type: touchend, target: "#go", touches: [{id: 1, x: 10, y: 10}]}
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func TestRunPrintsGestures(t *testing.T) {
	dir := writeFiles(t, map[string]string{"page.html": page, "trace.yaml": taps})
	var stdout, stderr bytes.Buffer

	err := run([]string{
		"-html", filepath.Join(dir, "page.html"),
		"-trace", filepath.Join(dir, "trace.yaml"),
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "tap")
	assert.Contains(t, lines[0], "<button#go>")
	assert.Contains(t, lines[1], "dbltap")
	assert.NotContains(t, lines[2], "dbltap")
}

func TestRunMouseConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html":   page,
		"config.yaml": "input:\n  mode: mouse\ngesture:\n  move_threshold: 5\n",
		"trace.yaml": `
listen: [swipe]
steps:
  - {at: 0s, type: mousedown, target: button, x: 10, y: 10}
  - {at: 10ms, type: mousemove, target: button, x: 10, y: 20}
  - {at: 20ms, type: mouseup, target: button, x: 10, y: 20}
`,
	})
	var stdout, stderr bytes.Buffer

	err := run([]string{
		"-html", filepath.Join(dir, "page.html"),
		"-trace", filepath.Join(dir, "trace.yaml"),
		"-config", filepath.Join(dir, "config.yaml"),
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "direction=down")
	assert.Contains(t, stdout.String(), "startY=10")
}

func TestRunRealtime(t *testing.T) {
	dir := writeFiles(t, map[string]string{"page.html": page, "trace.yaml": taps})
	var stdout, stderr bytes.Buffer

	err := run([]string{
		"-realtime",
		"-html", filepath.Join(dir, "page.html"),
		"-trace", filepath.Join(dir, "trace.yaml"),
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "dbltap")
}

func TestRunDump(t *testing.T) {
	dir := writeFiles(t, map[string]string{"page.html": page, "trace.yaml": taps})
	var stdout, stderr bytes.Buffer

	err := run([]string{
		"-dump",
		"-html", filepath.Join(dir, "page.html"),
		"-trace", filepath.Join(dir, "trace.yaml"),
	}, &stdout, &stderr)
	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "#document")
	assert.Contains(t, out, "touchstart [capture]")
	assert.Contains(t, out, "dbltap [bubble]")
}

func TestRunErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html":  page,
		"bad.yaml":   "steps: [{at: 0s, type: touchstart}]\n",
		"miss.yaml":  "steps: [{at: 0s, type: touchstart, target: '#nope'}]\n",
		"mode.yaml":  "input:\n  mode: stylus\n",
		"trace.yaml": taps,
	})
	page, trace := filepath.Join(dir, "page.html"), filepath.Join(dir, "trace.yaml")

	for name, args := range map[string][]string{
		"missing flags": {"-html", page},
		"bad trace":     {"-html", page, "-trace", filepath.Join(dir, "bad.yaml")},
		"no target":     {"-html", page, "-trace", filepath.Join(dir, "miss.yaml")},
		"bad config":    {"-html", page, "-trace", trace, "-config", filepath.Join(dir, "mode.yaml")},
		"no page":       {"-html", filepath.Join(dir, "absent.html"), "-trace", trace},
	} {
		var stdout, stderr bytes.Buffer
		assert.Error(t, run(args, &stdout, &stderr), name)
	}
}

func TestDumpRegistry(t *testing.T) {
	doc := dom.NewDocument()
	a := doc.AppendChild(doc.CreateElement("a"))
	a.SetAttribute("id", "home")
	ev := event.New(doc)
	noop := event.Func(func(event.Target, *dom.Event, ...any) bool { return true })
	ev.Select(a).On("click", noop, "nav")
	ev.Select(doc).Capture("keydown", noop)

	out := dumpRegistry(ev.Registry())
	assert.Contains(t, out, "registry (2 handlers)")
	assert.Contains(t, out, "<a#home>")
	assert.Contains(t, out, "click [bubble] args=[nav]")
	assert.Contains(t, out, "keydown [capture]")
}
