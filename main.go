// Command gobrowse loads an HTML page, installs the touch gesture events on
// it and replays a recorded input trace, printing the gestures recognized.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/gobrowse/config"
	"github.com/heathj/gobrowse/dom"
	"github.com/heathj/gobrowse/event"
	"github.com/heathj/gobrowse/timer"
	"github.com/heathj/gobrowse/touch"
	"github.com/heathj/gobrowse/trace"
)

type options struct {
	html       string
	configPath string
	tracePath  string
	touch      bool
	dump       bool
	realtime   bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "gobrowse:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := flag.NewFlagSet("gobrowse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.html, "html", "", "HTML page to load")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.tracePath, "trace", "", "YAML input trace to replay")
	fs.BoolVar(&opts.touch, "touch", true, "whether the emulated device supports touch")
	fs.BoolVar(&opts.dump, "dump", false, "print the listener registry once the trace listeners are bound")
	fs.BoolVar(&opts.realtime, "realtime", false, "replay the trace on the wall clock instead of a virtual one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.html == "" || opts.tracePath == "" {
		fs.Usage()
		return errors.New("-html and -trace are required")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(cfg.LogLevel())

	doc, err := loadDocument(opts.html)
	if err != nil {
		return err
	}
	doc.TouchEnabled = opts.touch

	tr, err := loadTrace(opts.tracePath)
	if err != nil {
		return err
	}

	ev := event.New(doc, event.WithLogger(logrus.NewEntry(log)))

	var replayOpts []trace.Option
	if opts.dump {
		replayOpts = append(replayOpts, trace.OnListening(func() {
			fmt.Fprintln(stdout, dumpRegistry(ev.Registry()))
		}))
	}

	var records []trace.Record
	if opts.realtime {
		loop := timer.NewLoop()
		touch.Install(ev, loop, cfg.Gestures())
		doc.SetReadyState(dom.Interactive)
		records, err = trace.Play(context.Background(), tr, ev, loop, replayOpts...)
	} else {
		clock := timer.NewManual(time.Unix(0, 0).UTC())
		touch.Install(ev, clock, cfg.Gestures())
		doc.SetReadyState(dom.Interactive)
		records, err = trace.Replay(tr, ev, clock, replayOpts...)
	}
	printRecords(stdout, records)
	if err != nil {
		return err
	}

	doc.SetReadyState(dom.Complete)
	doc.Unload()
	return nil
}

func loadDocument(path string) (*dom.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening page")
	}
	defer f.Close()
	return dom.Parse(f)
}

func loadTrace(path string) (*trace.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening trace")
	}
	defer f.Close()
	return trace.Load(f)
}

func printRecords(w io.Writer, records []trace.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "%8s %-8s %s", r.At, r.Type, r.Target)
		for _, k := range sortedKeys(r.Data) {
			fmt.Fprintf(w, " %s=%v", k, r.Data[k])
		}
		fmt.Fprintln(w)
	}
}
