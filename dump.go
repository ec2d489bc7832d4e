package main

import (
	"fmt"
	"sort"

	"github.com/xlab/treeprint"

	"github.com/heathj/gobrowse/event"
)

// dumpRegistry renders the bound handlers as a tree of elements.
func dumpRegistry(r *event.Registry) string {
	tree := treeprint.New().AddBranch(fmt.Sprintf("registry (%d handlers)", r.Len()))

	var (
		owner  event.Target
		branch treeprint.Tree
	)
	for _, h := range r.All() {
		if branch == nil || h.Owner != owner {
			owner = h.Owner
			branch = tree.AddBranch(fmt.Sprint(owner))
		}
		phase := "bubble"
		if h.Capture {
			phase = "capture"
		}
		if len(h.Args) > 0 {
			branch.AddNode(fmt.Sprintf("%s [%s] args=%v", h.Type, phase, h.Args))
			continue
		}
		branch.AddNode(fmt.Sprintf("%s [%s]", h.Type, phase))
	}
	return tree.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
