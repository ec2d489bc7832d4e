package dom

import (
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// https://html.spec.whatwg.org/multipage/dom.html#current-document-readiness
type ReadyState string

const (
	Loading     ReadyState = "loading"
	Interactive ReadyState = "interactive"
	Complete    ReadyState = "complete"
)

// Document is https://dom.spec.whatwg.org/#interface-document
type Document struct {
	ReadyState ReadyState
	// TouchEnabled reports whether the hosting environment delivers touch
	// events, the equivalent of document.createTouch being present.
	TouchEnabled bool

	index map[*html.Node]*Node
}

// NewDocument returns an empty document in the loading state.
func NewDocument() *Node {
	src := &html.Node{Type: html.DocumentNode}
	d := &Node{
		NodeType: DocumentNode,
		NodeName: "#document",
		Document: &Document{
			ReadyState: Loading,
			index:      map[*html.Node]*Node{},
		},
		src: src,
	}
	d.Document.index[src] = d
	return d
}

// Parse builds a document from HTML. The document stays in the loading
// state until SetReadyState is called.
func Parse(r io.Reader) (*Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing html")
	}

	d := NewDocument()
	delete(d.Document.index, d.src)
	d.src = root
	d.Document.index[root] = d
	d.adopt(root, d)
	return d, nil
}

func (n *Node) adopt(src *html.Node, into *Node) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		var child *Node
		switch c.Type {
		case html.ElementNode:
			child = newNode(into, ElementNode, c.Data, nil)
			child.Element = &Element{LocalName: c.Data, Attributes: map[string]string{}}
			for _, a := range c.Attr {
				child.Attributes[a.Key] = a.Val
			}
		case html.TextNode:
			child = newNode(into, TextNode, "#text", nil)
			child.NodeValue = c.Data
		case html.CommentNode:
			child = newNode(into, CommentNode, "#comment", nil)
			child.NodeValue = c.Data
		case html.DoctypeNode:
			child = newNode(into, DocumentTypeNode, c.Data, nil)
		default:
			continue
		}
		child.ParentNode = n
		n.ChildNodes = append(n.ChildNodes, child)
		child.src = c
		into.Document.index[c] = child
		child.adopt(c, into)
	}
}

// SetReadyState moves the document through its readiness states, firing
// DOMContentLoaded on the way to interactive and load on complete.
func (n *Node) SetReadyState(state ReadyState) {
	doc := n.document()
	if doc == nil || state == doc.ReadyState {
		return
	}
	prev := doc.ReadyState
	doc.ReadyState = state
	if prev == Loading && state != Loading {
		doc.DispatchEvent(NewEvent("DOMContentLoaded", true, false))
	}
	if state == Complete {
		doc.DispatchEvent(NewEvent("load", false, false))
	}
}

// Unload fires the page teardown event on the document.
func (n *Node) Unload() {
	n.document().DispatchEvent(NewEvent("unload", false, false))
}

// DocumentElement is https://dom.spec.whatwg.org/#dom-document-documentelement
func (n *Node) DocumentElement() *Node {
	for _, c := range n.document().ChildNodes {
		if c.NodeType == ElementNode {
			return c
		}
	}
	return nil
}

// Body is https://html.spec.whatwg.org/multipage/dom.html#dom-document-body
func (n *Node) Body() *Node {
	root := n.DocumentElement()
	if root == nil {
		return nil
	}
	for _, c := range root.ChildNodes {
		if c.NodeType == ElementNode && c.NodeName == "body" {
			return c
		}
	}
	return nil
}

// GetElementByID is https://dom.spec.whatwg.org/#dom-nonelementparentnode-getelementbyid
func (n *Node) GetElementByID(id string) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if c.NodeType == ElementNode && c.ID() == id {
			found = c
			return false
		}
		return true
	})
	return found
}

func (n *Node) walk(fn func(*Node) bool) bool {
	for _, c := range n.ChildNodes {
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

// QuerySelectorAll is https://dom.spec.whatwg.org/#dom-parentnode-queryselectorall
// Matching is delegated to cascadia over the mirrored html tree.
func (n *Node) QuerySelectorAll(selectors string) (NodeList, error) {
	sel, err := cascadia.Compile(strings.TrimSpace(selectors))
	if err != nil {
		return nil, errors.Wrapf(err, "compiling selector %q", selectors)
	}
	if n.src == nil {
		return nil, nil
	}

	index := n.document().Document.index
	var out NodeList
	for _, m := range sel.MatchAll(n.src) {
		if m == n.src {
			continue
		}
		if node, ok := index[m]; ok {
			out = append(out, node)
		}
	}
	return out, nil
}

// QuerySelector is https://dom.spec.whatwg.org/#dom-parentnode-queryselector
func (n *Node) QuerySelector(selectors string) (*Node, error) {
	all, err := n.QuerySelectorAll(selectors)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}
