package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type NodeType uint16

const (
	ElementNode NodeType = iota + 1
	AttrNode
	TextNode
	CDATASectionNode
	ProcessingInstructionNode
	CommentNode
	DocumentNode
	DocumentTypeNode
	DocumentFragmentNode
)

// https://dom.spec.whatwg.org/#nodelist
type NodeList []*Node

// https://dom.spec.whatwg.org/#node
type Node struct {
	NodeType      NodeType
	NodeName      string
	OwnerDocument *Node
	ParentNode    *Node
	ChildNodes    NodeList
	NodeValue     string

	// Node types
	*Element
	*Document

	// src mirrors the node into an x/net/html tree so selectors can run
	// against it.
	src       *html.Node
	expando   map[string]string
	listeners []*listenerEntry
}

// https://dom.spec.whatwg.org/#interface-element
type Element struct {
	LocalName  string
	Attributes map[string]string
}

func newNode(od *Node, t NodeType, name string, src *html.Node) *Node {
	n := &Node{
		NodeType:      t,
		NodeName:      name,
		OwnerDocument: od,
		src:           src,
	}
	if od != nil && src != nil {
		od.Document.index[src] = n
	}
	return n
}

// CreateElement is https://dom.spec.whatwg.org/#dom-document-createelement
func (n *Node) CreateElement(localName string) *Node {
	od := n.document()
	localName = strings.ToLower(localName)
	src := &html.Node{Type: html.ElementNode, Data: localName, DataAtom: atom.Lookup([]byte(localName))}
	e := newNode(od, ElementNode, localName, src)
	e.Element = &Element{LocalName: localName, Attributes: map[string]string{}}
	return e
}

// CreateTextNode is https://dom.spec.whatwg.org/#dom-document-createtextnode
func (n *Node) CreateTextNode(data string) *Node {
	t := newNode(n.document(), TextNode, "#text", &html.Node{Type: html.TextNode, Data: data})
	t.NodeValue = data
	return t
}

func (n *Node) document() *Node {
	if n.NodeType == DocumentNode {
		return n
	}
	return n.OwnerDocument
}

// AppendChild is https://dom.spec.whatwg.org/#dom-node-appendchild
func (n *Node) AppendChild(child *Node) *Node {
	if child.ParentNode != nil {
		child.ParentNode.RemoveChild(child)
	}
	child.ParentNode = n
	n.ChildNodes = append(n.ChildNodes, child)
	if n.src != nil && child.src != nil {
		n.src.AppendChild(child.src)
	}
	return child
}

// RemoveChild is https://dom.spec.whatwg.org/#dom-node-removechild
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.ChildNodes {
		if c != child {
			continue
		}
		n.ChildNodes = append(n.ChildNodes[:i], n.ChildNodes[i+1:]...)
		child.ParentNode = nil
		if child.src != nil && child.src.Parent != nil {
			child.src.Parent.RemoveChild(child.src)
		}
		return child
	}
	return nil
}

// Contains is https://dom.spec.whatwg.org/#dom-node-contains
func (n *Node) Contains(other *Node) bool {
	for i := other; i != nil; i = i.ParentNode {
		if i == n {
			return true
		}
	}
	return false
}

func (n *Node) HasChildNodes() bool {
	return len(n.ChildNodes) > 0
}

func (n *Node) GetAttribute(name string) string {
	if n.Element == nil {
		return ""
	}
	return n.Attributes[strings.ToLower(name)]
}

func (n *Node) SetAttribute(name, value string) {
	if n.Element == nil {
		return
	}
	name = strings.ToLower(name)
	n.Attributes[name] = value
	if n.src == nil {
		return
	}
	for i := range n.src.Attr {
		if n.src.Attr[i].Key == name {
			n.src.Attr[i].Val = value
			return
		}
	}
	n.src.Attr = append(n.src.Attr, html.Attribute{Key: name, Val: value})
}

// ID returns the element's id attribute.
func (n *Node) ID() string {
	return n.GetAttribute("id")
}

// Expando returns a script-side property stored on the node. Unlike
// attributes, expandos are invisible to selectors and serialization.
func (n *Node) Expando(name string) string {
	return n.expando[name]
}

func (n *Node) SetExpando(name, value string) {
	if n.expando == nil {
		n.expando = map[string]string{}
	}
	n.expando[name] = value
}

func (n *Node) String() string {
	switch n.NodeType {
	case DocumentNode:
		return "#document"
	case TextNode:
		return "\"" + n.NodeValue + "\""
	case ElementNode:
		s := "<" + n.NodeName
		if id := n.ID(); id != "" {
			s += "#" + id
		}
		return s + ">"
	default:
		return n.NodeName
	}
}
