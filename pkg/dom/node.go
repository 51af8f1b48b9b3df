package dom

import (
	"strings"
	"sync/atomic"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1 // <div>, <span>, etc.
	TextNode                        // Plain text node
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

var nodeIDCounter uint64

// nextNodeID returns the next unique node id. IDs are never reused.
func nextNodeID() uint64 {
	return atomic.AddUint64(&nodeIDCounter, 1)
}

// Node is a live DOM node.
type Node struct {
	id   uint64
	typ  NodeType
	tag  string
	text string

	attrs []Attr
	props map[string]bool
	style []Declaration

	parent   *Node
	children []*Node

	// ownerTag is a non-owning back-reference to the component that owns
	// this node as its root. Zero means untagged.
	ownerTag uint64

	recorder Recorder
}

// NewElement creates a detached element node. Tag names are lowercased.
func NewElement(tag string, attrs ...Attr) *Node {
	n := &Node{
		id:  nextNodeID(),
		typ: ElementNode,
		tag: strings.ToLower(tag),
	}
	for _, a := range attrs {
		if a.Name != "" {
			n.SetAttribute(a.Name, a.Value)
		}
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{
		id:   nextNodeID(),
		typ:  TextNode,
		text: text,
	}
}

// ID returns the node's unique identifier.
func (n *Node) ID() uint64 { return n.id }

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the lowercase tag name, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool { return n != nil && n.typ == ElementNode }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// ChildAt returns the child at index i, or nil when out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// OwnerTag returns the id of the component that tagged this node, or 0.
func (n *Node) OwnerTag() uint64 { return n.ownerTag }

// SetOwnerTag sets the non-owning component tag. Pass 0 to clear it.
func (n *Node) SetOwnerTag(id uint64) { n.ownerTag = id }

// AppendChild appends child to n, detaching it from any previous parent.
func (n *Node) AppendChild(child *Node) *Node {
	if child == nil || child == n {
		return n
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	if n.IsConnected() {
		n.emit(Mutation{Op: OpInsertNode, NodeID: n.id, Index: len(n.children) - 1, Value: child.OuterHTML()})
	}
	return n
}

// RemoveChild detaches child from n. It is a no-op if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.emit(Mutation{Op: OpRemoveNode, NodeID: child.id})
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// IsConnected reports whether n is reachable from a node carrying a
// Recorder, or is itself such a node.
func (n *Node) IsConnected() bool {
	for p := n; p != nil; p = p.parent {
		if p.recorder != nil {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.typ == TextNode {
		return n.text
	}
	var b strings.Builder
	n.walkText(&b)
	return b.String()
}

func (n *Node) walkText(b *strings.Builder) {
	for _, c := range n.children {
		if c.typ == TextNode {
			b.WriteString(c.text)
		} else {
			c.walkText(b)
		}
	}
}

// SetTextContent replaces the node's text. On an element it replaces all
// children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n.typ == TextNode {
		if n.text == text {
			return
		}
		n.text = text
		n.emit(Mutation{Op: OpSetText, NodeID: n.id, Value: text})
		return
	}
	if len(n.children) == 1 && n.children[0].typ == TextNode {
		n.children[0].SetTextContent(text)
		return
	}
	for len(n.children) > 0 {
		n.RemoveChild(n.children[0])
	}
	n.AppendChild(NewText(text))
}

// ElementsByTagName returns all descendant elements with the given tag, in
// document order.
func (n *Node) ElementsByTagName(tag string) []*Node {
	tag = strings.ToLower(tag)
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c != n && c.typ == ElementNode && (tag == "*" || c.tag == tag) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}
