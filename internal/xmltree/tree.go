// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xmltree parses XML documents into a small typed element tree with
// non-panicking child and attribute lookups. Parsing is hardened: entity
// declarations are rejected and no external resource is ever resolved.
package xmltree

// Attr is a single element attribute. Namespaces are dropped; only the
// local name is kept.
type Attr struct {
	Name  string
	Value string
}

// Node is one XML element.
type Node struct {
	// Name is the element's local name (e.g. "RECORD").
	Name string

	// Attrs lists the element's attributes in document order.
	Attrs []Attr

	// Text is the character data that appears before the first child
	// element, verbatim. CDATA sections are included; comments and
	// processing instructions are not.
	Text string

	// Children lists the child elements in document order.
	Children []*Node
}

// Attr returns the value of the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// FirstChild returns the first direct child element with the given name.
func (n *Node) FirstChild(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ChildrenNamed returns all direct child elements with the given name,
// in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
