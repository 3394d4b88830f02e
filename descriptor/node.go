package descriptor

import (
	"maps"
	"slices"
)

// MappingNamespace is the XML namespace of mapping documents.
// Elements from any other namespace are carried in the tree but never bound.
const MappingNamespace = "urn:jormap-mapping-1.0"

// Attr is a single attribute of a descriptor node.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a parsed mapping document.
type Node struct {
	LocalName    string
	NamespaceURI string
	Kind         Kind
	Attrs        []Attr
	Children     []*Node
	Text         string // Character data directly under the element, trimmed
}

// Attribute returns the value of the named attribute and whether it is present.
func (n *Node) Attribute(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttributeOr returns the named attribute, or def when it is absent.
func (n *Node) AttributeOr(name, def string) string {
	if v, ok := n.Attribute(name); ok {
		return v
	}
	return def
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// IsMapping reports whether the node belongs to the mapping namespace.
func (n *Node) IsMapping() bool {
	return n.NamespaceURI == MappingNamespace
}

// Elements returns the children of the given kind, in document order.
func (n *Node) Elements(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// First returns the first child of the given kind, or nil.
func (n *Node) First(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Element builds a mapping-namespace node. It is mostly useful for
// constructing documents in code; parsed documents come from Parse.
func Element(local string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{
		LocalName:    local,
		NamespaceURI: MappingNamespace,
		Children:     children,
	}
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		n.Attrs = append(n.Attrs, Attr{Name: name, Value: attrs[name]})
	}
	n.Kind = Classify(n.NamespaceURI, n.LocalName)
	return n
}
