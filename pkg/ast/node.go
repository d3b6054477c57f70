package ast

import (
	"encoding/json"
)

// NoIndex marks a node that is not stored inside a sequence.
const NoIndex = -1

// Value is a property value of a [Node]: one of [Scalar], *[Node],
// *[Reference], or [List].
type Value interface {
	isValue()
}

// Scalar is an opaque JSON value. It keeps the raw bytes it was decoded from.
type Scalar struct {
	Raw json.RawMessage
}

// List is a sequence property. Elements are *Node, *Reference, or Scalar.
type List []Value

// Property is a named value. Properties keep the order they had in the source.
type Property struct {
	Name  string
	Value Value
}

// Node is a typed element of the tree.
type Node struct {
	// Type discriminates the node's schema.
	Type string

	// Container is the parent node, nil for the root. It is navigational only
	// and is never part of Props, so no walk can descend into it.
	Container *Node
	// ContainerProperty names the parent property holding this node.
	ContainerProperty string
	// ContainerIndex is the position within the parent's sequence, or NoIndex.
	ContainerIndex int

	props   []Property
	denseID int
}

// Reference is a cross-reference placeholder.
type Reference struct {
	// Path locates the target, e.g. "#/states@1".
	Path string
	// Ref is the resolved target, nil until linked or when the path does not resolve.
	Ref *Node

	extra []Property
}

func (Scalar) isValue()     {}
func (*Node) isValue()      {}
func (*Reference) isValue() {}
func (List) isValue()       {}

// NewNode creates an unlinked node with the given properties.
func NewNode(typ string, props ...Property) *Node {
	return &Node{Type: typ, ContainerIndex: NoIndex, props: props}
}

// NewReference creates an unresolved reference placeholder.
func NewReference(path string) *Reference {
	return &Reference{Path: path}
}

// Prop builds a property.
func Prop(name string, v Value) Property {
	return Property{Name: name, Value: v}
}

// ScalarOf encodes v as a Scalar. Values that cannot be encoded become JSON null.
func ScalarOf(v any) Scalar {
	raw, err := json.Marshal(v)
	if err != nil {
		return Scalar{Raw: json.RawMessage("null")}
	}
	return Scalar{Raw: raw}
}

// Nodes builds a List of nodes.
func Nodes(nodes ...*Node) List {
	l := make(List, len(nodes))
	for i, n := range nodes {
		l[i] = n
	}
	return l
}

// References builds a List of references.
func References(refs ...*Reference) List {
	l := make(List, len(refs))
	for i, r := range refs {
		l[i] = r
	}
	return l
}

// Decode unmarshals the scalar into v.
func (s Scalar) Decode(v any) error {
	return json.Unmarshal(s.Raw, v)
}

// IsRoot reports whether n has no container.
func (n *Node) IsRoot() bool { return n.Container == nil }

// Props returns the node's properties in source order.
// The returned slice must not be modified.
func (n *Node) Props() []Property { return n.props }

// Set replaces the value of an existing property or appends a new one.
func (n *Node) Set(name string, v Value) {
	for i := range n.props {
		if n.props[i].Name == name {
			n.props[i].Value = v
			return
		}
	}
	n.props = append(n.props, Property{Name: name, Value: v})
}

// Get returns the value stored under name.
func (n *Node) Get(name string) (Value, bool) {
	for _, p := range n.props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Child returns the single node stored under name, or nil.
func (n *Node) Child(name string) *Node {
	v, _ := n.Get(name)
	child, _ := v.(*Node)
	return child
}

// Children returns the nodes of the sequence stored under name, skipping
// non-node elements.
func (n *Node) Children(name string) []*Node {
	v, _ := n.Get(name)
	list, _ := v.(List)
	var out []*Node
	for _, el := range list {
		if child, ok := el.(*Node); ok {
			out = append(out, child)
		}
	}
	return out
}

// Reference returns the single reference stored under name, or nil.
func (n *Node) Reference(name string) *Reference {
	v, _ := n.Get(name)
	ref, _ := v.(*Reference)
	return ref
}

// References returns the references of the sequence stored under name.
func (n *Node) References(name string) []*Reference {
	v, _ := n.Get(name)
	list, _ := v.(List)
	var out []*Reference
	for _, el := range list {
		if ref, ok := el.(*Reference); ok {
			out = append(out, ref)
		}
	}
	return out
}

// String returns the string scalar stored under name.
func (n *Node) String(name string) (string, bool) {
	v, _ := n.Get(name)
	s, ok := v.(Scalar)
	if !ok {
		return "", false
	}
	var out string
	if err := s.Decode(&out); err != nil {
		return "", false
	}
	return out, true
}

// DenseID returns the id stamped by the most recent graph projection.
func (n *Node) DenseID() int { return n.denseID }

// SetDenseID stamps a projection id onto the node.
func (n *Node) SetDenseID(id int) { n.denseID = id }

// Extra returns the reference's fields other than its path, in source order.
func (r *Reference) Extra() []Property { return r.extra }

// Resolved reports whether the reference points at a node.
func (r *Reference) Resolved() bool { return r.Ref != nil }

// Text returns the "$refText" field carried by Langium references, if any.
func (r *Reference) Text() string {
	for _, p := range r.extra {
		if p.Name != "$refText" {
			continue
		}
		if s, ok := p.Value.(Scalar); ok {
			var out string
			if s.Decode(&out) == nil {
				return out
			}
		}
	}
	return ""
}
