// Package syntax defines the generic syntax tree consumed by the engine.
//
// The rendering core never inspects score text directly; it walks a tree
// of nodes, each exposing a kind tag, lookup of named child fields, and
// the source text the node spans. Any parser that produces this interface
// can drive the engine (the reference one lives in package score).
package syntax

// Node is one node of a parsed score tree.
type Node interface {
	// Kind returns the node's kind tag, e.g. "grid", "tempo", "chord".
	Kind() string

	// Child returns the first child bound to the named field, or nil.
	Child(field string) Node

	// Children returns all children bound to the named field, in order.
	Children(field string) []Node

	// Text returns the source text spanned by this node.
	Text() string
}

// Tree is the basic Node implementation used by the score parser and by
// tests that construct trees by hand.
type Tree struct {
	kind   string
	text   string
	fields map[string][]Node
}

// NewNode creates a node with the given kind tag and source text.
func NewNode(kind, text string) *Tree {
	return &Tree{kind: kind, text: text}
}

// Append binds a child node to the named field, preserving order.
func (t *Tree) Append(field string, child Node) *Tree {
	if t.fields == nil {
		t.fields = make(map[string][]Node)
	}
	t.fields[field] = append(t.fields[field], child)
	return t
}

func (t *Tree) Kind() string { return t.kind }

func (t *Tree) Text() string { return t.text }

func (t *Tree) Child(field string) Node {
	if nodes := t.fields[field]; len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func (t *Tree) Children(field string) []Node {
	return t.fields[field]
}
