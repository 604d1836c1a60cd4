package ast

import "jssema/internal/source"

// NodeFlags carries per-node syntactic modifiers.
type NodeFlags uint16

const (
	FlagComputed NodeFlags = 1 << iota
	FlagOptional
	FlagPrefix
	FlagShorthand
	FlagStatic
	FlagAsync
	FlagGenerator
	FlagDelegate
	FlagExprBody  // arrow whose body is an expression
	FlagDirective // expression statement that is a prologue directive
	FlagDeclare   // TS ambient declaration
	FlagParens    // expression was parenthesized in source
)

// Node is the uniform tree record. Fixed children live in Kids at the
// positions given by the kind's descriptor; the variable child list, if
// the kind has one, lives in List.
type Node struct {
	Kind   Kind
	Op     Op
	Flags  NodeFlags
	Span   source.Span
	Name   source.StringID
	Parent NodeID
	Kids   [4]NodeID
	List   []NodeID
}

func (n *Node) Has(f NodeFlags) bool { return n.Flags&f != 0 }

// Spanned is anything with a source span.
type Spanned interface {
	Span() source.Span
}

// Named is anything carrying an identifier name.
type Named interface {
	NameString() string
}

// NodeRef pairs a tree with a node ID so it can be passed around as a value.
type NodeRef struct {
	Tree *Tree
	ID   NodeID
}

func (r NodeRef) Span() source.Span { return r.Tree.Node(r.ID).Span }

func (r NodeRef) NameString() string { return r.Tree.Name(r.ID) }

func (r NodeRef) Kind() Kind { return r.Tree.Kind(r.ID) }

var (
	_ Spanned = NodeRef{}
	_ Named   = NodeRef{}
)
