package semantic

import (
	"jssema/internal/ast"
	"jssema/internal/source"
)

// Scope is a lexical region owning a set of bindings.
type Scope struct {
	ID       ScopeID
	Parent   ScopeID
	Children []ScopeID
	Flags    ScopeFlags
	Node     ast.NodeID // owner
	Bindings map[source.StringID]SymbolID
	Symbols  []SymbolID
}

// Symbol is one declared name.
type Symbol struct {
	ID    SymbolID
	Name  source.StringID
	Decl  ast.NodeID // canonical (last) declaration
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	// Redeclarations holds the spans of earlier declarations merged into this symbol.
	Redeclarations []source.Span
	References     []ReferenceID
}

// Reference is one use of a name.
type Reference struct {
	ID     ReferenceID
	Node   ast.NodeID
	Name   source.StringID
	Scope  ScopeID
	Symbol SymbolID
	Flags  RefFlags

	deleted bool
}

func (r *Reference) Resolved() bool { return r.Symbol.IsValid() }

// Deleted reports a reference that a pass unregistered.
func (r *Reference) Deleted() bool { return r.deleted }

// Stats counts the model's records; it doubles as a capacity hint.
type Stats struct {
	Nodes      int
	Scopes     int
	Symbols    int
	References int
}
