package semantic

import (
	"slices"

	"jssema/internal/ast"
)

// The methods in this file keep the model consistent while a pass edits
// the tree. They are meant for the traversal engine and the injectors.

// NewScope creates a child scope of parent owned by owner. Strictness is
// inherited.
func (s *Semantic) NewScope(parent ScopeID, flags ScopeFlags, owner ast.NodeID) ScopeID {
	if !parent.IsValid() {
		ast.Violatef("new scope needs a parent")
	}
	return s.newScope(parent, flags, owner)
}

// ReparentScope moves scope under parent, fixing both child lists.
func (s *Semantic) ReparentScope(scope, parent ScopeID) {
	if scope == s.root {
		ast.Violatef("cannot reparent the root scope")
	}
	if s.IsAncestorScope(scope, parent) {
		ast.Violatef("reparenting scope %d under %d would create a cycle", scope, parent)
	}
	sc := &s.scopes[scope]
	if old := sc.Parent; old.IsValid() {
		kids := s.scopes[old].Children
		if i := slices.Index(kids, scope); i >= 0 {
			s.scopes[old].Children = slices.Delete(kids, i, i+1)
		}
	}
	sc.Parent = parent
	s.scopes[parent].Children = append(s.scopes[parent].Children, scope)
}

// DeclareGenerated binds a new symbol named name directly in scope. The
// name must be free in scope.
func (s *Semantic) DeclareGenerated(scope ScopeID, name string, flags SymbolFlags, decl ast.NodeID) SymbolID {
	id := s.tree.Intern(name)
	if _, bound := s.scopes[scope].Bindings[id]; bound {
		ast.Violatef("'%s' is already bound in scope %d", name, scope)
	}
	span := s.tree.Node(s.scopes[scope].Node).Span.ZeroideToStart()
	if decl.IsValid() {
		span = s.tree.Span(decl)
	}
	return s.newSymbol(scope, id, decl, span, flags|SymGenerated)
}

// BindNode records binding as one of sym's declaration nodes. The first
// one becomes the symbol's Decl.
func (s *Semantic) BindNode(binding ast.NodeID, sym SymbolID) {
	v := s.Symbol(sym)
	if v == nil {
		ast.Violatef("bind node %d to unknown symbol %d", binding, sym)
	}
	s.nodeSymbol[binding] = sym
	if !v.Decl.IsValid() {
		v.Decl = binding
		v.Span = s.tree.Span(binding)
	}
}

// AddReference registers node as a use of sym from scope. An invalid sym
// records the reference as unresolved.
func (s *Semantic) AddReference(node ast.NodeID, sym SymbolID, scope ScopeID, flags RefFlags) ReferenceID {
	if _, dup := s.nodeRef[node]; dup {
		ast.Violatef("node %d already carries a reference", node)
	}
	ref := s.newReference(node, s.tree.Node(node).Name, scope, flags)
	s.setScopeOf(node, scope)
	s.bind(ref, sym)
	return ref
}

// ResolveReference registers node as a use and resolves it through scope's chain.
func (s *Semantic) ResolveReference(node ast.NodeID, scope ScopeID, flags RefFlags) ReferenceID {
	sym := s.lookup(scope, s.tree.Node(node).Name, flags)
	return s.AddReference(node, sym, scope, flags)
}

// DeleteReference unregisters ref from its symbol or from the unresolved table.
func (s *Semantic) DeleteReference(ref ReferenceID) {
	r := s.Reference(ref)
	if r == nil || r.deleted {
		return
	}
	if r.Symbol.IsValid() {
		sym := &s.symbols[r.Symbol]
		if i := slices.Index(sym.References, ref); i >= 0 {
			sym.References = slices.Delete(sym.References, i, i+1)
		}
	} else {
		list := s.unresolved[r.Name]
		if i := slices.Index(list, ref); i >= 0 {
			s.unresolved[r.Name] = slices.Delete(list, i, i+1)
		}
	}
	delete(s.nodeRef, r.Node)
	r.deleted = true
	r.Symbol = NoSymbolID
}

// DeleteReferencesIn unregisters every reference held by the subtree at root.
func (s *Semantic) DeleteReferencesIn(root ast.NodeID) {
	s.tree.Walk(root, func(id ast.NodeID) bool {
		if ref, ok := s.nodeRef[id]; ok {
			s.DeleteReference(ref)
		}
		return true
	})
}

func (s *Semantic) SetReferenceFlags(ref ReferenceID, flags RefFlags) {
	r := s.Reference(ref)
	if r == nil {
		ast.Violatef("unknown reference %d", ref)
	}
	r.Flags = flags
}

// SetScopeOf annotates node as executing in scope.
func (s *Semantic) SetScopeOf(node ast.NodeID, scope ScopeID) {
	s.setScopeOf(node, scope)
}

// AdoptScopes moves the subtree at root from scope from into scope to:
// nodes annotated with from, references made from it, symbols declared by
// nodes of the subtree and scopes whose parent was from all follow.
func (s *Semantic) AdoptScopes(root ast.NodeID, from, to ScopeID) {
	if from == to {
		return
	}
	var moved []SymbolID
	s.tree.Walk(root, func(id ast.NodeID) bool {
		if s.ScopeOf(id) == from {
			s.setScopeOf(id, to)
			if ref, ok := s.nodeRef[id]; ok {
				s.refs[ref].Scope = to
			}
		}
		if sym, ok := s.nodeSymbol[id]; ok && s.symbols[sym].Scope == from && s.symbols[sym].Decl == id {
			moved = append(moved, sym)
		}
		if owned, ok := s.ownedScope[id]; ok && owned != to && s.scopes[owned].Parent == from {
			s.ReparentScope(owned, to)
		}
		return true
	})
	for _, sym := range moved {
		s.MoveSymbol(sym, to)
	}
}

// MoveSymbol rebinds sym from its scope into scope.
func (s *Semantic) MoveSymbol(sym SymbolID, scope ScopeID) {
	v := &s.symbols[sym]
	old := &s.scopes[v.Scope]
	if old.Bindings[v.Name] == sym {
		delete(old.Bindings, v.Name)
	}
	if i := slices.Index(old.Symbols, sym); i >= 0 {
		old.Symbols = slices.Delete(old.Symbols, i, i+1)
	}
	dst := &s.scopes[scope]
	if _, bound := dst.Bindings[v.Name]; bound {
		ast.Violatef("'%s' is already bound in scope %d", s.Name(v.Name), scope)
	}
	dst.Bindings[v.Name] = sym
	dst.Symbols = append(dst.Symbols, sym)
	v.Scope = scope
}
