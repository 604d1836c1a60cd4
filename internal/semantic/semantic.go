package semantic

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	"fortio.org/safecast"

	"jssema/internal/ast"
	"jssema/internal/source"
)

// Semantic is the scope tree, symbol table and reference graph of one tree.
// It is owned by a single goroutine for the duration of a run.
type Semantic struct {
	tree *ast.Tree

	scopes  []Scope // index 0 reserved
	symbols []Symbol
	refs    []Reference

	nodeScope  []ScopeID // indexed by ast.NodeID
	ownedScope map[ast.NodeID]ScopeID
	nodeSymbol map[ast.NodeID]SymbolID
	nodeRef    map[ast.NodeID]ReferenceID

	unresolved map[source.StringID][]ReferenceID
	names      map[source.StringID]struct{}

	root    ScopeID
	module  bool
	claimed bool
}

func newSemantic(tree *ast.Tree, capacity Stats) *Semantic {
	if capacity.Scopes == 0 {
		capacity.Scopes = 32
	}
	if capacity.Symbols == 0 {
		capacity.Symbols = 64
	}
	if capacity.References == 0 {
		capacity.References = 128
	}
	nodes := max(capacity.Nodes, tree.Len())
	return &Semantic{
		tree:       tree,
		scopes:     make([]Scope, 1, capacity.Scopes+1),
		symbols:    make([]Symbol, 1, capacity.Symbols+1),
		refs:       make([]Reference, 1, capacity.References+1),
		nodeScope:  make([]ScopeID, nodes+1),
		ownedScope: make(map[ast.NodeID]ScopeID, capacity.Scopes),
		nodeSymbol: make(map[ast.NodeID]SymbolID, capacity.Symbols),
		nodeRef:    make(map[ast.NodeID]ReferenceID, capacity.References),
		unresolved: make(map[source.StringID][]ReferenceID),
		names:      make(map[source.StringID]struct{}, capacity.Symbols),
	}
}

func (s *Semantic) Tree() *ast.Tree { return s.tree }

// Root is the program scope.
func (s *Semantic) Root() ScopeID { return s.root }

// IsModule reports whether the program was analysed as an ES module.
func (s *Semantic) IsModule() bool { return s.module }

func (s *Semantic) Name(id source.StringID) string {
	name, _ := s.tree.Strings.Lookup(id)
	return name
}

func (s *Semantic) Scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.scopes) {
		return nil
	}
	return &s.scopes[id]
}

func (s *Semantic) Symbol(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(s.symbols) {
		return nil
	}
	return &s.symbols[id]
}

func (s *Semantic) Reference(id ReferenceID) *Reference {
	if !id.IsValid() || int(id) >= len(s.refs) {
		return nil
	}
	return &s.refs[id]
}

// Scopes lists every scope in creation order.
func (s *Semantic) Scopes() []Scope { return s.scopes[1:] }

func (s *Semantic) Symbols() []Symbol { return s.symbols[1:] }

// References lists every reference, including deleted ones.
func (s *Semantic) References() []Reference { return s.refs[1:] }

// ScopeOf returns the innermost scope node executes in.
func (s *Semantic) ScopeOf(node ast.NodeID) ScopeID {
	if int(node) >= len(s.nodeScope) {
		return NoScopeID
	}
	return s.nodeScope[node]
}

// ScopeOwnedBy returns the scope node opens, if any.
func (s *Semantic) ScopeOwnedBy(node ast.NodeID) ScopeID {
	return s.ownedScope[node]
}

func (s *Semantic) SymbolFlags(sym SymbolID) SymbolFlags {
	if v := s.Symbol(sym); v != nil {
		return v.Flags
	}
	return 0
}

func (s *Semantic) SymbolName(sym SymbolID) string {
	if v := s.Symbol(sym); v != nil {
		return s.Name(v.Name)
	}
	return ""
}

// ReferencesOf returns the live references resolved to sym.
func (s *Semantic) ReferencesOf(sym SymbolID) []ReferenceID {
	if v := s.Symbol(sym); v != nil {
		return v.References
	}
	return nil
}

func (s *Semantic) DeclarationOf(sym SymbolID) ast.NodeID {
	if v := s.Symbol(sym); v != nil {
		return v.Decl
	}
	return ast.NoNodeID
}

func (s *Semantic) Ancestors(node ast.NodeID) iter.Seq[ast.NodeID] {
	return s.tree.Ancestors(node)
}

func (s *Semantic) Parent(node ast.NodeID) ast.NodeID {
	return s.tree.Parent(node)
}

// SymbolOf returns the symbol declared by a binding identifier.
func (s *Semantic) SymbolOf(binding ast.NodeID) SymbolID {
	return s.nodeSymbol[binding]
}

// ReferenceOf returns the reference registered for an identifier use.
func (s *Semantic) ReferenceOf(ident ast.NodeID) ReferenceID {
	return s.nodeRef[ident]
}

// UnresolvedName groups unresolved references by name.
type UnresolvedName struct {
	Name string
	Refs []ReferenceID
}

// Unresolved lists the root unresolved-reference table sorted by name.
func (s *Semantic) Unresolved() []UnresolvedName {
	out := make([]UnresolvedName, 0, len(s.unresolved))
	for name, refs := range s.unresolved {
		if len(refs) == 0 {
			continue
		}
		out = append(out, UnresolvedName{Name: s.Name(name), Refs: slices.Clone(refs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UnresolvedRefs returns the unresolved references to name.
func (s *Semantic) UnresolvedRefs(name string) []ReferenceID {
	id, ok := s.tree.Strings.Find(name)
	if !ok {
		return nil
	}
	return s.unresolved[id]
}

// Lookup resolves name as a value use starting at scope.
func (s *Semantic) Lookup(scope ScopeID, name string) SymbolID {
	return s.LookupAs(scope, name, RefRead)
}

// LookupAs resolves name for a use with the given flags.
func (s *Semantic) LookupAs(scope ScopeID, name string, flags RefFlags) SymbolID {
	id, ok := s.tree.Strings.Find(name)
	if !ok {
		return NoSymbolID
	}
	return s.lookup(scope, id, flags)
}

func (s *Semantic) lookup(scope ScopeID, name source.StringID, flags RefFlags) SymbolID {
	for sc := scope; sc.IsValid(); sc = s.scopes[sc].Parent {
		if sym, ok := s.scopes[sc].Bindings[name]; ok && s.referenceable(sym, flags) {
			return sym
		}
	}
	return NoSymbolID
}

// referenceable skips type-only symbols for value uses and value-only
// symbols for type uses.
func (s *Semantic) referenceable(sym SymbolID, flags RefFlags) bool {
	f := s.symbols[sym].Flags
	if flags.IsType() {
		return !f.Any(SymValueOnly)
	}
	return !f.Any(SymTypeOnly)
}

// VarScope returns the nearest function or program scope at or above scope.
func (s *Semantic) VarScope(scope ScopeID) ScopeID {
	for sc := scope; sc.IsValid(); sc = s.scopes[sc].Parent {
		if s.scopes[sc].Flags&ScopeVar != 0 {
			return sc
		}
	}
	return s.root
}

func (s *Semantic) IsStrict(scope ScopeID) bool {
	sc := s.Scope(scope)
	return sc != nil && sc.Flags&ScopeStrictMode != 0
}

// IsAncestorScope reports whether anc is scope or one of its ancestors.
func (s *Semantic) IsAncestorScope(anc, scope ScopeID) bool {
	for sc := scope; sc.IsValid(); sc = s.scopes[sc].Parent {
		if sc == anc {
			return true
		}
	}
	return false
}

// ScopeChain yields scope and its ancestors, innermost first.
func (s *Semantic) ScopeChain(scope ScopeID) iter.Seq[ScopeID] {
	return func(yield func(ScopeID) bool) {
		for sc := scope; sc.IsValid(); sc = s.scopes[sc].Parent {
			if !yield(sc) {
				return
			}
		}
	}
}

// Stats counts nodes, scopes, symbols and live references.
func (s *Semantic) Stats() Stats {
	live := 0
	for i := 1; i < len(s.refs); i++ {
		if !s.refs[i].deleted {
			live++
		}
	}
	return Stats{
		Nodes:      s.tree.Len(),
		Scopes:     len(s.scopes) - 1,
		Symbols:    len(s.symbols) - 1,
		References: live,
	}
}

// Claim marks the model as owned by a running traversal. It returns false
// if another traversal already holds it. A model is not safe for
// concurrent use, so this guards only against nested runs.
func (s *Semantic) Claim() bool {
	if s.claimed {
		return false
	}
	s.claimed = true
	return true
}

func (s *Semantic) Release() { s.claimed = false }

func (s *Semantic) newScope(parent ScopeID, flags ScopeFlags, owner ast.NodeID) ScopeID {
	value, err := safecast.Conv[uint32](len(s.scopes))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	if parent.IsValid() && s.scopes[parent].Flags&ScopeStrictMode != 0 {
		flags |= ScopeStrictMode
	}
	s.scopes = append(s.scopes, Scope{
		ID:       id,
		Parent:   parent,
		Flags:    flags,
		Node:     owner,
		Bindings: make(map[source.StringID]SymbolID),
	})
	if parent.IsValid() {
		s.scopes[parent].Children = append(s.scopes[parent].Children, id)
	}
	if owner.IsValid() {
		s.ownedScope[owner] = id
	}
	return id
}

func (s *Semantic) newSymbol(scope ScopeID, name source.StringID, decl ast.NodeID, span source.Span, flags SymbolFlags) SymbolID {
	value, err := safecast.Conv[uint32](len(s.symbols))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	id := SymbolID(value)
	s.symbols = append(s.symbols, Symbol{
		ID:    id,
		Name:  name,
		Decl:  decl,
		Scope: scope,
		Span:  span,
		Flags: flags,
	})
	sc := &s.scopes[scope]
	sc.Bindings[name] = id
	sc.Symbols = append(sc.Symbols, id)
	s.names[name] = struct{}{}
	if decl.IsValid() {
		s.nodeSymbol[decl] = id
	}
	return id
}

func (s *Semantic) newReference(node ast.NodeID, name source.StringID, scope ScopeID, flags RefFlags) ReferenceID {
	value, err := safecast.Conv[uint32](len(s.refs))
	if err != nil {
		panic(fmt.Errorf("references arena overflow: %w", err))
	}
	id := ReferenceID(value)
	s.refs = append(s.refs, Reference{
		ID:    id,
		Node:  node,
		Name:  name,
		Scope: scope,
		Flags: flags,
	})
	if node.IsValid() {
		s.nodeRef[node] = id
	}
	return id
}

// bind links ref to sym, or records it as unresolved when sym is invalid.
func (s *Semantic) bind(ref ReferenceID, sym SymbolID) {
	r := &s.refs[ref]
	r.Symbol = sym
	if sym.IsValid() {
		s.symbols[sym].References = append(s.symbols[sym].References, ref)
		return
	}
	s.unresolved[r.Name] = append(s.unresolved[r.Name], ref)
	s.names[r.Name] = struct{}{}
}

func (s *Semantic) setScopeOf(node ast.NodeID, scope ScopeID) {
	if !node.IsValid() {
		return
	}
	if int(node) >= len(s.nodeScope) {
		grown := make([]ScopeID, max(int(node)+1, s.tree.Len()+1, 2*len(s.nodeScope)))
		copy(grown, s.nodeScope)
		s.nodeScope = grown
	}
	s.nodeScope[node] = scope
}
