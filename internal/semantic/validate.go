package semantic

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks the model's structural invariants and aggregates every
// violation found. It returns nil when the model is consistent.
func (s *Semantic) Validate() error {
	var errs []error

	roots := 0
	for idx := 1; idx < len(s.scopes); idx++ {
		sc := &s.scopes[idx]
		id := ScopeID(idx)
		if sc.ID != id {
			errs = append(errs, fmt.Errorf("scope %d carries id %d", idx, sc.ID))
		}
		if !sc.Parent.IsValid() {
			roots++
		} else {
			if int(sc.Parent) >= len(s.scopes) || sc.Parent == id {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", id, sc.Parent))
				continue
			}
			if !slices.Contains(s.scopes[sc.Parent].Children, id) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", id, sc.Parent))
			}
		}
		for _, child := range sc.Children {
			if int(child) >= len(s.scopes) || child == id {
				errs = append(errs, fmt.Errorf("scope %d has invalid child %d", id, child))
				continue
			}
			if s.scopes[child].Parent != id {
				errs = append(errs, fmt.Errorf("scope %d child %d missing parent backlink", id, child))
			}
		}
		for name, sym := range sc.Bindings {
			if v := s.Symbol(sym); v == nil || v.Name != name || v.Scope != id {
				errs = append(errs, fmt.Errorf("scope %d binds '%s' to mismatched symbol %d", id, s.Name(name), sym))
			}
		}
	}
	if roots != 1 {
		errs = append(errs, fmt.Errorf("expected exactly one root scope, found %d", roots))
	}

	for idx := 1; idx < len(s.symbols); idx++ {
		sym := &s.symbols[idx]
		id := SymbolID(idx)
		sc := s.Scope(sym.Scope)
		if sc == nil {
			errs = append(errs, fmt.Errorf("symbol %d has invalid scope %d", id, sym.Scope))
			continue
		}
		if _, ok := sc.Bindings[sym.Name]; !ok {
			errs = append(errs, fmt.Errorf("symbol %d '%s' is not a key of scope %d", id, s.Name(sym.Name), sym.Scope))
		}
		if !slices.Contains(sc.Symbols, id) {
			errs = append(errs, fmt.Errorf("symbol %d missing from scope %d symbol list", id, sym.Scope))
		}
		for _, ref := range sym.References {
			r := s.Reference(ref)
			if r == nil || r.deleted || r.Symbol != id {
				errs = append(errs, fmt.Errorf("symbol %d lists reference %d which does not point back", id, ref))
			}
		}
	}

	for idx := 1; idx < len(s.refs); idx++ {
		r := &s.refs[idx]
		id := ReferenceID(idx)
		if r.deleted {
			continue
		}
		if got := s.nodeRef[r.Node]; got != id {
			errs = append(errs, fmt.Errorf("reference %d node %d maps to reference %d", id, r.Node, got))
		}
		if !r.Symbol.IsValid() {
			if !slices.Contains(s.unresolved[r.Name], id) {
				errs = append(errs, fmt.Errorf("unresolved reference %d '%s' missing from the unresolved table", id, s.Name(r.Name)))
			}
			continue
		}
		sym := s.Symbol(r.Symbol)
		if sym == nil {
			errs = append(errs, fmt.Errorf("reference %d targets unknown symbol %d", id, r.Symbol))
			continue
		}
		if !slices.Contains(sym.References, id) {
			errs = append(errs, fmt.Errorf("reference %d missing from symbol %d reverse set", id, r.Symbol))
		}
		if !s.IsAncestorScope(sym.Scope, r.Scope) {
			errs = append(errs, fmt.Errorf("reference %d in scope %d targets symbol %d of non-enclosing scope %d",
				id, r.Scope, r.Symbol, sym.Scope))
		}
	}

	for name, refs := range s.unresolved {
		for _, ref := range refs {
			r := s.Reference(ref)
			if r == nil || r.deleted || r.Symbol.IsValid() || r.Name != name {
				errs = append(errs, fmt.Errorf("unresolved table entry '%s' holds bad reference %d", s.Name(name), ref))
			}
		}
	}

	return errors.Join(errs...)
}
