package semantic

import (
	"fmt"
	"sort"
	"strings"
)

// Snapshot renders the model as deterministic text. Two builds over the same
// tree produce identical snapshots.
func (s *Semantic) Snapshot() string {
	var b strings.Builder
	for idx := 1; idx < len(s.scopes); idx++ {
		sc := &s.scopes[idx]
		fmt.Fprintf(&b, "scope %d %s parent=%d owner=%s\n", sc.ID, sc.Flags, sc.Parent, s.tree.Kind(sc.Node))
		names := make([]string, 0, len(sc.Bindings))
		byName := make(map[string]SymbolID, len(sc.Bindings))
		for name, sym := range sc.Bindings {
			n := s.Name(name)
			names = append(names, n)
			byName[n] = sym
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(&b, "  %s -> %d\n", n, byName[n])
		}
	}
	for idx := 1; idx < len(s.symbols); idx++ {
		sym := &s.symbols[idx]
		fmt.Fprintf(&b, "symbol %d %s %s scope=%d decl=%s@%d refs=%v",
			sym.ID, s.Name(sym.Name), sym.Flags, sym.Scope, s.tree.Kind(sym.Decl), sym.Span.Start, sym.References)
		if len(sym.Redeclarations) > 0 {
			starts := make([]uint32, len(sym.Redeclarations))
			for i, sp := range sym.Redeclarations {
				starts[i] = sp.Start
			}
			fmt.Fprintf(&b, " redecl=%v", starts)
		}
		b.WriteByte('\n')
	}
	for idx := 1; idx < len(s.refs); idx++ {
		r := &s.refs[idx]
		if r.deleted {
			continue
		}
		fmt.Fprintf(&b, "ref %d %s %s scope=%d -> %d\n", r.ID, s.Name(r.Name), r.Flags, r.Scope, r.Symbol)
	}
	for _, u := range s.Unresolved() {
		fmt.Fprintf(&b, "unresolved %s %v\n", u.Name, u.Refs)
	}
	return b.String()
}
