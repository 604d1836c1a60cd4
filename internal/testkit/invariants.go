// Package testkit checks structural invariants of trees and semantic
// models. Tests call it directly; the driver runs it with --verify.
package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"jssema/internal/ast"
	"jssema/internal/semantic"
	"jssema/internal/source"
)

// CheckSpanInvariants runs the span invariants on a parsed tree:
// 1) the program span is non-empty, in sf and within its content
// 2) every node span of sf lies within the content
// 3) a node spanning sf lies within its parent's span when the parent spans sf too
// Nodes built by passes carry no span and are skipped.
func CheckSpanInvariants(t *ast.Tree, sf *source.File) error {
	if t == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if !t.Root.IsValid() {
		return fmt.Errorf("tree has no root")
	}
	root := t.Span(t.Root)

	// 1) program span sanity
	if root.End <= root.Start && len(sf.Content) > 0 {
		return fmt.Errorf("program span is empty: %v", root)
	}
	if root.File != sf.ID {
		return fmt.Errorf("program span points to different file id: got=%d want=%d", root.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var errs []error
	t.Walk(t.Root, func(id ast.NodeID) bool {
		sp := t.Span(id)
		if !spans(sp, sf) {
			return true
		}
		// 2) within content
		if sp.End > lenContent || sp.Start > sp.End {
			errs = append(errs, fmt.Errorf("%s span %v beyond content (%d bytes)", t.Kind(id), sp, lenContent))
			return true
		}
		// 3) within parent
		if p := t.Parent(id); p.IsValid() {
			ps := t.Span(p)
			if spans(ps, sf) && (sp.Start < ps.Start || sp.End > ps.End) {
				errs = append(errs, fmt.Errorf("%s span %v is outside %s span %v", t.Kind(id), sp, t.Kind(p), ps))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

func spans(sp source.Span, sf *source.File) bool {
	return sp.File == sf.ID && sp.End > 0
}

// CheckParents verifies that every child below the root points back at
// the node holding it.
func CheckParents(t *ast.Tree) error {
	var errs []error
	t.Walk(t.Root, func(id ast.NodeID) bool {
		for _, c := range t.Children(id) {
			if got := t.Parent(c); got != id {
				errs = append(errs, fmt.Errorf("%s %d has parent %d, held by %s %d", t.Kind(c), c, got, t.Kind(id), id))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// CheckNoPlaceholders fails if a move-out left a placeholder in the tree.
func CheckNoPlaceholders(t *ast.Tree) error {
	var errs []error
	t.Walk(t.Root, func(id ast.NodeID) bool {
		if t.Kind(id) == ast.KindPlaceholder {
			p, slot, index := t.Position(id)
			errs = append(errs, fmt.Errorf("placeholder %d left in %s %d (slot %s, index %d)", id, t.Kind(p), p, slot, index))
		}
		return true
	})
	return errors.Join(errs...)
}

// CheckModel runs the model's own validation plus the tree checks that
// must hold after any sequence of passes.
func CheckModel(sem *semantic.Semantic) error {
	t := sem.Tree()
	return errors.Join(
		sem.Validate(),
		CheckParents(t),
		CheckNoPlaceholders(t),
		checkResolution(sem),
	)
}

// checkResolution: a resolved reference targets a symbol whose scope is
// an ancestor-or-self of the reference's scope.
func checkResolution(sem *semantic.Semantic) error {
	var errs []error
	refs := sem.References()
	for i := range refs {
		ref := &refs[i]
		if ref.Deleted() || !ref.Resolved() {
			continue
		}
		sym := sem.Symbol(ref.Symbol)
		if sym == nil {
			errs = append(errs, fmt.Errorf("reference %d targets missing symbol %d", ref.ID, ref.Symbol))
			continue
		}
		if !sem.IsAncestorScope(sym.Scope, ref.Scope) {
			errs = append(errs, fmt.Errorf("reference %d to %q resolves outside its scope chain", ref.ID, sem.Name(ref.Name)))
		}
	}
	return errors.Join(errs...)
}
