package lint

import (
	"fmt"
	"slices"
	"strings"

	"jssema/internal/ast"
	"jssema/internal/diag"
	"jssema/internal/semantic"
	"jssema/internal/source"
	"jssema/internal/traverse"
)

type noUndef struct{}

func (noUndef) Name() string { return "no-undef" }
func (noUndef) Code() diag.Code { return diag.LintNoUndef }

func (noUndef) Check(c *Context) {
	for _, un := range c.Sem.Unresolved() {
		if c.IsGlobal(un.Name) {
			continue
		}
		for _, id := range un.Refs {
			ref := c.Sem.Reference(id)
			if ref.Flags.IsType() || underTypeof(c.Tree, ref.Node) {
				continue
			}
			c.Report(c.Tree.Span(ref.Node), fmt.Sprintf("'%s' is not defined", un.Name)).Emit()
		}
	}
}

func underTypeof(t *ast.Tree, id ast.NodeID) bool {
	p := t.Parent(id)
	return t.Kind(p) == ast.KindUnary && t.Node(p).Op == ast.OpTypeof
}

type preferConst struct{}

func (preferConst) Name() string { return "prefer-const" }
func (preferConst) Code() diag.Code { return diag.LintPreferConst }

func (preferConst) Check(c *Context) {
	for _, sym := range c.Sem.Symbols() {
		if sym.Flags.Any(semantic.SymConst|semantic.SymGenerated) || !sym.Flags.Has(semantic.SymBlockScoped) {
			continue
		}
		decl := declaration(c.Tree, sym.Decl)
		if !decl.IsValid() || c.Tree.Node(decl).Op != ast.OpLet {
			continue
		}
		if !initialized(c.Tree, sym.Decl) || written(c.Sem, &sym) {
			continue
		}
		name := c.Sem.Name(sym.Name)
		b := c.Report(sym.Span, fmt.Sprintf("'%s' is never reassigned. Use 'const' instead", name))
		if sp := c.Tree.Span(decl); len(c.Tree.List(decl)) == 1 && sp.End >= sp.Start+3 {
			b = b.WithFix("use const", diag.FixEdit{
				Span:    source.Span{File: sp.File, Start: sp.Start, End: sp.Start + 3},
				NewText: "const",
				OldText: "let",
			})
		}
		b.Emit()
	}
}

// declaration climbs from a binding identifier to its VarDecl, if any.
func declaration(t *ast.Tree, binding ast.NodeID) ast.NodeID {
	for p := t.Parent(binding); p.IsValid(); p = t.Parent(p) {
		switch t.Kind(p) {
		case ast.KindVarDecl:
			return p
		case ast.KindVarDeclarator, ast.KindArrayPattern, ast.KindObjectPattern, ast.KindProperty,
			ast.KindAssignPattern, ast.KindRestElement:
			continue
		}
		return ast.NoNodeID
	}
	return ast.NoNodeID
}

// initialized reports whether the binding gets a value at its declaration.
func initialized(t *ast.Tree, binding ast.NodeID) bool {
	for p := t.Parent(binding); p.IsValid(); p = t.Parent(p) {
		if t.Kind(p) != ast.KindVarDeclarator {
			continue
		}
		if t.Kid(p, ast.SlotInit).IsValid() {
			return true
		}
		decl := t.Parent(p)
		loop := t.Parent(decl)
		switch t.Kind(loop) {
		case ast.KindForIn, ast.KindForOf:
			return t.Kid(loop, ast.SlotLeft) == decl
		}
		return false
	}
	return false
}

func written(sem *semantic.Semantic, sym *semantic.Symbol) bool {
	for _, id := range sym.References {
		if sem.Reference(id).Flags.IsWrite() {
			return true
		}
	}
	return false
}

type noShadow struct{}

func (noShadow) Name() string { return "no-shadow" }
func (noShadow) Code() diag.Code { return diag.LintNoShadow }

func (noShadow) Check(c *Context) {
	for _, sym := range c.Sem.Symbols() {
		if sym.Flags.Any(semantic.SymGenerated|semantic.SymFunctionExprName|semantic.SymEnumMember) || sym.Scope == c.Sem.Root() {
			continue
		}
		scope := c.Sem.Scope(sym.Scope)
		if scope.Bindings[sym.Name] != sym.ID {
			continue // replaced by a redeclaration
		}
		name := c.Sem.Name(sym.Name)
		flags := semantic.RefRead
		if sym.Flags.Has(semantic.SymTypeOnly) {
			flags = semantic.RefType
		}
		outer := c.Sem.LookupAs(scope.Parent, name, flags)
		if !outer.IsValid() {
			continue
		}
		o := c.Sem.Symbol(outer)
		if o.Flags.Has(semantic.SymFunctionExprName) {
			continue
		}
		c.Report(sym.Span, fmt.Sprintf("'%s' is already declared in the upper scope", name)).
			WithNote(o.Span, fmt.Sprintf("'%s' is declared here", name)).
			Emit()
	}
}

type noRedeclare struct{}

func (noRedeclare) Name() string { return "no-redeclare" }
func (noRedeclare) Code() diag.Code { return diag.LintNoRedeclare }

func (noRedeclare) Check(c *Context) {
	for _, sym := range c.Sem.Symbols() {
		if !sym.Flags.Has(semantic.SymMultiplyDeclared) || len(sym.Redeclarations) == 0 {
			continue
		}
		name := c.Sem.Name(sym.Name)
		// Redeclarations holds the earlier sites; Span is the last one.
		sites := append(slices.Clone(sym.Redeclarations[1:]), sym.Span)
		for _, sp := range sites {
			c.Report(sp, fmt.Sprintf("'%s' is already defined", name)).
				WithNote(sym.Redeclarations[0], fmt.Sprintf("'%s' is first defined here", name)).
				Emit()
		}
	}
}

type noUnusedVars struct{}

func (noUnusedVars) Name() string { return "no-unused-vars" }
func (noUnusedVars) Code() diag.Code { return diag.LintNoUnusedVars }

func (noUnusedVars) Check(c *Context) {
	const skip = semantic.SymGenerated | semantic.SymExport | semantic.SymParam |
		semantic.SymCatchParam | semantic.SymFunctionExprName | semantic.SymEnumMember
	for _, sym := range c.Sem.Symbols() {
		name := c.Sem.Name(sym.Name)
		if sym.Flags.Any(skip) || strings.HasPrefix(name, "_") {
			continue
		}
		if scope := c.Sem.Scope(sym.Scope); scope.Bindings[sym.Name] != sym.ID {
			continue
		}
		used, assigned := false, false
		for _, id := range sym.References {
			f := c.Sem.Reference(id).Flags
			if f.IsType() || (f.IsRead() && !f.IsWrite()) {
				used = true
				break
			}
			assigned = true
		}
		if used {
			continue
		}
		msg := fmt.Sprintf("'%s' is defined but never used", name)
		if assigned || initialized(c.Tree, sym.Decl) {
			msg = fmt.Sprintf("'%s' is assigned a value but never used", name)
		}
		c.Report(sym.Span, msg).Emit()
	}
}

// noLoopFunc flags functions created inside a loop that close over
// variables the loop keeps modifying.
type noLoopFunc struct{}

func (*noLoopFunc) Name() string { return "no-loop-func" }
func (*noLoopFunc) Code() diag.Code { return diag.LintNoLoopFunc }
func (*noLoopFunc) Check(*Context) {}

func (*noLoopFunc) Register(c *Context, h *traverse.Hooks) {
	check := func(ctx *traverse.Ctx, fn ast.NodeID) {
		loop := enclosingLoop(ctx)
		if !loop.IsValid() {
			return
		}
		if unsafe := unsafeRefs(c, fn, loop); len(unsafe) > 0 {
			c.Report(c.Tree.Span(fn), fmt.Sprintf(
				"Function declared in a loop contains unsafe references to variable(s) %s",
				quoteList(unsafe))).Emit()
		}
	}
	h.OnEnter(ast.KindFunctionExpr, check).
		OnEnter(ast.KindArrow, check).
		OnEnter(ast.KindFunctionDecl, check)
}

// enclosingLoop returns the loop whose repeated part holds the current
// node, without crossing a function boundary.
func enclosingLoop(ctx *traverse.Ctx) ast.NodeID {
	child := ctx.Current()
	for f := range ctx.Ancestors() {
		if f.Kind.IsFunction() {
			return ast.NoNodeID
		}
		if f.Kind.IsLoop() {
			switch child.Slot {
			case ast.SlotBody, ast.SlotTest, ast.SlotUpdate:
				return f.Node
			}
		}
		child = f
	}
	return ast.NoNodeID
}

func unsafeRefs(c *Context, fn, loop ast.NodeID) []string {
	fnScope := c.Sem.ScopeOwnedBy(fn)
	loopScope := c.Sem.ScopeOf(loop)
	seen := make(map[semantic.SymbolID]bool)
	var names []string
	c.Tree.Walk(fn, func(id ast.NodeID) bool {
		ref := c.Sem.Reference(c.Sem.ReferenceOf(id))
		if ref == nil || !ref.Resolved() || seen[ref.Symbol] {
			return true
		}
		seen[ref.Symbol] = true
		sym := c.Sem.Symbol(ref.Symbol)
		if c.Sem.IsAncestorScope(fnScope, sym.Scope) || !written(c.Sem, sym) {
			return true
		}
		outside := c.Sem.IsAncestorScope(sym.Scope, loopScope)
		if sym.Flags.Has(semantic.SymFunctionScoped) || outside {
			names = append(names, c.Sem.Name(sym.Name))
		}
		return true
	})
	slices.Sort(names)
	return names
}

func quoteList(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = "'" + n + "'"
	}
	return strings.Join(q, ", ")
}
