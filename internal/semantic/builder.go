package semantic

import (
	"fmt"
	"unicode"

	"jssema/internal/ast"
	"jssema/internal/diag"
	"jssema/internal/source"
)

// Options tune Build.
type Options struct {
	// Module analyses the program as an ES module (strict) even without
	// import or export statements.
	Module bool
	// Capacity presizes the arenas, typically from a previous Stats.
	Capacity Stats
	// Reporter receives semantic warnings; nil drops them.
	Reporter diag.Reporter
}

// Build analyses tree in a single pass and returns its semantic model.
// Parent links are (re)recorded on the way.
func Build(tree *ast.Tree, opts Options) *Semantic {
	if !tree.Root.IsValid() || tree.Kind(tree.Root) != ast.KindProgram {
		ast.Violatef("semantic build needs a Program root, got %s", tree.Kind(tree.Root))
	}
	tree.LinkParents(tree.Root)

	s := newSemantic(tree, opts.Capacity)
	b := newBuilder(s, opts.Reporter)
	b.program(tree.Root, opts.Module)
	b.resolvePending()
	return s
}

// AnalyzeSubtree registers scopes, symbols and references for a freshly
// built subtree that executes in scope. Its references are resolved
// against the existing model.
func (s *Semantic) AnalyzeSubtree(node ast.NodeID, scope ScopeID, rep diag.Reporter) {
	b := newBuilder(s, rep)
	b.scope = scope
	b.visit(node)
	b.resolvePending()
}

type builder struct {
	sem   *Semantic
	tree  *ast.Tree
	rep   diag.Reporter
	scope ScopeID

	pending    []ReferenceID
	exportNext bool
}

func newBuilder(s *Semantic, rep diag.Reporter) *builder {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &builder{sem: s, tree: s.tree, rep: rep}
}

func (b *builder) push(owner ast.NodeID, flags ScopeFlags) (prev ScopeID, saved bool) {
	prev, saved = b.scope, b.exportNext
	b.scope = b.sem.newScope(b.scope, flags, owner)
	b.exportNext = false
	return prev, saved
}

func (b *builder) pop(prev ScopeID, saved bool) {
	b.scope, b.exportNext = prev, saved
}

func (b *builder) program(id ast.NodeID, module bool) {
	list := b.tree.List(id)
	for _, st := range list {
		if b.tree.Kind(st).Is(ast.CapModuleItem) {
			module = true
			break
		}
	}
	flags := ScopeTop | ScopeVar
	if module || hasUseStrict(b.tree, list) {
		flags |= ScopeStrictMode
	}
	b.sem.module = module
	b.sem.root = b.sem.newScope(NoScopeID, flags, id)
	b.scope = b.sem.root
	b.sem.setScopeOf(id, b.scope)
	b.visitList(list)
}

func hasUseStrict(tree *ast.Tree, stmts []ast.NodeID) bool {
	for _, st := range stmts {
		if tree.Kind(st) != ast.KindExprStmt {
			return false
		}
		e := tree.Kid(st, ast.SlotExpr)
		if tree.Kind(e) != ast.KindLiteral || tree.Node(e).Op != ast.OpString {
			return false
		}
		if tree.Name(e) == "use strict" {
			return true
		}
	}
	return false
}

func (b *builder) visitList(list []ast.NodeID) {
	for _, c := range list {
		b.visit(c)
	}
}

func (b *builder) visitChildren(id ast.NodeID) {
	for _, c := range b.tree.Children(id) {
		b.visit(c)
	}
}

func (b *builder) visit(id ast.NodeID) {
	if !id.IsValid() {
		return
	}
	b.sem.setScopeOf(id, b.scope)
	n := b.tree.Node(id)
	switch n.Kind {
	case ast.KindFunctionDecl:
		if name := n.Kids[0]; name.IsValid() {
			b.sem.setScopeOf(name, b.scope)
			b.declare(name, SymFunctionScoped|SymFunction|SymValueOnly)
		}
		b.function(id)
	case ast.KindFunctionExpr, ast.KindArrow:
		b.function(id)
	case ast.KindClassDecl:
		if name := n.Kids[0]; name.IsValid() {
			b.sem.setScopeOf(name, b.scope)
			b.declare(name, SymBlockScoped|SymClass)
		}
		b.class(id)
	case ast.KindClassExpr:
		b.class(id)
	case ast.KindBlock:
		prev, saved := b.push(id, ScopeBlock)
		b.visitList(n.List)
		b.pop(prev, saved)
	case ast.KindFor:
		b.forStmt(id)
	case ast.KindForIn, ast.KindForOf:
		b.forInOf(id)
	case ast.KindCatchClause:
		prev, saved := b.push(id, ScopeCatch)
		if p := n.Kids[0]; p.IsValid() {
			b.declarePattern(p, SymCatchParam|SymValueOnly)
		}
		b.visit(n.Kids[1])
		b.pop(prev, saved)
	case ast.KindSwitch:
		b.visit(n.Kids[0])
		prev, saved := b.push(id, ScopeSwitch|ScopeBlock)
		b.visitList(n.List)
		b.pop(prev, saved)
	case ast.KindVarDecl:
		b.varDecl(id)
	case ast.KindImport:
		b.visit(n.Kids[0])
		for _, spec := range n.List {
			b.sem.setScopeOf(spec, b.scope)
			for _, c := range b.tree.Children(spec) {
				if b.tree.Kind(c) == ast.KindBindingIdent {
					b.sem.setScopeOf(c, b.scope)
					b.declare(c, SymImport)
				} else {
					b.sem.setScopeOf(c, b.scope)
				}
			}
		}
	case ast.KindExportNamed:
		b.exportNext = true
		b.visit(n.Kids[0])
		b.exportNext = false
		b.visit(n.Kids[1])
		reexport := n.Kids[1].IsValid()
		for _, spec := range n.List {
			b.sem.setScopeOf(spec, b.scope)
			local, exported := b.tree.Kid(spec, ast.SlotLocal), b.tree.Kid(spec, ast.SlotExported)
			b.sem.setScopeOf(exported, b.scope)
			if reexport || b.tree.Kind(local) != ast.KindIdent {
				b.sem.setScopeOf(local, b.scope)
				continue
			}
			b.visit(local)
		}
	case ast.KindExportDefault:
		b.exportNext = true
		b.visit(n.Kids[0])
		b.exportNext = false
	case ast.KindTSInterface:
		if name := n.Kids[0]; name.IsValid() {
			b.sem.setScopeOf(name, b.scope)
			b.declare(name, SymBlockScoped|SymTypeOnly|SymInterface)
		}
		b.visitList(n.List)
	case ast.KindTSTypeAlias:
		if name := n.Kids[0]; name.IsValid() {
			b.sem.setScopeOf(name, b.scope)
			b.declare(name, SymBlockScoped|SymTypeOnly)
		}
		b.visit(n.Kids[1])
	case ast.KindTSEnum:
		if name := n.Kids[0]; name.IsValid() {
			b.sem.setScopeOf(name, b.scope)
			b.declare(name, SymBlockScoped|SymEnum)
		}
		b.enumMembers(id)
	case ast.KindTSTypeRef:
		b.typeName(n.Kids[0])
		b.visitList(n.List)
	case ast.KindIdent:
		b.reference(id, RefRead)
	case ast.KindMember:
		b.visit(n.Kids[0])
		b.key(n.Kids[1], n.Has(ast.FlagComputed))
	case ast.KindProperty, ast.KindClassMethod, ast.KindClassProperty, ast.KindTSProperty:
		b.key(n.Kids[0], n.Has(ast.FlagComputed))
		for _, c := range n.Kids[1:] {
			b.visit(c)
		}
	case ast.KindAssign:
		flags := RefWrite
		if n.Op.IsCompoundAssign() {
			flags = RefReadWrite
		}
		b.target(n.Kids[0], flags)
		b.visit(n.Kids[1])
	case ast.KindUpdate:
		b.target(n.Kids[0], RefReadWrite)
	case ast.KindBindingIdent:
		// Declared by its owner; only the annotation is visited here.
		b.visit(n.Kids[0])
	default:
		b.visitChildren(id)
	}
}

// key visits a property key: computed keys are expressions, others are names.
func (b *builder) key(id ast.NodeID, computed bool) {
	if computed {
		b.visit(id)
		return
	}
	b.sem.setScopeOf(id, b.scope)
}

func (b *builder) typeName(id ast.NodeID) {
	if !id.IsValid() {
		return
	}
	b.sem.setScopeOf(id, b.scope)
	switch b.tree.Kind(id) {
	case ast.KindIdent:
		b.reference(id, RefType)
	case ast.KindMember:
		// Namespace.Type: only the leftmost name is a reference.
		b.typeName(b.tree.Kid(id, ast.SlotObject))
		b.sem.setScopeOf(b.tree.Kid(id, ast.SlotProperty), b.scope)
	default:
		b.visit(id)
	}
}

func (b *builder) function(id ast.NodeID) {
	n := b.tree.Node(id)
	flags := ScopeFunction | ScopeVar
	if n.Kind == ast.KindArrow {
		flags |= ScopeArrow
	}
	body := b.tree.Kid(id, ast.SlotBody)
	if b.tree.Kind(body) == ast.KindBlock && hasUseStrict(b.tree, b.tree.List(body)) {
		flags |= ScopeStrictMode
	}
	prev, saved := b.push(id, flags)

	if n.Kind == ast.KindFunctionExpr {
		if name := n.Kids[0]; name.IsValid() {
			b.sem.setScopeOf(name, b.scope)
			b.declare(name, SymFunctionExprName|SymValueOnly)
		}
	}
	for _, p := range n.List {
		b.declarePattern(p, SymParam|SymFunctionScoped|SymValueOnly)
	}
	b.visit(b.tree.Kid(id, ast.SlotReturnType))

	if b.tree.Kind(body) == ast.KindBlock {
		// The body block shares the function scope.
		b.sem.setScopeOf(body, b.scope)
		b.visitList(b.tree.List(body))
	} else {
		b.visit(body)
	}
	b.pop(prev, saved)
}

func (b *builder) class(id ast.NodeID) {
	n := b.tree.Node(id)
	b.visit(n.Kids[1])
	prev, saved := b.push(id, ScopeClass|ScopeStrictMode)
	if n.Kind == ast.KindClassExpr {
		if name := n.Kids[0]; name.IsValid() {
			b.sem.setScopeOf(name, b.scope)
			b.declare(name, SymBlockScoped|SymClass|SymConst)
		}
	}
	b.visitList(n.List)
	b.pop(prev, saved)
}

// enumMembers binds the members of an enum in a scope of their own so
// initializers can name earlier (or later) members.
func (b *builder) enumMembers(id ast.NodeID) {
	members := b.tree.List(id)
	prev, saved := b.push(id, ScopeEnum)
	for _, m := range members {
		b.sem.setScopeOf(m, b.scope)
		key := b.tree.Kid(m, ast.SlotID)
		if !key.IsValid() {
			continue
		}
		b.sem.setScopeOf(key, b.scope)
		if isIdentifierName(b.tree.Name(key)) {
			b.declare(key, SymEnumMember|SymConst|SymValueOnly)
		}
	}
	for _, m := range members {
		b.visit(b.tree.Kid(m, ast.SlotInit))
	}
	b.pop(prev, saved)
}

func isIdentifierName(name string) bool {
	for i, r := range name {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return name != ""
}

func lexicalHead(tree *ast.Tree, head ast.NodeID) bool {
	if tree.Kind(head) != ast.KindVarDecl {
		return false
	}
	op := tree.Node(head).Op
	return op == ast.OpLet || op == ast.OpConst
}

func (b *builder) forStmt(id ast.NodeID) {
	n := b.tree.Node(id)
	if lexicalHead(b.tree, n.Kids[0]) {
		prev, saved := b.push(id, ScopeBlock|ScopeLoop)
		defer b.pop(prev, saved)
	}
	b.visitChildren(id)
}

func (b *builder) forInOf(id ast.NodeID) {
	n := b.tree.Node(id)
	left, right, body := n.Kids[0], n.Kids[1], n.Kids[2]
	// The iterated expression is evaluated outside the head scope.
	b.visit(right)
	if lexicalHead(b.tree, left) {
		prev, saved := b.push(id, ScopeBlock|ScopeLoop)
		defer b.pop(prev, saved)
	}
	if b.tree.Kind(left) == ast.KindVarDecl {
		b.visit(left)
	} else {
		b.target(left, RefWrite)
	}
	b.visit(body)
}

func (b *builder) varDecl(id ast.NodeID) {
	n := b.tree.Node(id)
	var flags SymbolFlags
	switch n.Op {
	case ast.OpLet:
		flags = SymBlockScoped | SymValueOnly
	case ast.OpConst:
		flags = SymBlockScoped | SymConst | SymValueOnly
	default:
		flags = SymFunctionScoped | SymValueOnly
	}
	for _, d := range n.List {
		b.sem.setScopeOf(d, b.scope)
		b.declarePattern(b.tree.Kid(d, ast.SlotID), flags)
		b.visit(b.tree.Kid(d, ast.SlotInit))
	}
}

// declarePattern declares every binding identifier in a binding pattern.
// Defaults and computed keys are visited as expressions.
func (b *builder) declarePattern(id ast.NodeID, flags SymbolFlags) {
	if !id.IsValid() {
		return
	}
	b.sem.setScopeOf(id, b.scope)
	n := b.tree.Node(id)
	switch n.Kind {
	case ast.KindBindingIdent:
		b.declare(id, flags)
		b.visit(n.Kids[0])
	case ast.KindArrayPattern:
		for _, el := range n.List {
			b.declarePattern(el, flags)
		}
	case ast.KindObjectPattern:
		for _, p := range n.List {
			if b.tree.Kind(p) == ast.KindProperty {
				b.sem.setScopeOf(p, b.scope)
				pn := b.tree.Node(p)
				b.key(pn.Kids[0], pn.Has(ast.FlagComputed))
				b.declarePattern(pn.Kids[1], flags)
				continue
			}
			b.declarePattern(p, flags)
		}
	case ast.KindAssignPattern:
		b.declarePattern(n.Kids[0], flags)
		b.visit(n.Kids[1])
	case ast.KindRestElement:
		b.declarePattern(n.Kids[0], flags)
	case ast.KindHole, ast.KindPlaceholder:
	default:
		b.visit(id)
	}
}

// target visits an assignment target, giving identifiers the write flags.
func (b *builder) target(id ast.NodeID, flags RefFlags) {
	if !id.IsValid() {
		return
	}
	b.sem.setScopeOf(id, b.scope)
	n := b.tree.Node(id)
	switch n.Kind {
	case ast.KindIdent:
		b.reference(id, flags)
	case ast.KindArrayPattern, ast.KindArray:
		for _, el := range n.List {
			b.target(el, RefWrite)
		}
	case ast.KindObjectPattern, ast.KindObject:
		for _, p := range n.List {
			if b.tree.Kind(p) == ast.KindProperty {
				b.sem.setScopeOf(p, b.scope)
				pn := b.tree.Node(p)
				b.key(pn.Kids[0], pn.Has(ast.FlagComputed))
				b.target(pn.Kids[1], RefWrite)
				continue
			}
			b.target(p, RefWrite)
		}
	case ast.KindAssignPattern:
		b.target(n.Kids[0], RefWrite)
		b.visit(n.Kids[1])
	case ast.KindRestElement, ast.KindSpread:
		b.target(n.Kids[0], RefWrite)
	default:
		// Member expressions and anything else: the object is only read.
		b.visit(id)
	}
}

func (b *builder) reference(id ast.NodeID, flags RefFlags) {
	name := b.tree.Node(id).Name
	ref := b.sem.newReference(id, name, b.scope, flags)
	b.pending = append(b.pending, ref)
}

// declare binds the name of node following the hoisting and collision rules.
func (b *builder) declare(node ast.NodeID, flags SymbolFlags) SymbolID {
	s := b.sem
	n := b.tree.Node(node)
	name, span := n.Name, n.Span

	target := b.scope
	if flags.Has(SymFunctionScoped) && !flags.Has(SymParam) {
		target = s.VarScope(b.scope)
		for sc := b.scope; sc != target; sc = s.scopes[sc].Parent {
			other, ok := s.scopes[sc].Bindings[name]
			if !ok || s.symbols[other].Flags.Any(SymFunctionScoped|SymCatchParam|SymFunctionExprName) {
				continue
			}
			b.redeclared(node, other)
		}
	}
	if !flags.Has(SymFunctionScoped) {
		if param := b.catchParam(target, name); param.IsValid() {
			b.redeclared(node, param)
		}
	}
	if b.exportNext && target == s.root {
		flags |= SymExport
	}

	existing, ok := s.scopes[target].Bindings[name]
	if !ok {
		return s.newSymbol(target, name, node, span, flags)
	}
	es := &s.symbols[existing]
	switch {
	case es.Flags.Has(SymFunctionExprName):
		return s.newSymbol(target, name, node, span, flags)
	case es.Flags.Has(SymFunctionScoped) && flags.Has(SymFunctionScoped):
		es.Redeclarations = append(es.Redeclarations, es.Span)
		es.Decl, es.Span = node, span
		es.Flags |= flags | SymMultiplyDeclared
		s.nodeSymbol[node] = existing
		return existing
	case es.Flags.Has(SymInterface) && flags.Has(SymInterface),
		es.Flags.Has(SymEnum) && flags.Has(SymEnum):
		// Interfaces merge with interfaces, enums with enums.
		es.Redeclarations = append(es.Redeclarations, span)
		s.nodeSymbol[node] = existing
		return existing
	case es.Flags.Has(SymTypeOnly) != flags.Has(SymTypeOnly):
		// Type and value declarations of one name merge.
		es.Flags = (es.Flags | flags) &^ (SymTypeOnly | SymValueOnly)
		es.Redeclarations = append(es.Redeclarations, span)
		s.nodeSymbol[node] = existing
		return existing
	default:
		b.redeclared(node, existing)
		return s.newSymbol(target, name, node, span, flags)
	}
}

// catchParam returns the catch parameter named name when scope is the
// body block of a catch clause; a lexical declaration there may not reuse it.
func (b *builder) catchParam(scope ScopeID, name source.StringID) SymbolID {
	s := b.sem
	sc := &s.scopes[scope]
	if !sc.Parent.IsValid() || sc.Flags&ScopeBlock == 0 {
		return NoSymbolID
	}
	parent := &s.scopes[sc.Parent]
	if parent.Flags&ScopeCatch == 0 || b.tree.Kid(parent.Node, ast.SlotBody) != sc.Node {
		return NoSymbolID
	}
	if sym, ok := parent.Bindings[name]; ok && s.symbols[sym].Flags.Has(SymCatchParam) {
		return sym
	}
	return NoSymbolID
}

func (b *builder) redeclared(node ast.NodeID, previous SymbolID) {
	prev := &b.sem.symbols[previous]
	name := b.sem.Name(prev.Name)
	diag.ReportWarning(b.rep, diag.SemaRedeclaration, b.tree.Span(node),
		fmt.Sprintf("'%s' has already been declared", name)).
		WithNote(prev.Span, fmt.Sprintf("'%s' was declared here", name)).
		Emit()
}

func (b *builder) resolvePending() {
	s := b.sem
	for _, ref := range b.pending {
		r := &s.refs[ref]
		sym := s.lookup(r.Scope, r.Name, r.Flags)
		s.bind(ref, sym)
		if !sym.IsValid() {
			continue
		}
		b.markExported(r, sym)
		b.checkUseBeforeDeclaration(r, sym)
	}
	b.pending = b.pending[:0]
}

func (b *builder) markExported(r *Reference, sym SymbolID) {
	p := b.tree.Parent(r.Node)
	switch b.tree.Kind(p) {
	case ast.KindExportSpecifier, ast.KindExportDefault:
		b.sem.symbols[sym].Flags |= SymExport
	}
}

func (b *builder) checkUseBeforeDeclaration(r *Reference, sym SymbolID) {
	s := b.sem
	target := &s.symbols[sym]
	if !target.Flags.Has(SymBlockScoped) || target.Flags.Any(SymTypeOnly) || !r.Flags.IsValue() {
		return
	}
	use := b.tree.Span(r.Node)
	if use.File != target.Span.File || use.Start >= target.Span.Start {
		return
	}
	if s.VarScope(r.Scope) != s.VarScope(target.Scope) {
		return
	}
	if b.tree.Kind(b.tree.Parent(r.Node)) == ast.KindExportSpecifier {
		return
	}
	name := s.Name(target.Name)
	diag.ReportWarning(b.rep, diag.SemaUseBeforeDeclaration, use,
		fmt.Sprintf("'%s' is used before its declaration", name)).
		WithNote(target.Span, fmt.Sprintf("'%s' is declared here", name)).
		Emit()
}
