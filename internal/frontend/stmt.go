package frontend

import (
	sitter "github.com/smacker/go-tree-sitter"

	"jssema/internal/ast"
)

func (l *lowerer) program(n *sitter.Node) ast.NodeID {
	id := l.node(n, ast.KindProgram, ast.OpNone, nil, l.statements(named(n), true))
	l.tree.Root = id
	return id
}

// statements lowers a statement list; with prologue set, leading string
// expression statements become directives.
func (l *lowerer) statements(nodes []*sitter.Node, prologue bool) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(nodes))
	for _, c := range nodes {
		id := l.stmt(c)
		if !id.IsValid() {
			continue
		}
		if prologue {
			if c.Type() == "expression_statement" && len(named(c)) == 1 && first(c).Type() == "string" {
				l.flag(id, ast.FlagDirective)
			} else {
				prologue = false
			}
		}
		out = append(out, id)
	}
	return out
}

func (l *lowerer) block(n *sitter.Node) ast.NodeID {
	return l.node(n, ast.KindBlock, ast.OpNone, nil, l.statements(named(n), false))
}

func (l *lowerer) functionBody(n *sitter.Node) ast.NodeID {
	if n.Type() != "statement_block" {
		return l.stmt(n)
	}
	return l.node(n, ast.KindBlock, ast.OpNone, nil, l.statements(named(n), true))
}

// optStmt lowers an optional statement child.
func (l *lowerer) optStmt(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	return l.stmt(n)
}

func (l *lowerer) stmt(n *sitter.Node) ast.NodeID {
	if isBroken(n) {
		return l.broken(n)
	}
	switch n.Type() {
	case "expression_statement":
		e := first(n)
		if e == nil {
			return l.leaf(n, ast.KindEmpty, ast.OpNone, "")
		}
		return l.node(n, ast.KindExprStmt, ast.OpNone, kids(l.expr(e)), nil)
	case "variable_declaration", "lexical_declaration":
		return l.varDecl(n)
	case "function_declaration", "generator_function_declaration", "function_signature":
		return l.function(n, ast.KindFunctionDecl)
	case "class_declaration", "abstract_class_declaration":
		return l.class(n, ast.KindClassDecl)
	case "statement_block":
		return l.block(n)
	case "empty_statement":
		return l.leaf(n, ast.KindEmpty, ast.OpNone, "")
	case "debugger_statement":
		return l.leaf(n, ast.KindDebugger, ast.OpNone, "")
	case "if_statement":
		var alt ast.NodeID
		if e := n.ChildByFieldName("alternative"); e != nil {
			if e.Type() == "else_clause" {
				alt = l.optStmt(first(e))
			} else {
				alt = l.stmt(e)
			}
		}
		return l.node(n, ast.KindIf, ast.OpNone, kids(
			l.condition(n.ChildByFieldName("condition")),
			l.optStmt(n.ChildByFieldName("consequence")),
			alt,
		), nil)
	case "for_statement":
		return l.forStmt(n)
	case "for_in_statement":
		return l.forInStmt(n)
	case "while_statement":
		return l.node(n, ast.KindWhile, ast.OpNone, kids(
			l.condition(n.ChildByFieldName("condition")),
			l.optStmt(n.ChildByFieldName("body")),
		), nil)
	case "do_statement":
		return l.node(n, ast.KindDoWhile, ast.OpNone, kids(
			l.optStmt(n.ChildByFieldName("body")),
			l.condition(n.ChildByFieldName("condition")),
		), nil)
	case "return_statement":
		return l.node(n, ast.KindReturn, ast.OpNone, kids(l.optExpr(first(n))), nil)
	case "throw_statement":
		return l.node(n, ast.KindThrow, ast.OpNone, kids(l.optExpr(first(n))), nil)
	case "break_statement", "continue_statement":
		kind := ast.KindBreak
		if n.Type() == "continue_statement" {
			kind = ast.KindContinue
		}
		var label ast.NodeID
		if lb := n.ChildByFieldName("label"); lb != nil {
			label = l.leaf(lb, ast.KindName, ast.OpNone, l.text(lb))
		}
		return l.node(n, kind, ast.OpNone, kids(label), nil)
	case "labeled_statement":
		lb := n.ChildByFieldName("label")
		label := ast.NoNodeID
		if lb != nil {
			label = l.leaf(lb, ast.KindName, ast.OpNone, l.text(lb))
		}
		return l.node(n, ast.KindLabeled, ast.OpNone, kids(label, l.optStmt(n.ChildByFieldName("body"))), nil)
	case "try_statement":
		return l.tryStmt(n)
	case "switch_statement":
		return l.switchStmt(n)
	case "import_statement":
		return l.importDecl(n)
	case "export_statement":
		return l.exportDecl(n)
	case "interface_declaration":
		return l.interfaceDecl(n)
	case "type_alias_declaration":
		name := n.ChildByFieldName("name")
		return l.node(n, ast.KindTSTypeAlias, ast.OpNone, kids(
			l.bindName(name),
			l.typ(n.ChildByFieldName("value")),
		), nil)
	case "enum_declaration":
		return l.enumDecl(n)
	case "ambient_declaration":
		return l.ambient(n)
	case "import_alias", "module", "internal_module":
		return l.opaque(n, "namespace declaration")
	}
	return l.opaque(n, n.Type())
}

// condition unwraps the parentheses around an if/while test.
func (l *lowerer) condition(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	if n.Type() == "parenthesized_expression" {
		if inner := first(n); inner != nil {
			return l.expr(inner)
		}
	}
	return l.expr(n)
}

func (l *lowerer) varDecl(n *sitter.Node) ast.NodeID {
	op := ast.OpVar
	if k := n.ChildByFieldName("kind"); k != nil {
		if o, ok := ast.VarOp(k.Type()); ok {
			op = o
		}
	}
	var decls []ast.NodeID
	for _, c := range named(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		target := l.pattern(c.ChildByFieldName("name"), true)
		l.annotate(target, c.ChildByFieldName("type"))
		decls = append(decls, l.node(c, ast.KindVarDeclarator, ast.OpNone,
			kids(target, l.optExpr(c.ChildByFieldName("value"))), nil))
	}
	return l.node(n, ast.KindVarDecl, op, nil, decls)
}

// forPart lowers a for-statement head slot, which may be a declaration,
// an expression statement or a bare semicolon.
func (l *lowerer) forPart(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	switch n.Type() {
	case "empty_statement", ";":
		return ast.NoNodeID
	case "variable_declaration", "lexical_declaration":
		return l.varDecl(n)
	case "expression_statement":
		return l.optExpr(first(n))
	}
	return l.expr(n)
}

func (l *lowerer) forStmt(n *sitter.Node) ast.NodeID {
	return l.node(n, ast.KindFor, ast.OpNone, kids(
		l.forPart(n.ChildByFieldName("initializer")),
		l.forPart(n.ChildByFieldName("condition")),
		l.forPart(n.ChildByFieldName("increment")),
		l.optStmt(n.ChildByFieldName("body")),
	), nil)
}

func (l *lowerer) forInStmt(n *sitter.Node) ast.NodeID {
	kind := ast.KindForIn
	if op := n.ChildByFieldName("operator"); op != nil && op.Type() == "of" {
		kind = ast.KindForOf
	}
	left := n.ChildByFieldName("left")
	var head ast.NodeID
	if k := n.ChildByFieldName("kind"); k != nil {
		op, ok := ast.VarOp(k.Type())
		if !ok {
			op = ast.OpVar
		}
		decl := l.node(left, ast.KindVarDeclarator, ast.OpNone, kids(l.pattern(left, true)), nil)
		head = l.node(left, ast.KindVarDecl, op, nil, kids(decl))
		l.tree.Node(head).Span.Start = k.StartByte()
	} else if left != nil {
		head = l.pattern(left, false)
	}
	id := l.node(n, kind, ast.OpNone, kids(
		head,
		l.optExpr(n.ChildByFieldName("right")),
		l.optStmt(n.ChildByFieldName("body")),
	), nil)
	if hasToken(n, "await") {
		l.flag(id, ast.FlagAsync)
	}
	return id
}

func (l *lowerer) tryStmt(n *sitter.Node) ast.NodeID {
	var handler, finalizer ast.NodeID
	if h := n.ChildByFieldName("handler"); h != nil {
		var param ast.NodeID
		if p := h.ChildByFieldName("parameter"); p != nil {
			param = l.pattern(p, true)
		}
		handler = l.node(h, ast.KindCatchClause, ast.OpNone, kids(param, l.optStmt(h.ChildByFieldName("body"))), nil)
	}
	if f := n.ChildByFieldName("finalizer"); f != nil {
		finalizer = l.optStmt(f.ChildByFieldName("body"))
	}
	return l.node(n, ast.KindTry, ast.OpNone, kids(l.optStmt(n.ChildByFieldName("body")), handler, finalizer), nil)
}

func (l *lowerer) switchStmt(n *sitter.Node) ast.NodeID {
	var cases []ast.NodeID
	for _, c := range named(n.ChildByFieldName("body")) {
		body := named(c)
		var test ast.NodeID
		switch c.Type() {
		case "switch_case":
			if len(body) > 0 {
				test = l.expr(body[0])
				body = body[1:]
			}
		case "switch_default":
		default:
			cases = append(cases, l.stmt(c))
			continue
		}
		cases = append(cases, l.node(c, ast.KindSwitchCase, ast.OpNone, kids(test), l.statements(body, false)))
	}
	return l.node(n, ast.KindSwitch, ast.OpNone, kids(l.condition(n.ChildByFieldName("value"))), cases)
}

// moduleName lowers an import/export name, which may be a string.
func (l *lowerer) moduleName(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	name := l.text(n)
	if n.Type() == "string" {
		name = unquote(name)
	}
	return l.leaf(n, ast.KindName, ast.OpNone, name)
}

func (l *lowerer) source(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	return l.leaf(n, ast.KindLiteral, ast.OpString, unquote(l.text(n)))
}

func (l *lowerer) importDecl(n *sitter.Node) ast.NodeID {
	l.module = true
	var specs []ast.NodeID
	if clause := childOfType(n, "import_clause"); clause != nil {
		for _, c := range named(clause) {
			switch c.Type() {
			case "identifier":
				specs = append(specs, l.node(c, ast.KindImportDefaultSpecifier, ast.OpNone, kids(l.bindName(c)), nil))
			case "namespace_import":
				local := first(c)
				if local == nil {
					continue
				}
				specs = append(specs, l.node(c, ast.KindImportNamespaceSpecifier, ast.OpNone, kids(l.bindName(local)), nil))
			case "named_imports":
				for _, s := range named(c) {
					if s.Type() != "import_specifier" {
						continue
					}
					name := s.ChildByFieldName("name")
					local := s.ChildByFieldName("alias")
					if local == nil {
						local = name
					}
					specs = append(specs, l.node(s, ast.KindImportSpecifier, ast.OpNone,
						kids(l.moduleName(name), l.bindName(local)), nil))
				}
			}
		}
	}
	id := l.node(n, ast.KindImport, ast.OpNone, kids(l.source(n.ChildByFieldName("source"))), specs)
	if hasToken(n, "type") || hasToken(n, "typeof") {
		l.flag(id, ast.FlagDeclare)
	}
	return id
}

func (l *lowerer) exportDecl(n *sitter.Node) ast.NodeID {
	l.module = true
	source := n.ChildByFieldName("source")
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		if hasToken(n, "default") {
			return l.node(n, ast.KindExportDefault, ast.OpNone, kids(l.defaultDecl(decl)), nil)
		}
		return l.node(n, ast.KindExportNamed, ast.OpNone, kids(l.stmt(decl)), nil)
	}
	if v := n.ChildByFieldName("value"); v != nil {
		return l.node(n, ast.KindExportDefault, ast.OpNone, kids(l.expr(v)), nil)
	}
	if clause := childOfType(n, "export_clause"); clause != nil {
		var specs []ast.NodeID
		for _, s := range named(clause) {
			if s.Type() != "export_specifier" {
				continue
			}
			name := s.ChildByFieldName("name")
			alias := s.ChildByFieldName("alias")
			if alias == nil {
				alias = name
			}
			var local ast.NodeID
			if source == nil && name != nil && name.Type() == "identifier" {
				local = l.leaf(name, ast.KindIdent, ast.OpNone, l.text(name))
			} else {
				local = l.moduleName(name)
			}
			specs = append(specs, l.node(s, ast.KindExportSpecifier, ast.OpNone, kids(local, l.moduleName(alias)), nil))
		}
		id := l.node(n, ast.KindExportNamed, ast.OpNone, kids(ast.NoNodeID, l.source(source)), specs)
		if hasToken(n, "type") {
			l.flag(id, ast.FlagDeclare)
		}
		return id
	}
	if hasToken(n, "*") && source != nil {
		var exported ast.NodeID
		if ns := childOfType(n, "namespace_export"); ns != nil {
			exported = l.moduleName(first(ns))
		}
		return l.node(n, ast.KindExportAll, ast.OpNone, kids(exported, l.source(source)), nil)
	}
	return l.opaque(n, "export form")
}

// defaultDecl lowers the declaration of `export default`; anonymous
// functions and classes are expressions there.
func (l *lowerer) defaultDecl(n *sitter.Node) ast.NodeID {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		if n.ChildByFieldName("name") == nil {
			return l.function(n, ast.KindFunctionExpr)
		}
	case "class_declaration":
		if n.ChildByFieldName("name") == nil {
			return l.class(n, ast.KindClassExpr)
		}
	}
	if n.Type() == "expression_statement" {
		return l.optExpr(first(n))
	}
	return l.stmt(n)
}

func (l *lowerer) interfaceDecl(n *sitter.Node) ast.NodeID {
	var members []ast.NodeID
	// Heritage types are kept as member type references so their names
	// resolve.
	if ext := childOfType(n, "extends_type_clause"); ext != nil {
		for _, t := range named(ext) {
			members = append(members, l.typ(t))
		}
	}
	for _, m := range named(n.ChildByFieldName("body")) {
		members = append(members, l.typeMember(m))
	}
	return l.node(n, ast.KindTSInterface, ast.OpNone, kids(l.bindName(n.ChildByFieldName("name"))), members)
}

func (l *lowerer) enumDecl(n *sitter.Node) ast.NodeID {
	var members []ast.NodeID
	for _, m := range named(n.ChildByFieldName("body")) {
		var key, init *sitter.Node
		switch m.Type() {
		case "enum_assignment":
			key, init = m.ChildByFieldName("name"), m.ChildByFieldName("value")
		case "property_identifier", "string", "number":
			key = m
		default:
			continue
		}
		if key == nil {
			continue
		}
		members = append(members, l.node(m, ast.KindTSEnumMember, ast.OpNone,
			kids(l.moduleName(key), l.optExpr(init)), nil))
	}
	return l.node(n, ast.KindTSEnum, ast.OpNone, kids(l.bindName(n.ChildByFieldName("name"))), members)
}

// ambient lowers `declare ...`; the result carries FlagDeclare and emits
// no JavaScript.
func (l *lowerer) ambient(n *sitter.Node) ast.NodeID {
	inner := first(n)
	if inner == nil {
		return l.flag(l.verbatim(n), ast.FlagDeclare)
	}
	var id ast.NodeID
	switch inner.Type() {
	case "statement_block", "module", "internal_module", "property_identifier":
		id = l.verbatim(n)
	default:
		id = l.stmt(inner)
		l.tree.Node(id).Span = l.span(n)
	}
	return l.flag(id, ast.FlagDeclare)
}
