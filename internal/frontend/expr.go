package frontend

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"jssema/internal/ast"
)

func (l *lowerer) optExpr(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	return l.expr(n)
}

func (l *lowerer) expr(n *sitter.Node) ast.NodeID {
	if isBroken(n) {
		return l.broken(n)
	}
	switch n.Type() {
	case "identifier", "undefined", "shorthand_property_identifier":
		return l.leaf(n, ast.KindIdent, ast.OpNone, l.text(n))
	case "this":
		return l.leaf(n, ast.KindThis, ast.OpNone, "this")
	case "super":
		return l.leaf(n, ast.KindSuper, ast.OpNone, "super")
	case "number":
		raw := l.text(n)
		op := ast.OpNumber
		if strings.HasSuffix(raw, "n") {
			op = ast.OpBigInt
		}
		return l.leaf(n, ast.KindLiteral, op, raw)
	case "string":
		return l.leaf(n, ast.KindLiteral, ast.OpString, unquote(l.text(n)))
	case "regex":
		return l.leaf(n, ast.KindLiteral, ast.OpRegex, l.text(n))
	case "true", "false":
		return l.leaf(n, ast.KindLiteral, ast.OpBool, n.Type())
	case "null":
		return l.leaf(n, ast.KindLiteral, ast.OpNull, "null")
	case "template_string":
		return l.template(n)
	case "array":
		return l.node(n, ast.KindArray, ast.OpNone, nil, l.elements(n, l.element))
	case "object":
		return l.object(n)
	case "function", "function_expression", "generator_function":
		return l.function(n, ast.KindFunctionExpr)
	case "arrow_function":
		return l.arrow(n)
	case "class":
		return l.class(n, ast.KindClassExpr)
	case "call_expression":
		return l.call(n)
	case "new_expression":
		var args []ast.NodeID
		if a := n.ChildByFieldName("arguments"); a != nil {
			args = l.arguments(a)
		}
		return l.node(n, ast.KindNew, ast.OpNone, kids(l.optExpr(n.ChildByFieldName("constructor"))), args)
	case "member_expression":
		return l.member(n)
	case "subscript_expression":
		id := l.node(n, ast.KindMember, ast.OpNone, kids(
			l.optExpr(n.ChildByFieldName("object")),
			l.optExpr(n.ChildByFieldName("index")),
		), nil)
		l.flag(id, ast.FlagComputed)
		if hasChild(n, "optional_chain") {
			l.flag(id, ast.FlagOptional)
		}
		return id
	case "assignment_expression":
		return l.node(n, ast.KindAssign, ast.OpAssign, kids(
			l.pattern(n.ChildByFieldName("left"), false),
			l.optExpr(n.ChildByFieldName("right")),
		), nil)
	case "augmented_assignment_expression":
		op, ok := ast.AssignOp(l.operator(n))
		if !ok {
			return l.opaque(n, "assignment operator")
		}
		return l.node(n, ast.KindAssign, op, kids(
			l.pattern(n.ChildByFieldName("left"), false),
			l.optExpr(n.ChildByFieldName("right")),
		), nil)
	case "update_expression":
		op, ok := ast.UpdateOp(l.operator(n))
		if !ok {
			return l.opaque(n, "update operator")
		}
		id := l.node(n, ast.KindUpdate, op, kids(l.pattern(n.ChildByFieldName("argument"), false)), nil)
		if c := n.Child(0); c != nil && !c.IsNamed() {
			l.flag(id, ast.FlagPrefix)
		}
		return id
	case "unary_expression":
		op, ok := ast.UnaryOp(l.operator(n))
		if !ok {
			return l.opaque(n, "unary operator")
		}
		return l.node(n, ast.KindUnary, op, kids(l.optExpr(n.ChildByFieldName("argument"))), nil)
	case "binary_expression":
		op, ok := ast.BinaryOp(l.operator(n))
		if !ok {
			return l.opaque(n, "binary operator")
		}
		kind := ast.KindBinary
		if op.IsLogical() {
			kind = ast.KindLogical
		}
		return l.node(n, kind, op, kids(
			l.optExpr(n.ChildByFieldName("left")),
			l.optExpr(n.ChildByFieldName("right")),
		), nil)
	case "ternary_expression":
		return l.node(n, ast.KindConditional, ast.OpNone, kids(
			l.optExpr(n.ChildByFieldName("condition")),
			l.optExpr(n.ChildByFieldName("consequence")),
			l.optExpr(n.ChildByFieldName("alternative")),
		), nil)
	case "sequence_expression":
		var list []ast.NodeID
		l.sequence(n, &list)
		return l.node(n, ast.KindSequence, ast.OpNone, nil, list)
	case "parenthesized_expression":
		inner := first(n)
		if inner == nil {
			return l.broken(n)
		}
		return l.flag(l.expr(inner), ast.FlagParens)
	case "await_expression":
		return l.node(n, ast.KindAwait, ast.OpNone, kids(l.optExpr(first(n))), nil)
	case "yield_expression":
		id := l.node(n, ast.KindYield, ast.OpNone, kids(l.optExpr(first(n))), nil)
		if hasToken(n, "*") {
			l.flag(id, ast.FlagDelegate)
		}
		return id
	case "spread_element":
		return l.node(n, ast.KindSpread, ast.OpNone, kids(l.optExpr(first(n))), nil)
	case "as_expression", "satisfies_expression", "non_null_expression":
		return l.optExpr(first(n))
	case "type_assertion":
		list := named(n)
		if len(list) == 0 {
			return l.broken(n)
		}
		return l.expr(list[len(list)-1])
	case "import", "meta_property":
		return l.verbatim(n)
	case "jsx_element", "jsx_self_closing_element":
		return l.jsx(n)
	}
	return l.opaque(n, n.Type())
}

// operator returns the operator token text of n.
func (l *lowerer) operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}
	return ""
}

func (l *lowerer) sequence(n *sitter.Node, list *[]ast.NodeID) {
	for _, c := range named(n) {
		if c.Type() == "sequence_expression" {
			l.sequence(c, list)
			continue
		}
		*list = append(*list, l.expr(c))
	}
}

func (l *lowerer) element(n *sitter.Node) ast.NodeID { return l.expr(n) }

func (l *lowerer) arguments(n *sitter.Node) []ast.NodeID {
	list := named(n)
	out := make([]ast.NodeID, 0, len(list))
	for _, c := range list {
		out = append(out, l.expr(c))
	}
	return out
}

func (l *lowerer) call(n *sitter.Node) ast.NodeID {
	args := n.ChildByFieldName("arguments")
	if args != nil && args.Type() == "template_string" {
		return l.opaque(n, "tagged template")
	}
	var list []ast.NodeID
	if args != nil {
		list = l.arguments(args)
	}
	id := l.node(n, ast.KindCall, ast.OpNone, kids(l.optExpr(n.ChildByFieldName("function"))), list)
	if hasChild(n, "optional_chain") {
		l.flag(id, ast.FlagOptional)
	}
	return id
}

func (l *lowerer) member(n *sitter.Node) ast.NodeID {
	var prop ast.NodeID
	if p := n.ChildByFieldName("property"); p != nil {
		prop = l.leaf(p, ast.KindName, ast.OpNone, l.text(p))
	}
	id := l.node(n, ast.KindMember, ast.OpNone, kids(l.optExpr(n.ChildByFieldName("object")), prop), nil)
	if hasChild(n, "optional_chain") {
		l.flag(id, ast.FlagOptional)
	}
	return id
}

// template keeps the raw text between substitutions as chunks.
func (l *lowerer) template(n *sitter.Node) ast.NodeID {
	var quasis []ast.NodeID
	start := n.StartByte() + 1
	chunk := func(end uint32) {
		if end <= start || int(end) > len(l.src) {
			return
		}
		sp := l.span(n)
		sp.Start, sp.End = start, end
		id := l.tree.NewNamed(ast.KindLiteral, sp, string(l.src[start:end]))
		l.tree.Node(id).Op = ast.OpTemplateChunk
		quasis = append(quasis, id)
	}
	for _, c := range named(n) {
		if c.Type() != "template_substitution" {
			continue
		}
		chunk(c.StartByte())
		if e := first(c); e != nil {
			quasis = append(quasis, l.expr(e))
		}
		start = c.EndByte()
	}
	if n.EndByte() > 0 {
		chunk(n.EndByte() - 1)
	}
	return l.node(n, ast.KindTemplate, ast.OpNone, nil, quasis)
}

func (l *lowerer) object(n *sitter.Node) ast.NodeID {
	var props []ast.NodeID
	for _, c := range named(n) {
		switch c.Type() {
		case "pair":
			key, computed := l.key(c.ChildByFieldName("key"))
			id := l.node(c, ast.KindProperty, ast.OpInit, kids(key, l.optExpr(c.ChildByFieldName("value"))), nil)
			if computed {
				l.flag(id, ast.FlagComputed)
			}
			props = append(props, id)
		case "shorthand_property_identifier":
			key := l.leaf(c, ast.KindName, ast.OpNone, l.text(c))
			value := l.leaf(c, ast.KindIdent, ast.OpNone, l.text(c))
			props = append(props, l.flag(l.node(c, ast.KindProperty, ast.OpInit, kids(key, value), nil), ast.FlagShorthand))
		case "method_definition":
			key, computed, op, fn := l.methodParts(c)
			id := l.node(c, ast.KindProperty, op, kids(key, fn), nil)
			if computed {
				l.flag(id, ast.FlagComputed)
			}
			props = append(props, id)
		default:
			props = append(props, l.expr(c))
		}
	}
	return l.node(n, ast.KindObject, ast.OpNone, nil, props)
}

// key lowers a property key and reports whether it is computed.
func (l *lowerer) key(n *sitter.Node) (ast.NodeID, bool) {
	if n == nil {
		return ast.NoNodeID, false
	}
	switch n.Type() {
	case "computed_property_name":
		return l.optExpr(first(n)), true
	case "string":
		return l.leaf(n, ast.KindLiteral, ast.OpString, unquote(l.text(n))), false
	case "number":
		return l.leaf(n, ast.KindLiteral, ast.OpNumber, l.text(n)), false
	}
	return l.leaf(n, ast.KindName, ast.OpNone, l.text(n)), false
}

// methodParts lowers the key and function of a method definition.
func (l *lowerer) methodParts(n *sitter.Node) (key ast.NodeID, computed bool, op ast.Op, fn ast.NodeID) {
	key, computed = l.key(n.ChildByFieldName("name"))
	op = ast.OpMethod
	switch {
	case hasToken(n, "get"):
		op = ast.OpGet
	case hasToken(n, "set"):
		op = ast.OpSet
	case !computed && l.tree.Name(key) == "constructor":
		op = ast.OpConstructor
	}
	fn = l.function(n, ast.KindFunctionExpr)
	return key, computed, op, fn
}

// function lowers any function form; name is only read for declarations
// and function expressions.
func (l *lowerer) function(n *sitter.Node, kind ast.Kind) ast.NodeID {
	var name ast.NodeID
	if n.Type() != "method_definition" {
		if nm := n.ChildByFieldName("name"); nm != nil {
			name = l.bindName(nm)
		}
	}
	params := l.params(n.ChildByFieldName("parameters"))
	var body ast.NodeID
	if b := n.ChildByFieldName("body"); b != nil {
		body = l.functionBody(b)
	}
	ret := l.typeAnnotation(n.ChildByFieldName("return_type"))
	id := l.node(n, kind, ast.OpNone, kids(name, body, ret), params)
	if hasToken(n, "async") {
		l.flag(id, ast.FlagAsync)
	}
	if hasToken(n, "*") || strings.HasPrefix(n.Type(), "generator_") {
		l.flag(id, ast.FlagGenerator)
	}
	return id
}

func (l *lowerer) arrow(n *sitter.Node) ast.NodeID {
	var params []ast.NodeID
	if p := n.ChildByFieldName("parameter"); p != nil {
		params = []ast.NodeID{l.pattern(p, true)}
	} else {
		params = l.params(n.ChildByFieldName("parameters"))
	}
	var body ast.NodeID
	exprBody := false
	if b := n.ChildByFieldName("body"); b != nil {
		if b.Type() == "statement_block" {
			body = l.functionBody(b)
		} else {
			body = l.expr(b)
			exprBody = true
		}
	}
	id := l.node(n, ast.KindArrow, ast.OpNone, kids(body, l.typeAnnotation(n.ChildByFieldName("return_type"))), params)
	if exprBody {
		l.flag(id, ast.FlagExprBody)
	}
	if hasToken(n, "async") {
		l.flag(id, ast.FlagAsync)
	}
	return id
}

func (l *lowerer) class(n *sitter.Node, kind ast.Kind) ast.NodeID {
	var name ast.NodeID
	if nm := n.ChildByFieldName("name"); nm != nil {
		name = l.bindName(nm)
	}
	var super ast.NodeID
	if h := childOfType(n, "class_heritage"); h != nil {
		if ext := childOfType(h, "extends_clause"); ext != nil {
			if v := ext.ChildByFieldName("value"); v != nil {
				super = l.expr(v)
			} else {
				super = l.optExpr(first(ext))
			}
		} else if e := first(h); e != nil && e.Type() != "implements_clause" {
			super = l.expr(e)
		}
	}
	var members []ast.NodeID
	for _, m := range named(n.ChildByFieldName("body")) {
		members = append(members, l.classMember(m))
	}
	return l.node(n, kind, ast.OpNone, kids(name, super), members)
}

func (l *lowerer) classMember(n *sitter.Node) ast.NodeID {
	switch n.Type() {
	case "method_definition":
		key, computed, op, fn := l.methodParts(n)
		id := l.node(n, ast.KindClassMethod, op, kids(key, fn), nil)
		if computed {
			l.flag(id, ast.FlagComputed)
		}
		if hasToken(n, "static") {
			l.flag(id, ast.FlagStatic)
		}
		return id
	case "field_definition", "public_field_definition":
		keyNode := n.ChildByFieldName("property")
		if keyNode == nil {
			keyNode = n.ChildByFieldName("name")
		}
		key, computed := l.key(keyNode)
		id := l.node(n, ast.KindClassProperty, ast.OpNone, kids(
			key,
			l.optExpr(n.ChildByFieldName("value")),
			l.typeAnnotation(n.ChildByFieldName("type")),
		), nil)
		if computed {
			l.flag(id, ast.FlagComputed)
		}
		if hasToken(n, "static") {
			l.flag(id, ast.FlagStatic)
		}
		if hasToken(n, "declare") || hasToken(n, "abstract") {
			l.flag(id, ast.FlagDeclare)
		}
		return id
	case "method_signature", "abstract_method_signature", "index_signature":
		return l.flag(l.verbatim(n), ast.FlagDeclare)
	case "class_static_block":
		return l.opaque(n, "static block")
	}
	return l.opaque(n, n.Type())
}
