package frontend

import (
	sitter "github.com/smacker/go-tree-sitter"

	"jssema/internal/ast"
)

func (l *lowerer) bindName(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	if isBroken(n) {
		return l.broken(n)
	}
	return l.leaf(n, ast.KindBindingIdent, ast.OpNone, l.text(n))
}

// annotate attaches a TS type annotation to a binding identifier; patterns
// drop theirs.
func (l *lowerer) annotate(id ast.NodeID, typ *sitter.Node) {
	if typ == nil || l.tree.Kind(id) != ast.KindBindingIdent {
		return
	}
	if t := l.typeAnnotation(typ); t.IsValid() {
		l.tree.SetKid(id, ast.SlotTypeAnn, t)
	}
}

// pattern lowers a binding pattern (decl) or an assignment target.
// Identifiers become binding identifiers in the first case and
// references in the second.
func (l *lowerer) pattern(n *sitter.Node, decl bool) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	if isBroken(n) {
		return l.broken(n)
	}
	switch n.Type() {
	case "identifier", "undefined", "shorthand_property_identifier_pattern":
		if decl {
			return l.bindName(n)
		}
		return l.leaf(n, ast.KindIdent, ast.OpNone, l.text(n))
	case "object_pattern", "object":
		return l.objectPattern(n, decl)
	case "array_pattern", "array":
		return l.node(n, ast.KindArrayPattern, ast.OpNone, nil, l.elements(n, func(c *sitter.Node) ast.NodeID {
			return l.pattern(c, decl)
		}))
	case "assignment_pattern", "assignment_expression":
		return l.node(n, ast.KindAssignPattern, ast.OpNone, kids(
			l.pattern(n.ChildByFieldName("left"), decl),
			l.optExpr(n.ChildByFieldName("right")),
		), nil)
	case "rest_pattern", "spread_element":
		return l.node(n, ast.KindRestElement, ast.OpNone, kids(l.pattern(first(n), decl)), nil)
	case "parenthesized_expression":
		if !decl {
			if inner := first(n); inner != nil {
				return l.flag(l.pattern(inner, false), ast.FlagParens)
			}
		}
	case "non_null_expression", "as_expression", "satisfies_expression":
		if !decl {
			return l.pattern(first(n), false)
		}
	}
	if decl {
		return l.opaque(n, n.Type()+" binding")
	}
	return l.expr(n)
}

func (l *lowerer) objectPattern(n *sitter.Node, decl bool) ast.NodeID {
	var props []ast.NodeID
	for _, c := range named(n) {
		switch c.Type() {
		case "pair_pattern", "pair":
			key, computed := l.key(c.ChildByFieldName("key"))
			id := l.node(c, ast.KindProperty, ast.OpInit, kids(key, l.pattern(c.ChildByFieldName("value"), decl)), nil)
			if computed {
				l.flag(id, ast.FlagComputed)
			}
			props = append(props, id)
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			key := l.leaf(c, ast.KindName, ast.OpNone, l.text(c))
			props = append(props, l.flag(
				l.node(c, ast.KindProperty, ast.OpInit, kids(key, l.pattern(c, decl)), nil),
				ast.FlagShorthand))
		case "object_assignment_pattern":
			left := c.ChildByFieldName("left")
			value := l.node(c, ast.KindAssignPattern, ast.OpNone, kids(
				l.pattern(left, decl),
				l.optExpr(c.ChildByFieldName("right")),
			), nil)
			if left == nil || left.Type() != "shorthand_property_identifier_pattern" {
				props = append(props, value)
				continue
			}
			key := l.leaf(left, ast.KindName, ast.OpNone, l.text(left))
			props = append(props, l.flag(
				l.node(c, ast.KindProperty, ast.OpInit, kids(key, value), nil),
				ast.FlagShorthand))
		case "rest_pattern", "spread_element":
			props = append(props, l.node(c, ast.KindRestElement, ast.OpNone, kids(l.pattern(first(c), decl)), nil))
		default:
			props = append(props, l.pattern(c, decl))
		}
	}
	return l.node(n, ast.KindObjectPattern, ast.OpNone, nil, props)
}

// params lowers formal parameters, including TS required and optional
// parameters with annotations and defaults.
func (l *lowerer) params(n *sitter.Node) []ast.NodeID {
	var out []ast.NodeID
	for _, c := range named(n) {
		switch c.Type() {
		case "required_parameter", "optional_parameter":
			p := c.ChildByFieldName("pattern")
			if p == nil || p.Type() == "this" {
				continue
			}
			id := l.pattern(p, true)
			l.annotate(id, c.ChildByFieldName("type"))
			if v := c.ChildByFieldName("value"); v != nil {
				id = l.node(c, ast.KindAssignPattern, ast.OpNone, kids(id, l.expr(v)), nil)
			}
			out = append(out, id)
		default:
			out = append(out, l.pattern(c, true))
		}
	}
	return out
}
