package frontend

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"jssema/internal/ast"
)

// jsx lowers an element to a node holding its source text. Component tag
// names and {expr} containers become children, in source order, so their
// identifiers take part in scoping; markup and attribute names stay text.
func (l *lowerer) jsx(n *sitter.Node) ast.NodeID {
	var parts []ast.NodeID
	l.jsxParts(n, &parts)
	id := l.node(n, ast.KindJSX, ast.OpNone, nil, parts)
	l.tree.Node(id).Name = l.tree.Strings.Intern(l.text(n))
	return id
}

func (l *lowerer) jsxParts(n *sitter.Node, parts *[]ast.NodeID) {
	switch n.Type() {
	case "jsx_opening_element", "jsx_self_closing_element", "jsx_closing_element":
		name := n.ChildByFieldName("name")
		if id := l.jsxTag(name); id.IsValid() {
			*parts = append(*parts, id)
		}
		for _, c := range named(n) {
			if name == nil || c.StartByte() != name.StartByte() {
				l.jsxParts(c, parts)
			}
		}
	case "jsx_attribute":
		// The first child is the attribute name.
		if list := named(n); len(list) > 1 {
			for _, c := range list[1:] {
				l.jsxParts(c, parts)
			}
		}
	case "jsx_expression":
		e := first(n)
		if e == nil {
			return
		}
		*parts = append(*parts, l.node(n, ast.KindJSXExpression, ast.OpNone, kids(l.expr(e)), nil))
	case "jsx_text", "html_character_reference", "string", "identifier", "property_identifier", "jsx_namespace_name":
	default:
		for _, c := range named(n) {
			l.jsxParts(c, parts)
		}
	}
}

// jsxTag returns the reference a tag name makes: the name itself for a
// component, the leftmost object of a member tag, nothing for intrinsic
// elements, namespaced names and fragments.
func (l *lowerer) jsxTag(name *sitter.Node) ast.NodeID {
	if name == nil {
		return ast.NoNodeID
	}
	if name.Type() != "member_expression" {
		if name.Type() != "identifier" || intrinsicTag(l.text(name)) {
			return ast.NoNodeID
		}
		return l.leaf(name, ast.KindIdent, ast.OpNone, l.text(name))
	}
	obj := name
	for obj != nil && obj.Type() == "member_expression" {
		next := obj.ChildByFieldName("object")
		if next == nil {
			next = first(obj)
		}
		obj = next
	}
	if obj == nil || obj.Type() != "identifier" {
		return ast.NoNodeID
	}
	return l.leaf(obj, ast.KindIdent, ast.OpNone, l.text(obj))
}

// intrinsicTag reports a lowercase or dashed tag such as div or my-widget.
func intrinsicTag(name string) bool {
	if strings.ContainsRune(name, '-') {
		return true
	}
	r, _ := utf8.DecodeRuneInString(name)
	return r == utf8.RuneError || unicode.IsLower(r)
}
