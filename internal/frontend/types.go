package frontend

import (
	sitter "github.com/smacker/go-tree-sitter"

	"jssema/internal/ast"
)

func (l *lowerer) typeAnnotation(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	if n.Type() == "type_annotation" {
		return l.typ(first(n))
	}
	return l.typ(n)
}

// typ lowers the type forms whose names take part in resolution; the rest
// are kept verbatim and erased on output.
func (l *lowerer) typ(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	if isBroken(n) {
		return l.broken(n)
	}
	switch n.Type() {
	case "type_annotation", "parenthesized_type":
		return l.typ(first(n))
	case "predefined_type":
		return l.leaf(n, ast.KindTSKeyword, ast.OpNone, l.text(n))
	case "type_identifier", "nested_type_identifier":
		return l.node(n, ast.KindTSTypeRef, ast.OpNone, kids(l.typeName(n)), nil)
	case "generic_type":
		var args []ast.NodeID
		for _, a := range named(n.ChildByFieldName("type_arguments")) {
			args = append(args, l.typ(a))
		}
		return l.node(n, ast.KindTSTypeRef, ast.OpNone, kids(l.typeName(n.ChildByFieldName("name"))), args)
	case "union_type":
		var list []ast.NodeID
		l.union(n, &list)
		return l.node(n, ast.KindTSUnion, ast.OpNone, nil, list)
	case "array_type":
		return l.node(n, ast.KindTSArray, ast.OpNone, kids(l.typ(first(n))), nil)
	case "object_type":
		var members []ast.NodeID
		for _, m := range named(n) {
			members = append(members, l.typeMember(m))
		}
		return l.node(n, ast.KindTSTypeLiteral, ast.OpNone, nil, members)
	}
	return l.verbatim(n)
}

func (l *lowerer) union(n *sitter.Node, list *[]ast.NodeID) {
	for _, c := range named(n) {
		if c.Type() == "union_type" {
			l.union(c, list)
			continue
		}
		*list = append(*list, l.typ(c))
	}
}

// typeName lowers A or A.B.C; only the leftmost name is a reference.
func (l *lowerer) typeName(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	switch n.Type() {
	case "nested_type_identifier", "nested_identifier", "member_expression":
		parts := named(n)
		if len(parts) < 2 {
			return l.verbatim(n)
		}
		last := parts[len(parts)-1]
		prop := l.leaf(last, ast.KindName, ast.OpNone, l.text(last))
		return l.node(n, ast.KindMember, ast.OpNone, kids(l.typeName(parts[0]), prop), nil)
	}
	return l.leaf(n, ast.KindIdent, ast.OpNone, l.text(n))
}

func (l *lowerer) typeMember(n *sitter.Node) ast.NodeID {
	if n.Type() == "property_signature" {
		key, computed := l.key(n.ChildByFieldName("name"))
		id := l.node(n, ast.KindTSProperty, ast.OpNone, kids(key, l.typeAnnotation(n.ChildByFieldName("type"))), nil)
		if computed {
			l.flag(id, ast.FlagComputed)
		}
		return id
	}
	return l.typ(n)
}
