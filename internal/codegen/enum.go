package codegen

import (
	"strconv"

	"jssema/internal/ast"
)

// enum lowers a TypeScript enum to a var holding a plain object. Members
// without an initializer continue counting from the previous numeric value;
// an initializer naming an earlier numeric member is replaced by its value.
func (p *printer) enum(id ast.NodeID) {
	n := p.t.Node(id)
	p.w.write("var ")
	p.w.write(p.name(n.Kids[0]))
	p.w.write(" = ")
	if len(n.List) == 0 {
		p.w.write("{};")
		return
	}
	p.w.write("{ ")
	next, known := 0.0, true
	values := make(map[string]float64, len(n.List))
	for i, m := range n.List {
		if i > 0 {
			p.w.write(", ")
		}
		key := p.t.Kid(m, ast.SlotID)
		p.key(key, false)
		p.w.write(": ")
		init := p.t.Kid(m, ast.SlotInit)
		v, isMember := values[p.t.Name(init)]
		isMember = isMember && p.t.Kind(init) == ast.KindIdent
		switch {
		case isMember:
			p.w.write(strconv.FormatFloat(v, 'g', -1, 64))
			next, known = v+1, true
		case init.IsValid():
			p.expr(init, levelAssign)
			next, known = numericValue(p.t, init)
			next++
		case known:
			p.w.write(strconv.FormatFloat(next, 'g', -1, 64))
			next++
		default:
			p.w.write("void 0")
		}
		if known {
			values[p.t.Name(key)] = next - 1
		}
	}
	p.w.write(" };")
}

func numericValue(t *ast.Tree, id ast.NodeID) (float64, bool) {
	n := t.Node(id)
	switch {
	case n.Kind == ast.KindLiteral && n.Op == ast.OpNumber:
		v, err := strconv.ParseFloat(t.Name(id), 64)
		return v, err == nil
	case n.Kind == ast.KindUnary && n.Op == ast.OpNeg:
		v, ok := numericValue(t, n.Kids[0])
		return -v, ok
	}
	return 0, false
}
