package codegen

import (
	"jssema/internal/ast"
)

func (p *printer) expr(id ast.NodeID, min level) {
	wrap := p.levelOf(id) < min
	if wrap {
		p.w.writeByte('(')
	}
	p.exprInner(id)
	if wrap {
		p.w.writeByte(')')
	}
}

func (p *printer) exprInner(id ast.NodeID) {
	n := p.t.Node(id)
	switch n.Kind {
	case ast.KindIdent, ast.KindName:
		p.w.write(p.name(id))
	case ast.KindThis:
		p.w.write("this")
	case ast.KindSuper:
		p.w.write("super")
	case ast.KindLiteral:
		p.literal(id)
	case ast.KindTemplate:
		p.template(id)
	case ast.KindArray:
		p.elements(n.List, '[', ']')
	case ast.KindObject:
		p.object(id)
	case ast.KindFunctionExpr:
		p.function(id)
	case ast.KindArrow:
		p.arrow(id)
	case ast.KindClassExpr:
		p.class(id)
	case ast.KindCall, ast.KindNew:
		if n.Kind == ast.KindNew {
			p.w.write("new ")
			p.expr(n.Kids[0], levelMember)
		} else {
			p.expr(n.Kids[0], levelCall)
			if n.Has(ast.FlagOptional) {
				p.w.write("?.")
			}
		}
		p.args(n.List)
	case ast.KindMember:
		p.member(id)
	case ast.KindAssign:
		p.exprOrPattern(n.Kids[0])
		p.w.writeByte(' ')
		p.w.write(n.Op.String())
		p.w.writeByte(' ')
		p.expr(n.Kids[1], levelAssign)
	case ast.KindUpdate:
		if n.Has(ast.FlagPrefix) {
			p.w.write(n.Op.String())
			p.expr(n.Kids[0], levelPostfix)
		} else {
			p.expr(n.Kids[0], levelPostfix)
			p.w.write(n.Op.String())
		}
	case ast.KindUnary:
		p.unary(id)
	case ast.KindBinary, ast.KindLogical:
		p.binary(id)
	case ast.KindConditional:
		p.expr(n.Kids[0], levelNullish)
		p.w.write(" ? ")
		p.expr(n.Kids[1], levelAssign)
		p.w.write(" : ")
		p.expr(n.Kids[2], levelAssign)
	case ast.KindSequence:
		for i, e := range n.List {
			if i > 0 {
				p.w.write(", ")
			}
			p.expr(e, levelAssign)
		}
	case ast.KindSpread:
		p.w.write("...")
		p.expr(n.Kids[0], levelAssign)
	case ast.KindAwait:
		p.w.write("await ")
		p.expr(n.Kids[0], levelPrefix)
	case ast.KindYield:
		p.w.write("yield")
		if n.Has(ast.FlagDelegate) {
			p.w.writeByte('*')
		}
		if arg := n.Kids[0]; arg.IsValid() {
			p.w.writeByte(' ')
			p.expr(arg, levelAssign)
		}
	case ast.KindOpaque:
		p.w.write(p.name(id))
	case ast.KindJSX:
		p.jsx(id)
	case ast.KindHole:
	case ast.KindPlaceholder:
		ast.Violatef("placeholder %d left in the tree", id)
	default:
		if n.Kind.Is(ast.CapPattern) {
			p.pattern(id)
			return
		}
		ast.Violatef("cannot print %s %d as an expression", n.Kind, id)
	}
}

func (p *printer) literal(id ast.NodeID) {
	n := p.t.Node(id)
	if n.Op == ast.OpString {
		p.w.write(p.quote(p.name(id)))
		return
	}
	p.w.write(p.name(id))
}

// template prints quasis and expressions, which alternate in the list
// starting and ending with a chunk.
func (p *printer) template(id ast.NodeID) {
	p.w.writeByte('`')
	for _, q := range p.t.List(id) {
		if n := p.t.Node(q); n.Kind == ast.KindLiteral && n.Op == ast.OpTemplateChunk {
			p.w.write(p.name(q))
			continue
		}
		p.w.write("${")
		p.expr(q, levelLowest)
		p.w.writeByte('}')
	}
	p.w.writeByte('`')
}

func (p *printer) elements(list []ast.NodeID, opening, closing byte) {
	p.w.writeByte(opening)
	for i, e := range list {
		if i > 0 {
			p.w.write(", ")
		}
		p.exprOrPattern(e)
	}
	if len(list) > 0 && p.t.Kind(list[len(list)-1]) == ast.KindHole {
		p.w.writeByte(',')
	}
	p.w.writeByte(closing)
}

func (p *printer) args(list []ast.NodeID) {
	p.w.writeByte('(')
	for i, a := range list {
		if i > 0 {
			p.w.write(", ")
		}
		p.expr(a, levelAssign)
	}
	p.w.writeByte(')')
}

func (p *printer) member(id ast.NodeID) {
	n := p.t.Node(id)
	obj := n.Kids[0]
	if p.t.Kind(obj) == ast.KindLiteral && p.t.Node(obj).Op == ast.OpNumber {
		p.w.writeByte('(')
		p.literal(obj)
		p.w.writeByte(')')
	} else {
		p.expr(obj, levelCall)
	}
	if n.Has(ast.FlagComputed) {
		if n.Has(ast.FlagOptional) {
			p.w.write("?.")
		}
		p.w.writeByte('[')
		p.expr(n.Kids[1], levelLowest)
		p.w.writeByte(']')
		return
	}
	if n.Has(ast.FlagOptional) {
		p.w.write("?.")
	} else {
		p.w.writeByte('.')
	}
	p.w.write(p.name(n.Kids[1]))
}

func (p *printer) unary(id ast.NodeID) {
	n := p.t.Node(id)
	op := n.Op.String()
	p.w.write(op)
	arg := n.Kids[0]
	switch n.Op {
	case ast.OpTypeof, ast.OpVoid, ast.OpDelete:
		p.w.writeByte(' ')
	case ast.OpNeg, ast.OpPlus:
		// - -x and + +x must not fuse into -- and ++
		if p.startsWithSign(arg) {
			p.w.writeByte(' ')
		}
	}
	p.expr(arg, levelPrefix)
}

func (p *printer) startsWithSign(id ast.NodeID) bool {
	n := p.t.Node(id)
	switch n.Kind {
	case ast.KindUnary:
		return n.Op == ast.OpNeg || n.Op == ast.OpPlus
	case ast.KindUpdate:
		return n.Has(ast.FlagPrefix)
	case ast.KindLiteral:
		name := p.name(id)
		return name != "" && (name[0] == '-' || name[0] == '+')
	}
	return false
}

func (p *printer) binary(id ast.NodeID) {
	n := p.t.Node(id)
	own := binaryLevels[n.Op]
	left, right := own, own+1
	if n.Op == ast.OpExp {
		left, right = levelPostfix, own
	}
	p.operand(n.Kids[0], left, n.Op)
	if n.Op == ast.OpIn || n.Op == ast.OpInstanceof {
		p.w.writeByte(' ')
		p.w.write(n.Op.String())
		p.w.writeByte(' ')
	} else {
		p.w.write(" " + n.Op.String() + " ")
	}
	p.operand(n.Kids[1], right, n.Op)
}

// operand prints a binary operand; ?? cannot mix with && or || unparenthesized.
func (p *printer) operand(id ast.NodeID, min level, op ast.Op) {
	if op == ast.OpNullish {
		if c := p.t.Node(id); c.Kind == ast.KindLogical && (c.Op == ast.OpAnd || c.Op == ast.OpOr) {
			min = levelPrimary
		}
	}
	p.expr(id, min)
}

func (p *printer) params(list []ast.NodeID) {
	p.w.writeByte('(')
	for i, prm := range list {
		if i > 0 {
			p.w.write(", ")
		}
		p.pattern(prm)
	}
	p.w.writeByte(')')
}

func (p *printer) fnPrefix(id ast.NodeID) {
	if p.has(id, ast.FlagAsync) {
		p.w.write("async ")
	}
}

func (p *printer) function(id ast.NodeID) {
	n := p.t.Node(id)
	p.fnPrefix(id)
	p.w.write("function")
	if n.Has(ast.FlagGenerator) {
		p.w.writeByte('*')
	}
	if name := p.t.Kid(id, ast.SlotID); name.IsValid() {
		p.w.writeByte(' ')
		p.w.write(p.name(name))
	} else if !n.Has(ast.FlagGenerator) {
		p.w.writeByte(' ')
	}
	p.params(n.List)
	p.w.space()
	p.block(p.t.Kid(id, ast.SlotBody))
}

func (p *printer) arrow(id ast.NodeID) {
	n := p.t.Node(id)
	p.fnPrefix(id)
	p.params(n.List)
	p.w.write(" => ")
	body := p.t.Kid(id, ast.SlotBody)
	if p.t.Kind(body) == ast.KindBlock {
		p.block(body)
		return
	}
	if p.t.Kind(p.leftmost(body)) == ast.KindObject {
		p.w.writeByte('(')
		p.expr(body, levelLowest)
		p.w.writeByte(')')
		return
	}
	p.expr(body, levelAssign)
}

// exprOrDecl prints a function or class in declaration or expression form.
func (p *printer) exprOrDecl(id ast.NodeID) {
	if p.t.Kind(id).Is(ast.CapClass) {
		p.class(id)
		return
	}
	p.function(id)
}

func (p *printer) class(id ast.NodeID) {
	n := p.t.Node(id)
	p.w.write("class")
	if name := n.Kids[0]; name.IsValid() {
		p.w.writeByte(' ')
		p.w.write(p.name(name))
	}
	if super := n.Kids[1]; super.IsValid() {
		p.w.write(" extends ")
		p.expr(super, levelCall)
	}
	p.w.space()
	members := make([]ast.NodeID, 0, len(n.List))
	for _, m := range n.List {
		if !p.has(m, ast.FlagDeclare) && !p.t.Kind(m).Is(ast.CapType) {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		p.w.write("{}")
		return
	}
	p.w.writeByte('{')
	p.w.indentPush()
	for _, m := range members {
		p.w.newline()
		p.classMember(m)
	}
	p.w.indentPop()
	p.w.newline()
	p.w.writeByte('}')
}

func (p *printer) classMember(id ast.NodeID) {
	n := p.t.Node(id)
	if n.Kind == ast.KindOpaque {
		p.w.write(p.name(id))
		return
	}
	if n.Has(ast.FlagStatic) {
		p.w.write("static ")
	}
	switch n.Kind {
	case ast.KindClassMethod:
		p.method(id, n.Op, n.Kids[0], n.Kids[1], n.Has(ast.FlagComputed))
	case ast.KindClassProperty:
		p.key(n.Kids[0], n.Has(ast.FlagComputed))
		if v := n.Kids[1]; v.IsValid() {
			p.w.write(" = ")
			p.expr(v, levelAssign)
		}
		p.w.writeByte(';')
	default:
		ast.Violatef("cannot print %s %d as a class member", n.Kind, id)
	}
}

// method prints get/set/plain methods whose value is a function expression.
func (p *printer) method(id ast.NodeID, op ast.Op, key, fn ast.NodeID, computed bool) {
	switch op {
	case ast.OpGet:
		p.w.write("get ")
	case ast.OpSet:
		p.w.write("set ")
	}
	if p.has(fn, ast.FlagAsync) {
		p.w.write("async ")
	}
	if p.has(fn, ast.FlagGenerator) {
		p.w.writeByte('*')
	}
	p.key(key, computed)
	p.params(p.t.List(fn))
	p.w.space()
	p.block(p.t.Kid(fn, ast.SlotBody))
}

func (p *printer) key(id ast.NodeID, computed bool) {
	if computed {
		p.w.writeByte('[')
		p.expr(id, levelAssign)
		p.w.writeByte(']')
		return
	}
	if p.t.Kind(id) == ast.KindLiteral {
		p.literal(id)
		return
	}
	name := p.name(id)
	if isIdentifierName(name) {
		p.w.write(name)
		return
	}
	p.w.write(p.quote(name))
}

func (p *printer) object(id ast.NodeID) {
	list := p.t.List(id)
	if len(list) == 0 {
		p.w.write("{}")
		return
	}
	p.w.write("{ ")
	for i, prop := range list {
		if i > 0 {
			p.w.write(", ")
		}
		p.property(prop)
	}
	p.w.write(" }")
}

func (p *printer) property(id ast.NodeID) {
	n := p.t.Node(id)
	switch n.Kind {
	case ast.KindSpread, ast.KindRestElement:
		p.w.write("...")
		p.exprOrPattern(n.Kids[0])
		return
	case ast.KindProperty:
	default:
		p.exprOrPattern(id)
		return
	}
	key, value := n.Kids[0], n.Kids[1]
	switch n.Op {
	case ast.OpGet, ast.OpSet, ast.OpMethod:
		p.method(id, n.Op, key, value, n.Has(ast.FlagComputed))
		return
	}
	if n.Has(ast.FlagShorthand) && value.IsValid() {
		p.exprOrPattern(value)
		return
	}
	p.key(key, n.Has(ast.FlagComputed))
	if value.IsValid() {
		p.w.write(": ")
		if p.t.Kind(value).Is(ast.CapExpression) {
			p.expr(value, levelAssign)
		} else {
			p.pattern(value)
		}
	}
}

// pattern prints binding and assignment targets; type annotations are erased.
func (p *printer) pattern(id ast.NodeID) {
	n := p.t.Node(id)
	switch n.Kind {
	case ast.KindBindingIdent, ast.KindIdent, ast.KindName:
		p.w.write(p.name(id))
	case ast.KindArrayPattern:
		p.elements(n.List, '[', ']')
	case ast.KindObjectPattern:
		p.object(id)
	case ast.KindAssignPattern:
		p.pattern(n.Kids[0])
		p.w.write(" = ")
		p.expr(n.Kids[1], levelAssign)
	case ast.KindRestElement:
		p.w.write("...")
		p.pattern(n.Kids[0])
	case ast.KindHole:
	default:
		p.expr(id, levelCall)
	}
}
