package codegen

import (
	"jssema/internal/ast"
)

func (p *printer) statements(list []ast.NodeID) {
	for _, s := range list {
		if p.erased(s) {
			continue
		}
		p.w.newline()
		p.stmt(s)
	}
}

func (p *printer) block(id ast.NodeID) {
	list := p.t.List(id)
	live := false
	for _, s := range list {
		if !p.erased(s) {
			live = true
			break
		}
	}
	if !live {
		p.w.write("{}")
		return
	}
	p.w.writeByte('{')
	p.w.indentPush()
	p.statements(list)
	p.w.indentPop()
	p.w.newline()
	p.w.writeByte('}')
}

// body prints a statement in a nested position: blocks stay on the line,
// anything else follows a space.
func (p *printer) body(id ast.NodeID) {
	p.w.space()
	if p.t.Kind(id) == ast.KindBlock {
		p.block(id)
		return
	}
	p.stmt(id)
}

func (p *printer) stmt(id ast.NodeID) {
	n := p.t.Node(id)
	switch n.Kind {
	case ast.KindBlock:
		p.block(id)
	case ast.KindEmpty:
		p.w.writeByte(';')
	case ast.KindDebugger:
		p.w.write("debugger;")
	case ast.KindExprStmt:
		p.exprStmt(id)
	case ast.KindVarDecl:
		p.varDecl(id)
		p.w.writeByte(';')
	case ast.KindFunctionDecl:
		p.function(id)
	case ast.KindClassDecl:
		p.class(id)
	case ast.KindIf:
		p.ifStmt(id)
	case ast.KindFor:
		p.w.write("for (")
		if init := n.Kids[0]; init.IsValid() {
			p.forHead(init)
		}
		p.w.writeByte(';')
		if test := n.Kids[1]; test.IsValid() {
			p.w.space()
			p.expr(test, levelLowest)
		}
		p.w.writeByte(';')
		if update := n.Kids[2]; update.IsValid() {
			p.w.space()
			p.expr(update, levelLowest)
		}
		p.w.writeByte(')')
		p.body(n.Kids[3])
	case ast.KindForIn, ast.KindForOf:
		p.w.write("for ")
		if n.Has(ast.FlagAsync) {
			p.w.write("await ")
		}
		p.w.writeByte('(')
		p.forHead(n.Kids[0])
		if n.Kind == ast.KindForIn {
			p.w.write(" in ")
			p.expr(n.Kids[1], levelLowest)
		} else {
			p.w.write(" of ")
			p.expr(n.Kids[1], levelAssign)
		}
		p.w.writeByte(')')
		p.body(n.Kids[2])
	case ast.KindWhile:
		p.w.write("while (")
		p.expr(n.Kids[0], levelLowest)
		p.w.writeByte(')')
		p.body(n.Kids[1])
	case ast.KindDoWhile:
		p.w.write("do")
		p.body(n.Kids[0])
		p.w.write(" while (")
		p.expr(n.Kids[1], levelLowest)
		p.w.write(");")
	case ast.KindReturn, ast.KindThrow:
		if n.Kind == ast.KindReturn {
			p.w.write("return")
		} else {
			p.w.write("throw")
		}
		if arg := n.Kids[0]; arg.IsValid() {
			p.w.space()
			p.expr(arg, levelLowest)
		}
		p.w.writeByte(';')
	case ast.KindBreak, ast.KindContinue:
		if n.Kind == ast.KindBreak {
			p.w.write("break")
		} else {
			p.w.write("continue")
		}
		if label := n.Kids[0]; label.IsValid() {
			p.w.space()
			p.w.write(p.name(label))
		}
		p.w.writeByte(';')
	case ast.KindLabeled:
		p.w.write(p.name(n.Kids[0]))
		p.w.writeByte(':')
		p.body(n.Kids[1])
	case ast.KindTry:
		p.w.write("try ")
		p.block(n.Kids[0])
		if h := n.Kids[1]; h.IsValid() {
			p.w.write(" catch ")
			if param := p.t.Kid(h, ast.SlotParam); param.IsValid() {
				p.w.writeByte('(')
				p.pattern(param)
				p.w.write(") ")
			}
			p.block(p.t.Kid(h, ast.SlotBody))
		}
		if f := n.Kids[2]; f.IsValid() {
			p.w.write(" finally ")
			p.block(f)
		}
	case ast.KindSwitch:
		p.switchStmt(id)
	case ast.KindImport:
		p.importDecl(id)
	case ast.KindExportNamed:
		p.exportNamed(id)
	case ast.KindExportDefault:
		p.w.write("export default ")
		decl := n.Kids[0]
		switch p.t.Kind(decl) {
		case ast.KindFunctionDecl, ast.KindClassDecl, ast.KindFunctionExpr, ast.KindClassExpr:
			p.exprOrDecl(decl)
		default:
			p.expr(decl, levelAssign)
			p.w.writeByte(';')
		}
	case ast.KindExportAll:
		p.w.write("export *")
		if ex := n.Kids[0]; ex.IsValid() {
			p.w.write(" as ")
			p.w.write(p.name(ex))
		}
		p.w.write(" from ")
		p.expr(n.Kids[1], levelLowest)
		p.w.writeByte(';')
	case ast.KindTSEnum:
		p.enum(id)
	case ast.KindTSInterface, ast.KindTSTypeAlias:
	case ast.KindOpaque:
		p.w.write(p.name(id))
	case ast.KindPlaceholder:
		ast.Violatef("placeholder %d left in the tree", id)
	default:
		ast.Violatef("cannot print %s %d as a statement", n.Kind, id)
	}
}

func (p *printer) exprStmt(id ast.NodeID) {
	e := p.t.Kid(id, ast.SlotExpr)
	if p.has(id, ast.FlagDirective) && p.t.Kind(e) == ast.KindLiteral {
		p.w.write(p.quote(p.name(e)))
		p.w.writeByte(';')
		return
	}
	switch p.t.Kind(p.leftmost(e)) {
	case ast.KindFunctionExpr, ast.KindClassExpr, ast.KindObject:
		p.w.writeByte('(')
		p.expr(e, levelLowest)
		p.w.writeByte(')')
	default:
		p.expr(e, levelLowest)
	}
	p.w.writeByte(';')
}

// leftmost returns the node whose text starts the printed expression.
func (p *printer) leftmost(id ast.NodeID) ast.NodeID {
	for {
		n := p.t.Node(id)
		var next ast.NodeID
		switch n.Kind {
		case ast.KindCall, ast.KindMember, ast.KindAssign, ast.KindBinary,
			ast.KindLogical, ast.KindConditional:
			next = n.Kids[0]
		case ast.KindUpdate:
			if !n.Has(ast.FlagPrefix) {
				next = n.Kids[0]
			}
		case ast.KindSequence:
			if len(n.List) > 0 {
				next = n.List[0]
			}
		}
		if !next.IsValid() || p.levelOf(next) < p.childLevel(id, next) {
			return id
		}
		id = next
	}
}

// childLevel approximates the level a leading child is printed at.
func (p *printer) childLevel(parent, child ast.NodeID) level {
	switch p.t.Kind(parent) {
	case ast.KindCall:
		return levelCall
	case ast.KindMember:
		return levelCall
	case ast.KindUpdate:
		return levelPostfix
	case ast.KindConditional:
		return levelNullish
	case ast.KindBinary, ast.KindLogical:
		return p.levelOf(parent)
	}
	return levelLowest
}

func (p *printer) forHead(id ast.NodeID) {
	if p.t.Kind(id) == ast.KindVarDecl {
		p.varDecl(id)
		return
	}
	p.exprOrPattern(id)
}

func (p *printer) exprOrPattern(id ast.NodeID) {
	if p.t.Kind(id).Is(ast.CapExpression) {
		p.expr(id, levelLowest)
		return
	}
	p.pattern(id)
}

func (p *printer) varDecl(id ast.NodeID) {
	n := p.t.Node(id)
	p.w.write(n.Op.String())
	p.w.space()
	for i, d := range n.List {
		if i > 0 {
			p.w.write(", ")
		}
		p.pattern(p.t.Kid(d, ast.SlotID))
		if init := p.t.Kid(d, ast.SlotInit); init.IsValid() {
			p.w.write(" = ")
			p.expr(init, levelAssign)
		}
	}
}

func (p *printer) ifStmt(id ast.NodeID) {
	n := p.t.Node(id)
	p.w.write("if (")
	p.expr(n.Kids[0], levelLowest)
	p.w.writeByte(')')
	cons, alt := n.Kids[1], n.Kids[2]
	// a dangling else would bind to a nested if
	if alt.IsValid() && p.t.Kind(cons) == ast.KindIf && !p.t.Kid(cons, ast.SlotAlt).IsValid() {
		p.w.write(" {")
		p.w.indentPush()
		p.w.newline()
		p.stmt(cons)
		p.w.indentPop()
		p.w.newline()
		p.w.writeByte('}')
	} else {
		p.body(cons)
	}
	if !alt.IsValid() {
		return
	}
	if p.t.Kind(cons) == ast.KindBlock {
		p.w.write(" else")
	} else {
		p.w.newline()
		p.w.write("else")
	}
	p.body(alt)
}

func (p *printer) switchStmt(id ast.NodeID) {
	n := p.t.Node(id)
	p.w.write("switch (")
	p.expr(n.Kids[0], levelLowest)
	p.w.write(") {")
	p.w.indentPush()
	for _, c := range n.List {
		p.w.newline()
		if test := p.t.Kid(c, ast.SlotTest); test.IsValid() {
			p.w.write("case ")
			p.expr(test, levelLowest)
			p.w.writeByte(':')
		} else {
			p.w.write("default:")
		}
		p.w.indentPush()
		p.statements(p.t.List(c))
		p.w.indentPop()
	}
	p.w.indentPop()
	p.w.newline()
	p.w.writeByte('}')
}

func (p *printer) importDecl(id ast.NodeID) {
	n := p.t.Node(id)
	p.w.write("import ")
	if len(n.List) > 0 {
		named := false
		for i, s := range n.List {
			sn := p.t.Node(s)
			if i > 0 && !(named && sn.Kind == ast.KindImportSpecifier) {
				p.w.write(", ")
			}
			switch sn.Kind {
			case ast.KindImportDefaultSpecifier:
				p.w.write(p.name(sn.Kids[0]))
			case ast.KindImportNamespaceSpecifier:
				p.w.write("* as ")
				p.w.write(p.name(sn.Kids[0]))
			case ast.KindImportSpecifier:
				if !named {
					p.w.write("{ ")
					named = true
				} else {
					p.w.write(", ")
				}
				p.specifier(sn.Kids[0], sn.Kids[1])
			}
		}
		if named {
			p.w.write(" }")
		}
		p.w.write(" from ")
	}
	p.expr(n.Kids[0], levelLowest)
	p.w.writeByte(';')
}

func (p *printer) specifier(from, to ast.NodeID) {
	p.w.write(p.name(from))
	if to.IsValid() && p.name(to) != p.name(from) {
		p.w.write(" as ")
		p.w.write(p.name(to))
	}
}

func (p *printer) exportNamed(id ast.NodeID) {
	n := p.t.Node(id)
	if decl := n.Kids[0]; decl.IsValid() {
		p.w.write("export ")
		p.stmt(decl)
		return
	}
	p.w.write("export {")
	for i, s := range n.List {
		if i > 0 {
			p.w.writeByte(',')
		}
		p.w.space()
		p.specifier(p.t.Kid(s, ast.SlotLocal), p.t.Kid(s, ast.SlotExported))
	}
	if len(n.List) > 0 {
		p.w.space()
	}
	p.w.writeByte('}')
	if src := n.Kids[1]; src.IsValid() {
		p.w.write(" from ")
		p.expr(src, levelLowest)
	}
	p.w.writeByte(';')
}
