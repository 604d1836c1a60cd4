package ast

import (
	"strconv"

	"jssema/internal/source"
)

// Builder constructs subtrees inside an existing Tree.
//
// A synthetic builder stamps every node with the same span (At); a source
// builder hands out increasing offsets to leaves in creation order so that
// hand-built trees have a meaningful textual order.
type Builder struct {
	T    *Tree
	at   source.Span
	auto bool
	pos  uint32
}

// NewBuilder returns a synthetic builder.
func NewBuilder(t *Tree) *Builder {
	return &Builder{T: t, at: source.Span{File: t.File}}
}

// NewSourceBuilder returns a builder that invents source offsets.
func NewSourceBuilder(t *Tree) *Builder {
	return &Builder{T: t, auto: true, at: source.Span{File: t.File}}
}

// At sets the span used for synthetic nodes.
func (b *Builder) At(span source.Span) *Builder {
	b.at = span
	return b
}

func (b *Builder) leafSpan(width int) source.Span {
	if !b.auto {
		return b.at
	}
	if width <= 0 {
		width = 1
	}
	sp := source.Span{File: b.T.File, Start: b.pos, End: b.pos + uint32(width)}
	b.pos = sp.End + 1
	return sp
}

func (b *Builder) leaf(kind Kind, op Op, name string) NodeID {
	id := b.T.New(kind, b.leafSpan(len(name)))
	n := b.T.Node(id)
	n.Op = op
	if name != "" {
		n.Name = b.T.Intern(name)
	}
	return id
}

// Make allocates a node of kind with fixed children in descriptor order and
// an optional child list.
func (b *Builder) Make(kind Kind, op Op, kids []NodeID, list []NodeID) NodeID {
	id := b.T.New(kind, b.at)
	n := b.T.Node(id)
	n.Op = op
	var span source.Span
	have := false
	cover := func(c NodeID) {
		cs := b.T.Node(c).Span
		if !have {
			span, have = cs, true
			return
		}
		span = span.Cover(cs)
	}
	for i, k := range kids {
		if i >= len(n.Kids) {
			Violatef("%s takes at most %d fixed children", kind, len(n.Kids))
		}
		if !k.IsValid() {
			continue
		}
		b.T.checkDetached(k)
		n.Kids[i] = k
		b.T.attach(k, id)
		cover(k)
	}
	if len(list) > 0 {
		n.List = make([]NodeID, 0, len(list))
		for _, k := range list {
			b.T.checkDetached(k)
			n.List = append(n.List, k)
			b.T.attach(k, id)
			if k.IsValid() {
				cover(k)
			}
		}
	}
	switch {
	case !b.auto:
		n.Span = b.at
	case have:
		n.Span = span
	default:
		n.Span = b.leafSpan(1)
	}
	return id
}

func (b *Builder) kids(k ...NodeID) []NodeID { return k }

// Program creates the root and registers it on the tree.
func (b *Builder) Program(stmts ...NodeID) NodeID {
	id := b.Make(KindProgram, OpNone, nil, stmts)
	b.T.Root = id
	return id
}

func (b *Builder) Block(stmts ...NodeID) NodeID {
	return b.Make(KindBlock, OpNone, nil, stmts)
}

func (b *Builder) ExprStmt(e NodeID) NodeID {
	return b.Make(KindExprStmt, OpNone, b.kids(e), nil)
}

// Directive creates a prologue directive such as "use strict".
func (b *Builder) Directive(text string) NodeID {
	id := b.ExprStmt(b.Str(text))
	b.T.Node(id).Flags |= FlagDirective
	return id
}

func (b *Builder) Empty() NodeID { return b.leaf(KindEmpty, OpNone, "") }

func (b *Builder) VarDecl(op Op, decls ...NodeID) NodeID {
	return b.Make(KindVarDecl, op, nil, decls)
}

func (b *Builder) Declarator(target, init NodeID) NodeID {
	return b.Make(KindVarDeclarator, OpNone, b.kids(target, init), nil)
}

func (b *Builder) Var(name string, init NodeID) NodeID {
	return b.VarDecl(OpVar, b.Declarator(b.Bind(name), init))
}

func (b *Builder) Let(name string, init NodeID) NodeID {
	return b.VarDecl(OpLet, b.Declarator(b.Bind(name), init))
}

func (b *Builder) Const(name string, init NodeID) NodeID {
	return b.VarDecl(OpConst, b.Declarator(b.Bind(name), init))
}

func (b *Builder) Ident(name string) NodeID { return b.leaf(KindIdent, OpNone, name) }

func (b *Builder) Bind(name string) NodeID { return b.leaf(KindBindingIdent, OpNone, name) }

// TypedBind is a binding identifier with a type annotation.
func (b *Builder) TypedBind(name string, typ NodeID) NodeID {
	id := b.Bind(name)
	b.T.SetKid(id, SlotTypeAnn, typ)
	return id
}

func (b *Builder) Name(name string) NodeID { return b.leaf(KindName, OpNone, name) }

// Params creates one binding identifier per name.
func (b *Builder) Params(names ...string) []NodeID {
	out := make([]NodeID, len(names))
	for i, n := range names {
		out[i] = b.Bind(n)
	}
	return out
}

func (b *Builder) Num(v float64) NodeID {
	return b.leaf(KindLiteral, OpNumber, strconv.FormatFloat(v, 'g', -1, 64))
}

// Str creates a string literal; value is stored unquoted.
func (b *Builder) Str(value string) NodeID { return b.leaf(KindLiteral, OpString, value) }

func (b *Builder) Bool(v bool) NodeID {
	return b.leaf(KindLiteral, OpBool, strconv.FormatBool(v))
}

func (b *Builder) Null() NodeID { return b.leaf(KindLiteral, OpNull, "null") }

// Void0 builds `void 0`.
func (b *Builder) Void0() NodeID { return b.Unary(OpVoid, b.Num(0)) }

func (b *Builder) Lit(op Op, raw string) NodeID { return b.leaf(KindLiteral, op, raw) }

func (b *Builder) Opaque(text string) NodeID { return b.leaf(KindOpaque, OpNone, text) }

func (b *Builder) Placeholder() NodeID { return b.leaf(KindPlaceholder, OpNone, "") }

func (b *Builder) This() NodeID { return b.leaf(KindThis, OpNone, "this") }

func (b *Builder) Super() NodeID { return b.leaf(KindSuper, OpNone, "super") }

func (b *Builder) Hole() NodeID { return b.leaf(KindHole, OpNone, "") }

func (b *Builder) function(kind Kind, name string, params []NodeID, body []NodeID) NodeID {
	var id NodeID
	if name != "" {
		id = b.Bind(name)
	}
	blk := b.Block(body...)
	return b.Make(kind, OpNone, b.kids(id, blk), params)
}

// Function creates a function declaration whose body holds stmts.
func (b *Builder) Function(name string, params []NodeID, stmts ...NodeID) NodeID {
	return b.function(KindFunctionDecl, name, params, stmts)
}

// FuncExpr creates a function expression; name may be empty.
func (b *Builder) FuncExpr(name string, params []NodeID, stmts ...NodeID) NodeID {
	return b.function(KindFunctionExpr, name, params, stmts)
}

// Arrow creates an arrow function. A non-block body makes it an expression-bodied arrow.
func (b *Builder) Arrow(params []NodeID, body NodeID) NodeID {
	id := b.Make(KindArrow, OpNone, b.kids(body), params)
	if b.T.Kind(body) != KindBlock {
		b.T.Node(id).Flags |= FlagExprBody
	}
	return id
}

func (b *Builder) Class(name string, super NodeID, members ...NodeID) NodeID {
	return b.Make(KindClassDecl, OpNone, b.kids(b.Bind(name), super), members)
}

func (b *Builder) ClassExpr(name string, super NodeID, members ...NodeID) NodeID {
	var id NodeID
	if name != "" {
		id = b.Bind(name)
	}
	return b.Make(KindClassExpr, OpNone, b.kids(id, super), members)
}

// Method creates a class method; fn must be a function expression.
func (b *Builder) Method(op Op, key string, fn NodeID) NodeID {
	return b.Make(KindClassMethod, op, b.kids(b.Name(key), fn), nil)
}

func (b *Builder) ClassProp(key string, value NodeID) NodeID {
	return b.Make(KindClassProperty, OpNone, b.kids(b.Name(key), value), nil)
}

func (b *Builder) If(test, cons, alt NodeID) NodeID {
	return b.Make(KindIf, OpNone, b.kids(test, cons, alt), nil)
}

func (b *Builder) For(init, test, update, body NodeID) NodeID {
	return b.Make(KindFor, OpNone, b.kids(init, test, update, body), nil)
}

func (b *Builder) ForIn(left, right, body NodeID) NodeID {
	return b.Make(KindForIn, OpNone, b.kids(left, right, body), nil)
}

func (b *Builder) ForOf(left, right, body NodeID) NodeID {
	return b.Make(KindForOf, OpNone, b.kids(left, right, body), nil)
}

func (b *Builder) While(test, body NodeID) NodeID {
	return b.Make(KindWhile, OpNone, b.kids(test, body), nil)
}

func (b *Builder) DoWhile(body, test NodeID) NodeID {
	return b.Make(KindDoWhile, OpNone, b.kids(body, test), nil)
}

func (b *Builder) Return(arg NodeID) NodeID {
	return b.Make(KindReturn, OpNone, b.kids(arg), nil)
}

func (b *Builder) Throw(arg NodeID) NodeID {
	return b.Make(KindThrow, OpNone, b.kids(arg), nil)
}

func (b *Builder) Break(label string) NodeID {
	var l NodeID
	if label != "" {
		l = b.Name(label)
	}
	return b.Make(KindBreak, OpNone, b.kids(l), nil)
}

func (b *Builder) Continue(label string) NodeID {
	var l NodeID
	if label != "" {
		l = b.Name(label)
	}
	return b.Make(KindContinue, OpNone, b.kids(l), nil)
}

func (b *Builder) Labeled(label string, body NodeID) NodeID {
	return b.Make(KindLabeled, OpNone, b.kids(b.Name(label), body), nil)
}

func (b *Builder) Try(block, handler, finalizer NodeID) NodeID {
	return b.Make(KindTry, OpNone, b.kids(block, handler, finalizer), nil)
}

func (b *Builder) Catch(param, body NodeID) NodeID {
	return b.Make(KindCatchClause, OpNone, b.kids(param, body), nil)
}

func (b *Builder) Switch(disc NodeID, cases ...NodeID) NodeID {
	return b.Make(KindSwitch, OpNone, b.kids(disc), cases)
}

// Case creates a switch case; a NoNodeID test makes it the default case.
func (b *Builder) Case(test NodeID, stmts ...NodeID) NodeID {
	return b.Make(KindSwitchCase, OpNone, b.kids(test), stmts)
}

func (b *Builder) Import(from string, specs ...NodeID) NodeID {
	return b.Make(KindImport, OpNone, b.kids(b.Str(from)), specs)
}

func (b *Builder) ImportSpec(imported, local string) NodeID {
	return b.Make(KindImportSpecifier, OpNone, b.kids(b.Name(imported), b.Bind(local)), nil)
}

func (b *Builder) ImportDefault(local string) NodeID {
	return b.Make(KindImportDefaultSpecifier, OpNone, b.kids(b.Bind(local)), nil)
}

func (b *Builder) ImportNamespace(local string) NodeID {
	return b.Make(KindImportNamespaceSpecifier, OpNone, b.kids(b.Bind(local)), nil)
}

func (b *Builder) ExportNamed(decl NodeID, specs ...NodeID) NodeID {
	return b.Make(KindExportNamed, OpNone, b.kids(decl, NoNodeID), specs)
}

func (b *Builder) ExportSpec(local, exported string) NodeID {
	return b.Make(KindExportSpecifier, OpNone, b.kids(b.Ident(local), b.Name(exported)), nil)
}

func (b *Builder) ExportDefault(decl NodeID) NodeID {
	return b.Make(KindExportDefault, OpNone, b.kids(decl), nil)
}

func (b *Builder) TSInterface(name string, members ...NodeID) NodeID {
	return b.Make(KindTSInterface, OpNone, b.kids(b.Bind(name)), members)
}

func (b *Builder) TSTypeAlias(name string, typ NodeID) NodeID {
	return b.Make(KindTSTypeAlias, OpNone, b.kids(b.Bind(name), typ), nil)
}

func (b *Builder) TSEnum(name string, members ...NodeID) NodeID {
	return b.Make(KindTSEnum, OpNone, b.kids(b.Bind(name)), members)
}

func (b *Builder) TSEnumMember(name string, init NodeID) NodeID {
	return b.Make(KindTSEnumMember, OpNone, b.kids(b.Name(name), init), nil)
}

// TypeRef creates a type reference whose name resolves as a type use.
func (b *Builder) TypeRef(name string, args ...NodeID) NodeID {
	return b.Make(KindTSTypeRef, OpNone, b.kids(b.Ident(name)), args)
}

func (b *Builder) TSKeyword(name string) NodeID { return b.leaf(KindTSKeyword, OpNone, name) }

func (b *Builder) TSProperty(key string, typ NodeID) NodeID {
	return b.Make(KindTSProperty, OpNone, b.kids(b.Name(key), typ), nil)
}

func (b *Builder) Call(callee NodeID, args ...NodeID) NodeID {
	return b.Make(KindCall, OpNone, b.kids(callee), args)
}

func (b *Builder) New(callee NodeID, args ...NodeID) NodeID {
	return b.Make(KindNew, OpNone, b.kids(callee), args)
}

// Member creates a non-computed member access obj.prop.
func (b *Builder) Member(obj NodeID, prop string) NodeID {
	return b.Make(KindMember, OpNone, b.kids(obj, b.Name(prop)), nil)
}

// Index creates a computed member access obj[prop].
func (b *Builder) Index(obj, prop NodeID) NodeID {
	id := b.Make(KindMember, OpNone, b.kids(obj, prop), nil)
	b.T.Node(id).Flags |= FlagComputed
	return id
}

func (b *Builder) Assign(op Op, left, right NodeID) NodeID {
	return b.Make(KindAssign, op, b.kids(left, right), nil)
}

func (b *Builder) Update(op Op, prefix bool, arg NodeID) NodeID {
	id := b.Make(KindUpdate, op, b.kids(arg), nil)
	if prefix {
		b.T.Node(id).Flags |= FlagPrefix
	}
	return id
}

func (b *Builder) Unary(op Op, arg NodeID) NodeID {
	return b.Make(KindUnary, op, b.kids(arg), nil)
}

func (b *Builder) Binary(op Op, left, right NodeID) NodeID {
	return b.Make(KindBinary, op, b.kids(left, right), nil)
}

func (b *Builder) Logical(op Op, left, right NodeID) NodeID {
	return b.Make(KindLogical, op, b.kids(left, right), nil)
}

func (b *Builder) Cond(test, cons, alt NodeID) NodeID {
	return b.Make(KindConditional, OpNone, b.kids(test, cons, alt), nil)
}

func (b *Builder) Seq(exprs ...NodeID) NodeID {
	return b.Make(KindSequence, OpNone, nil, exprs)
}

func (b *Builder) Array(elems ...NodeID) NodeID {
	return b.Make(KindArray, OpNone, nil, elems)
}

func (b *Builder) Object(props ...NodeID) NodeID {
	return b.Make(KindObject, OpNone, nil, props)
}

func (b *Builder) Prop(key string, value NodeID) NodeID {
	return b.Make(KindProperty, OpInit, b.kids(b.Name(key), value), nil)
}

func (b *Builder) Spread(arg NodeID) NodeID {
	return b.Make(KindSpread, OpNone, b.kids(arg), nil)
}

func (b *Builder) Await(arg NodeID) NodeID {
	return b.Make(KindAwait, OpNone, b.kids(arg), nil)
}

func (b *Builder) Yield(arg NodeID) NodeID {
	return b.Make(KindYield, OpNone, b.kids(arg), nil)
}

func (b *Builder) ArrayPattern(elems ...NodeID) NodeID {
	return b.Make(KindArrayPattern, OpNone, nil, elems)
}

func (b *Builder) ObjectPattern(props ...NodeID) NodeID {
	return b.Make(KindObjectPattern, OpNone, nil, props)
}

func (b *Builder) AssignPattern(left, right NodeID) NodeID {
	return b.Make(KindAssignPattern, OpNone, b.kids(left, right), nil)
}

func (b *Builder) Rest(arg NodeID) NodeID {
	return b.Make(KindRestElement, OpNone, b.kids(arg), nil)
}
