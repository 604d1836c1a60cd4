package codegen

import "jssema/internal/ast"

// level is an operator precedence; an expression is parenthesized when its
// own level is below the level its position requires.
type level uint8

const (
	levelLowest level = iota
	levelComma
	levelAssign
	levelConditional
	levelNullish
	levelLogicalOr
	levelLogicalAnd
	levelBitOr
	levelBitXor
	levelBitAnd
	levelEquals
	levelCompare
	levelShift
	levelAdd
	levelMultiply
	levelExponent
	levelPrefix
	levelPostfix
	levelCall
	levelMember
	levelPrimary
)

var binaryLevels = map[ast.Op]level{
	ast.OpNullish: levelNullish,
	ast.OpOr:      levelLogicalOr,
	ast.OpAnd:     levelLogicalAnd,
	ast.OpBitOr:   levelBitOr,
	ast.OpBitXor:  levelBitXor,
	ast.OpBitAnd:  levelBitAnd,

	ast.OpEq: levelEquals, ast.OpNotEq: levelEquals,
	ast.OpStrictEq: levelEquals, ast.OpStrictNotEq: levelEquals,

	ast.OpLt: levelCompare, ast.OpLe: levelCompare, ast.OpGt: levelCompare, ast.OpGe: levelCompare,
	ast.OpIn: levelCompare, ast.OpInstanceof: levelCompare,

	ast.OpShl: levelShift, ast.OpShr: levelShift, ast.OpUShr: levelShift,
	ast.OpAdd: levelAdd, ast.OpSub: levelAdd,
	ast.OpMul: levelMultiply, ast.OpDiv: levelMultiply, ast.OpMod: levelMultiply,
	ast.OpExp: levelExponent,
}

func (p *printer) levelOf(id ast.NodeID) level {
	n := p.t.Node(id)
	switch n.Kind {
	case ast.KindSequence:
		return levelComma
	case ast.KindAssign, ast.KindArrow, ast.KindYield:
		return levelAssign
	case ast.KindConditional:
		return levelConditional
	case ast.KindBinary, ast.KindLogical:
		return binaryLevels[n.Op]
	case ast.KindUnary, ast.KindAwait:
		return levelPrefix
	case ast.KindUpdate:
		if n.Has(ast.FlagPrefix) {
			return levelPrefix
		}
		return levelPostfix
	case ast.KindCall, ast.KindNew:
		return levelCall
	case ast.KindMember:
		return levelMember
	case ast.KindLiteral:
		if n.Op == ast.OpNumber && len(p.t.Name(id)) > 0 && p.t.Name(id)[0] == '-' {
			return levelPrefix
		}
	case ast.KindOpaque:
		return levelLowest
	}
	return levelPrimary
}
