package ast

// Op refines a node: operator, declaration kind, literal kind or
// method kind depending on the node's Kind.
type Op uint8

const (
	OpNone Op = iota

	// variable declaration kinds
	OpVar
	OpLet
	OpConst

	// assignment
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpExpAssign
	OpShlAssign
	OpShrAssign
	OpUShrAssign
	OpBitAndAssign
	OpBitOrAssign
	OpBitXorAssign
	OpAndAssign
	OpOrAssign
	OpNullishAssign

	// binary
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpEq
	OpNotEq
	OpStrictEq
	OpStrictNotEq
	OpLt
	OpLe
	OpGt
	OpGe
	OpShl
	OpShr
	OpUShr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpIn
	OpInstanceof

	// logical
	OpAnd
	OpOr
	OpNullish

	// unary
	OpNeg
	OpPlus
	OpNot
	OpBitNot
	OpTypeof
	OpVoid
	OpDelete

	// update
	OpInc
	OpDec

	// literal kinds
	OpNumber
	OpString
	OpBool
	OpNull
	OpRegex
	OpTemplateChunk
	OpBigInt

	// property and method kinds
	OpInit
	OpMethod
	OpGet
	OpSet
	OpConstructor

	opCount
)

var opText = [opCount]string{
	OpVar: "var", OpLet: "let", OpConst: "const",
	OpAssign: "=", OpAddAssign: "+=", OpSubAssign: "-=", OpMulAssign: "*=", OpDivAssign: "/=",
	OpModAssign: "%=", OpExpAssign: "**=", OpShlAssign: "<<=", OpShrAssign: ">>=",
	OpUShrAssign: ">>>=", OpBitAndAssign: "&=", OpBitOrAssign: "|=", OpBitXorAssign: "^=",
	OpAndAssign: "&&=", OpOrAssign: "||=", OpNullishAssign: "??=",
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpExp: "**",
	OpEq: "==", OpNotEq: "!=", OpStrictEq: "===", OpStrictNotEq: "!==",
	OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=", OpShl: "<<", OpShr: ">>", OpUShr: ">>>",
	OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^", OpIn: "in", OpInstanceof: "instanceof",
	OpAnd: "&&", OpOr: "||", OpNullish: "??",
	OpNeg: "-", OpPlus: "+", OpNot: "!", OpBitNot: "~", OpTypeof: "typeof", OpVoid: "void", OpDelete: "delete",
	OpInc: "++", OpDec: "--",
	OpNumber: "number", OpString: "string", OpBool: "boolean", OpNull: "null", OpRegex: "regex",
	OpTemplateChunk: "template", OpBigInt: "bigint",
	OpInit: "init", OpMethod: "method", OpGet: "get", OpSet: "set", OpConstructor: "constructor",
}

func (o Op) String() string {
	if o < opCount {
		return opText[o]
	}
	return "op?"
}

// IsCompoundAssign reports an assignment that also reads its target.
func (o Op) IsCompoundAssign() bool {
	return o > OpAssign && o <= OpNullishAssign
}

func (o Op) IsAssign() bool { return o >= OpAssign && o <= OpNullishAssign }

// BinaryOf maps a compound assignment to its binary or logical operator.
func (o Op) BinaryOf() Op {
	switch o {
	case OpAddAssign:
		return OpAdd
	case OpSubAssign:
		return OpSub
	case OpMulAssign:
		return OpMul
	case OpDivAssign:
		return OpDiv
	case OpModAssign:
		return OpMod
	case OpExpAssign:
		return OpExp
	case OpShlAssign:
		return OpShl
	case OpShrAssign:
		return OpShr
	case OpUShrAssign:
		return OpUShr
	case OpBitAndAssign:
		return OpBitAnd
	case OpBitOrAssign:
		return OpBitOr
	case OpBitXorAssign:
		return OpBitXor
	case OpAndAssign:
		return OpAnd
	case OpOrAssign:
		return OpOr
	case OpNullishAssign:
		return OpNullish
	}
	return OpNone
}

// Precedence of binary and logical operators; higher binds tighter.
func (o Op) Precedence() int {
	switch o {
	case OpNullish:
		return 1
	case OpOr:
		return 2
	case OpAnd:
		return 3
	case OpBitOr:
		return 4
	case OpBitXor:
		return 5
	case OpBitAnd:
		return 6
	case OpEq, OpNotEq, OpStrictEq, OpStrictNotEq:
		return 7
	case OpLt, OpLe, OpGt, OpGe, OpIn, OpInstanceof:
		return 8
	case OpShl, OpShr, OpUShr:
		return 9
	case OpAdd, OpSub:
		return 10
	case OpMul, OpDiv, OpMod:
		return 11
	case OpExp:
		return 12
	}
	return 0
}

func lookupOp(text string, lo, hi Op) (Op, bool) {
	for o := lo; o <= hi; o++ {
		if opText[o] == text {
			return o, true
		}
	}
	return OpNone, false
}

func AssignOp(text string) (Op, bool) { return lookupOp(text, OpAssign, OpNullishAssign) }

// BinaryOp returns a binary or logical operator for text.
func BinaryOp(text string) (Op, bool) { return lookupOp(text, OpAdd, OpNullish) }

func UnaryOp(text string) (Op, bool) { return lookupOp(text, OpNeg, OpDelete) }

func UpdateOp(text string) (Op, bool) { return lookupOp(text, OpInc, OpDec) }

func VarOp(text string) (Op, bool) { return lookupOp(text, OpVar, OpConst) }

func (o Op) IsLogical() bool { return o == OpAnd || o == OpOr || o == OpNullish }
