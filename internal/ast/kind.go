package ast

// Kind is the closed set of node kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindProgram
	KindPlaceholder // left behind by a move-out
	KindOpaque      // source text the frontend does not model; printed verbatim

	// statements
	KindExprStmt
	KindVarDecl
	KindVarDeclarator
	KindFunctionDecl
	KindClassDecl
	KindBlock
	KindEmpty
	KindDebugger
	KindIf
	KindFor
	KindForIn
	KindForOf
	KindWhile
	KindDoWhile
	KindReturn
	KindBreak
	KindContinue
	KindThrow
	KindTry
	KindCatchClause
	KindSwitch
	KindSwitchCase
	KindLabeled
	KindImport
	KindImportSpecifier
	KindImportDefaultSpecifier
	KindImportNamespaceSpecifier
	KindExportNamed
	KindExportSpecifier
	KindExportDefault
	KindExportAll

	// typescript
	KindTSInterface
	KindTSTypeAlias
	KindTSEnum
	KindTSEnumMember
	KindTSTypeRef
	KindTSKeyword
	KindTSUnion
	KindTSArray
	KindTSProperty
	KindTSTypeLiteral

	// expressions
	KindIdent
	KindLiteral
	KindTemplate
	KindArray
	KindObject
	KindProperty
	KindSpread
	KindFunctionExpr
	KindArrow
	KindClassExpr
	KindClassMethod
	KindClassProperty
	KindCall
	KindNew
	KindMember
	KindAssign
	KindUpdate
	KindUnary
	KindBinary
	KindLogical
	KindConditional
	KindSequence
	KindThis
	KindSuper
	KindAwait
	KindYield

	// bindings and patterns
	KindBindingIdent
	KindName
	KindArrayPattern
	KindObjectPattern
	KindAssignPattern
	KindRestElement
	KindHole

	// jsx
	KindJSX           // element or fragment; its source text is printed with embedded parts spliced in
	KindJSXExpression // {expr} container inside a JSX element

	kindCount
)

// Slot names a child position of a node.
type Slot uint8

const (
	SlotNone Slot = iota
	SlotID
	SlotBody
	SlotInit
	SlotTest
	SlotUpdate
	SlotLeft
	SlotRight
	SlotCallee
	SlotObject
	SlotProperty
	SlotArg
	SlotKey
	SlotValue
	SlotCons
	SlotAlt
	SlotExpr
	SlotLabel
	SlotSource
	SlotDecl
	SlotLocal
	SlotImported
	SlotExported
	SlotBlock
	SlotHandler
	SlotFinalizer
	SlotParam
	SlotSuper
	SlotTypeAnn
	SlotReturnType
	SlotType
	SlotDiscriminant
	SlotElem

	// list slots
	SlotStatements
	SlotParams
	SlotArgs
	SlotElements
	SlotProperties
	SlotMembers
	SlotDeclarators
	SlotCases
	SlotSpecifiers
	SlotExprs
	SlotTypeArgs
	SlotQuasis
	SlotTypes

	slotCount
)

var slotNames = [slotCount]string{
	SlotNone: "none", SlotID: "id", SlotBody: "body", SlotInit: "init", SlotTest: "test",
	SlotUpdate: "update", SlotLeft: "left", SlotRight: "right", SlotCallee: "callee",
	SlotObject: "object", SlotProperty: "property", SlotArg: "argument", SlotKey: "key",
	SlotValue: "value", SlotCons: "consequent", SlotAlt: "alternate", SlotExpr: "expression",
	SlotLabel: "label", SlotSource: "source", SlotDecl: "declaration", SlotLocal: "local",
	SlotImported: "imported", SlotExported: "exported", SlotBlock: "block",
	SlotHandler: "handler", SlotFinalizer: "finalizer", SlotParam: "param",
	SlotSuper: "superClass", SlotTypeAnn: "typeAnnotation", SlotReturnType: "returnType",
	SlotType: "type", SlotDiscriminant: "discriminant", SlotElem: "elementType",
	SlotStatements: "statements", SlotParams: "params", SlotArgs: "arguments",
	SlotElements: "elements", SlotProperties: "properties", SlotMembers: "members",
	SlotDeclarators: "declarations", SlotCases: "cases", SlotSpecifiers: "specifiers",
	SlotExprs: "expressions", SlotTypeArgs: "typeArguments", SlotQuasis: "quasis",
	SlotTypes: "types",
}

func (s Slot) String() string {
	if int(s) < len(slotNames) && slotNames[s] != "" {
		return slotNames[s]
	}
	return "slot?"
}

// Caps describes what role a kind can play.
type Caps uint16

const (
	CapStatement Caps = 1 << iota
	CapExpression
	CapPattern
	CapFunction
	CapClass
	CapDeclaration
	CapType
	CapNamed
	CapLoop
	CapModuleItem
)

// Desc is the static shape of a kind: up to four fixed slots and an
// optional child list.
type Desc struct {
	Name     string
	Slots    [4]Slot
	List     Slot
	StmtList bool
	Caps     Caps
}

func slots(s ...Slot) [4]Slot {
	var out [4]Slot
	copy(out[:], s)
	return out
}

var descs = [kindCount]Desc{
	KindInvalid:     {Name: "Invalid"},
	KindProgram:     {Name: "Program", List: SlotStatements, StmtList: true},
	KindPlaceholder: {Name: "Placeholder", Caps: CapStatement | CapExpression | CapPattern},
	KindOpaque:      {Name: "Opaque", Caps: CapStatement | CapExpression | CapType | CapNamed},

	KindExprStmt:      {Name: "ExpressionStatement", Slots: slots(SlotExpr), Caps: CapStatement},
	KindVarDecl:       {Name: "VariableDeclaration", List: SlotDeclarators, Caps: CapStatement | CapDeclaration},
	KindVarDeclarator: {Name: "VariableDeclarator", Slots: slots(SlotID, SlotInit)},
	KindFunctionDecl: {Name: "FunctionDeclaration", Slots: slots(SlotID, SlotBody, SlotReturnType), List: SlotParams,
		Caps: CapStatement | CapDeclaration | CapFunction},
	KindClassDecl: {Name: "ClassDeclaration", Slots: slots(SlotID, SlotSuper), List: SlotMembers,
		Caps: CapStatement | CapDeclaration | CapClass},
	KindBlock:       {Name: "BlockStatement", List: SlotStatements, StmtList: true, Caps: CapStatement},
	KindEmpty:       {Name: "EmptyStatement", Caps: CapStatement},
	KindDebugger:    {Name: "DebuggerStatement", Caps: CapStatement},
	KindIf:          {Name: "IfStatement", Slots: slots(SlotTest, SlotCons, SlotAlt), Caps: CapStatement},
	KindFor:         {Name: "ForStatement", Slots: slots(SlotInit, SlotTest, SlotUpdate, SlotBody), Caps: CapStatement | CapLoop},
	KindForIn:       {Name: "ForInStatement", Slots: slots(SlotLeft, SlotRight, SlotBody), Caps: CapStatement | CapLoop},
	KindForOf:       {Name: "ForOfStatement", Slots: slots(SlotLeft, SlotRight, SlotBody), Caps: CapStatement | CapLoop},
	KindWhile:       {Name: "WhileStatement", Slots: slots(SlotTest, SlotBody), Caps: CapStatement | CapLoop},
	KindDoWhile:     {Name: "DoWhileStatement", Slots: slots(SlotBody, SlotTest), Caps: CapStatement | CapLoop},
	KindReturn:      {Name: "ReturnStatement", Slots: slots(SlotArg), Caps: CapStatement},
	KindBreak:       {Name: "BreakStatement", Slots: slots(SlotLabel), Caps: CapStatement},
	KindContinue:    {Name: "ContinueStatement", Slots: slots(SlotLabel), Caps: CapStatement},
	KindThrow:       {Name: "ThrowStatement", Slots: slots(SlotArg), Caps: CapStatement},
	KindTry:         {Name: "TryStatement", Slots: slots(SlotBlock, SlotHandler, SlotFinalizer), Caps: CapStatement},
	KindCatchClause: {Name: "CatchClause", Slots: slots(SlotParam, SlotBody)},
	KindSwitch:      {Name: "SwitchStatement", Slots: slots(SlotDiscriminant), List: SlotCases, Caps: CapStatement},
	KindSwitchCase:  {Name: "SwitchCase", Slots: slots(SlotTest), List: SlotStatements, StmtList: true},
	KindLabeled:     {Name: "LabeledStatement", Slots: slots(SlotLabel, SlotBody), Caps: CapStatement},
	KindImport: {Name: "ImportDeclaration", Slots: slots(SlotSource), List: SlotSpecifiers,
		Caps: CapStatement | CapModuleItem},
	KindImportSpecifier:          {Name: "ImportSpecifier", Slots: slots(SlotImported, SlotLocal)},
	KindImportDefaultSpecifier:   {Name: "ImportDefaultSpecifier", Slots: slots(SlotLocal)},
	KindImportNamespaceSpecifier: {Name: "ImportNamespaceSpecifier", Slots: slots(SlotLocal)},
	KindExportNamed: {Name: "ExportNamedDeclaration", Slots: slots(SlotDecl, SlotSource), List: SlotSpecifiers,
		Caps: CapStatement | CapModuleItem},
	KindExportSpecifier: {Name: "ExportSpecifier", Slots: slots(SlotLocal, SlotExported)},
	KindExportDefault: {Name: "ExportDefaultDeclaration", Slots: slots(SlotDecl),
		Caps: CapStatement | CapModuleItem},
	KindExportAll: {Name: "ExportAllDeclaration", Slots: slots(SlotExported, SlotSource),
		Caps: CapStatement | CapModuleItem},

	KindTSInterface: {Name: "TSInterfaceDeclaration", Slots: slots(SlotID), List: SlotMembers,
		Caps: CapStatement | CapDeclaration | CapType},
	KindTSTypeAlias: {Name: "TSTypeAliasDeclaration", Slots: slots(SlotID, SlotType),
		Caps: CapStatement | CapDeclaration | CapType},
	KindTSEnum:        {Name: "TSEnumDeclaration", Slots: slots(SlotID), List: SlotMembers, Caps: CapStatement | CapDeclaration},
	KindTSEnumMember:  {Name: "TSEnumMember", Slots: slots(SlotID, SlotInit)},
	KindTSTypeRef:     {Name: "TSTypeReference", Slots: slots(SlotType), List: SlotTypeArgs, Caps: CapType},
	KindTSKeyword:     {Name: "TSKeyword", Caps: CapType | CapNamed},
	KindTSUnion:       {Name: "TSUnionType", List: SlotTypes, Caps: CapType},
	KindTSArray:       {Name: "TSArrayType", Slots: slots(SlotElem), Caps: CapType},
	KindTSProperty:    {Name: "TSPropertySignature", Slots: slots(SlotKey, SlotTypeAnn), Caps: CapType},
	KindTSTypeLiteral: {Name: "TSTypeLiteral", List: SlotMembers, Caps: CapType},

	KindIdent:    {Name: "Identifier", Caps: CapExpression | CapNamed | CapPattern},
	KindLiteral:  {Name: "Literal", Caps: CapExpression | CapNamed},
	KindTemplate: {Name: "TemplateLiteral", List: SlotQuasis, Caps: CapExpression},
	KindArray:    {Name: "ArrayExpression", List: SlotElements, Caps: CapExpression},
	KindObject:   {Name: "ObjectExpression", List: SlotProperties, Caps: CapExpression},
	KindProperty: {Name: "Property", Slots: slots(SlotKey, SlotValue)},
	KindSpread:   {Name: "SpreadElement", Slots: slots(SlotArg)},
	KindFunctionExpr: {Name: "FunctionExpression", Slots: slots(SlotID, SlotBody, SlotReturnType), List: SlotParams,
		Caps: CapExpression | CapFunction},
	KindArrow: {Name: "ArrowFunctionExpression", Slots: slots(SlotBody, SlotReturnType), List: SlotParams,
		Caps: CapExpression | CapFunction},
	KindClassExpr: {Name: "ClassExpression", Slots: slots(SlotID, SlotSuper), List: SlotMembers,
		Caps: CapExpression | CapClass},
	KindClassMethod:   {Name: "MethodDefinition", Slots: slots(SlotKey, SlotValue)},
	KindClassProperty: {Name: "PropertyDefinition", Slots: slots(SlotKey, SlotValue, SlotTypeAnn)},
	KindCall:          {Name: "CallExpression", Slots: slots(SlotCallee), List: SlotArgs, Caps: CapExpression},
	KindNew:           {Name: "NewExpression", Slots: slots(SlotCallee), List: SlotArgs, Caps: CapExpression},
	KindMember:        {Name: "MemberExpression", Slots: slots(SlotObject, SlotProperty), Caps: CapExpression | CapPattern},
	KindAssign:        {Name: "AssignmentExpression", Slots: slots(SlotLeft, SlotRight), Caps: CapExpression},
	KindUpdate:        {Name: "UpdateExpression", Slots: slots(SlotArg), Caps: CapExpression},
	KindUnary:         {Name: "UnaryExpression", Slots: slots(SlotArg), Caps: CapExpression},
	KindBinary:        {Name: "BinaryExpression", Slots: slots(SlotLeft, SlotRight), Caps: CapExpression},
	KindLogical:       {Name: "LogicalExpression", Slots: slots(SlotLeft, SlotRight), Caps: CapExpression},
	KindConditional:   {Name: "ConditionalExpression", Slots: slots(SlotTest, SlotCons, SlotAlt), Caps: CapExpression},
	KindSequence:      {Name: "SequenceExpression", List: SlotExprs, Caps: CapExpression},
	KindThis:          {Name: "ThisExpression", Caps: CapExpression},
	KindSuper:         {Name: "Super", Caps: CapExpression},
	KindAwait:         {Name: "AwaitExpression", Slots: slots(SlotArg), Caps: CapExpression},
	KindYield:         {Name: "YieldExpression", Slots: slots(SlotArg), Caps: CapExpression},

	KindBindingIdent:  {Name: "BindingIdentifier", Slots: slots(SlotTypeAnn), Caps: CapPattern | CapNamed},
	KindName:          {Name: "IdentifierName", Caps: CapNamed},
	KindArrayPattern:  {Name: "ArrayPattern", List: SlotElements, Caps: CapPattern},
	KindObjectPattern: {Name: "ObjectPattern", List: SlotProperties, Caps: CapPattern},
	KindAssignPattern: {Name: "AssignmentPattern", Slots: slots(SlotLeft, SlotRight), Caps: CapPattern},
	KindRestElement:   {Name: "RestElement", Slots: slots(SlotArg), Caps: CapPattern},
	KindHole:          {Name: "Hole"},

	KindJSX:           {Name: "JSXElement", List: SlotExprs, Caps: CapExpression | CapNamed},
	KindJSXExpression: {Name: "JSXExpressionContainer", Slots: slots(SlotExpr)},
}

// Describe returns the static descriptor of k.
func (k Kind) Describe() *Desc {
	if k >= kindCount {
		return &descs[KindInvalid]
	}
	return &descs[k]
}

func (k Kind) String() string { return k.Describe().Name }

func (k Kind) Is(c Caps) bool { return k.Describe().Caps&c != 0 }

func (k Kind) IsFunction() bool { return k.Is(CapFunction) }

func (k Kind) IsLoop() bool { return k.Is(CapLoop) }

func (k Kind) IsStatement() bool { return k.Is(CapStatement) }

// SlotIndex returns the fixed position of slot s for kind k, or -1.
func (k Kind) SlotIndex(s Slot) int {
	d := k.Describe()
	for i, have := range d.Slots {
		if have == s && s != SlotNone {
			return i
		}
	}
	return -1
}

// KindCount is the number of defined kinds, for dispatch tables.
const KindCount = int(kindCount)
