package semantic

import "strings"

// ScopeID identifies a scope. IDs are 1-based; NoScopeID means none.
type ScopeID uint32

const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// ReferenceID identifies a reference.
type ReferenceID uint32

const NoReferenceID ReferenceID = 0

func (id ReferenceID) IsValid() bool { return id != NoReferenceID }

type ScopeFlags uint16

const (
	ScopeTop ScopeFlags = 1 << iota
	ScopeFunction
	ScopeArrow
	ScopeBlock
	ScopeVar // var declarations land here
	ScopeStrictMode
	ScopeClass
	ScopeCatch
	ScopeLoop
	ScopeSwitch
	ScopeEnum
)

var scopeFlagNames = []string{"top", "function", "arrow", "block", "var", "strict", "class", "catch", "loop", "switch", "enum"}

func (f ScopeFlags) Has(o ScopeFlags) bool { return f&o == o }

func (f ScopeFlags) String() string { return flagString(uint32(f), scopeFlagNames) }

type SymbolFlags uint32

const (
	SymFunctionScoped SymbolFlags = 1 << iota
	SymBlockScoped
	SymConst
	SymImport
	SymClass
	SymFunction
	SymParam
	SymCatchParam
	SymTypeOnly
	SymValueOnly
	SymMultiplyDeclared
	SymFunctionExprName
	SymGenerated
	SymExport
	SymEnum
	SymEnumMember
	SymInterface
)

var symbolFlagNames = []string{
	"var", "lexical", "const", "import", "class", "function", "param", "catch",
	"type", "value", "redeclared", "fn-name", "generated", "export", "enum",
	"enum-member", "interface",
}

func (f SymbolFlags) Has(o SymbolFlags) bool { return f&o == o }

func (f SymbolFlags) Any(o SymbolFlags) bool { return f&o != 0 }

func (f SymbolFlags) String() string { return flagString(uint32(f), symbolFlagNames) }

type RefFlags uint8

const (
	RefRead RefFlags = 1 << iota
	RefWrite
	RefType

	RefReadWrite = RefRead | RefWrite
)

var refFlagNames = []string{"read", "write", "type"}

func (f RefFlags) IsRead() bool  { return f&RefRead != 0 }
func (f RefFlags) IsWrite() bool { return f&RefWrite != 0 }
func (f RefFlags) IsType() bool  { return f&RefType != 0 }

// IsValue reports a runtime use, as opposed to a type position.
func (f RefFlags) IsValue() bool { return f&RefReadWrite != 0 }

func (f RefFlags) String() string { return flagString(uint32(f), refFlagNames) }

func flagString(v uint32, names []string) string {
	var parts []string
	for i, n := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "|")
}
