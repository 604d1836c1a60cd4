package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// parse
	SynInfo        Code = 2000
	SynParseError  Code = 2001
	SynUnsupported Code = 2002

	// semantic model
	SemaInfo                 Code = 3000
	SemaRedeclaration        Code = 3001
	SemaUseBeforeDeclaration Code = 3002
	SemaStructural           Code = 3003
	SemaInvariant            Code = 3004

	// I/O
	IOInfo        Code = 4000
	IOReadFailed  Code = 4001
	IOCacheFailed Code = 4002
	IOIndexFailed Code = 4003

	// configuration
	CfgInfo         Code = 5000
	CfgUnknownKey   Code = 5001
	CfgInvalidValue Code = 5002
	CfgUnknownRule  Code = 5003
	CfgUnknownPass  Code = 5004

	// lint rules
	LintInfo         Code = 6000
	LintNoUndef      Code = 6001
	LintPreferConst  Code = 6002
	LintNoShadow     Code = 6003
	LintNoRedeclare  Code = 6004
	LintNoUnusedVars Code = 6005
	LintNoLoopFunc   Code = 6006
	LintScript       Code = 6100
	LintScriptError  Code = 6101

	// transforms
	TransformInfo   Code = 7000
	TransformFailed Code = 7001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	SynInfo:                  "Parse information",
	SynParseError:            "Syntax error",
	SynUnsupported:           "Construct is kept verbatim",
	SemaInfo:                 "Semantic information",
	SemaRedeclaration:        "Redeclaration of a binding",
	SemaUseBeforeDeclaration: "Use of a block-scoped binding before its declaration",
	SemaStructural:           "Structural violation",
	SemaInvariant:            "Semantic model invariant broken",
	IOInfo:                   "I/O information",
	IOReadFailed:             "Cannot read file",
	IOCacheFailed:            "Cache failure",
	IOIndexFailed:            "Index failure",
	CfgInfo:                  "Configuration information",
	CfgUnknownKey:            "Unknown configuration key",
	CfgInvalidValue:          "Invalid configuration value",
	CfgUnknownRule:           "Unknown lint rule",
	CfgUnknownPass:           "Unknown transform pass",
	LintInfo:                 "Lint information",
	LintNoUndef:              "Reference to an undeclared name",
	LintPreferConst:          "Binding is never reassigned",
	LintNoShadow:             "Binding shadows an outer binding",
	LintNoRedeclare:          "Variable is declared more than once",
	LintNoUnusedVars:         "Binding is never read",
	LintNoLoopFunc:           "Function created in a loop captures a loop-mutated variable",
	LintScript:               "Scripted rule finding",
	LintScriptError:          "Scripted rule failed",
	TransformInfo:            "Transform information",
	TransformFailed:          "Transform failed",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("TRN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
