package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint // instant event
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI command
	ScopePhase                   // parse, semantic, lint, transform, codegen
	ScopeFile                    // one source file
	ScopePass                    // one traversal pass over a file
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopeFile:
		return "file"
	case ScopePass:
		return "pass"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // "parse", "file:src/a.js"
	Detail   string
	Extra    map[string]string
}
