package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity accepts "info", "warning"/"warn" and "error" in any case.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "info", "INFO":
		return SevInfo, true
	case "warning", "warn", "WARNING":
		return SevWarning, true
	case "error", "ERROR":
		return SevError, true
	}
	return SevInfo, false
}
