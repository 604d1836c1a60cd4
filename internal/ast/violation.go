package ast

import "fmt"

// StructuralViolation reports misuse of the tree or of the engine built on
// it. It is raised with panic and is fatal for the file being processed.
type StructuralViolation struct {
	Msg string
}

func (v *StructuralViolation) Error() string {
	return "structural violation: " + v.Msg
}

// Violatef panics with a *StructuralViolation.
func Violatef(format string, args ...any) {
	panic(&StructuralViolation{Msg: fmt.Sprintf(format, args...)})
}

// AsViolation extracts a StructuralViolation from a recovered panic value.
func AsViolation(r any) (*StructuralViolation, bool) {
	v, ok := r.(*StructuralViolation)
	return v, ok
}
