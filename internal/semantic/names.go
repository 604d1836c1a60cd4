package semantic

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// camelHint turns an arbitrary hint into an identifier fragment:
// "Math.pow" becomes "mathPow", "" becomes "ref".
func camelHint(hint string) string {
	words := strings.FieldsFunc(hint, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '$'
	})
	if len(words) == 0 {
		return "ref"
	}
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			runes := []rune(w)
			runes[0] = unicode.ToLower(runes[0])
			b.WriteString(string(runes))
			continue
		}
		b.WriteString(titleCaser.String(w))
	}
	out := b.String()
	if r := []rune(out)[0]; unicode.IsDigit(r) {
		out = "_" + out
	}
	return out
}

// UniqueName returns a name derived from hint that is not bound anywhere in
// scope's chain, not declared anywhere in the program and not used as an
// unresolved global. The name is not bound by this call.
func (s *Semantic) UniqueName(hint string, scope ScopeID) string {
	base := "_" + camelHint(hint)
	for i := 1; ; i++ {
		name := base
		if i > 1 {
			name += strconv.Itoa(i)
		}
		if !s.nameTaken(name, scope) {
			return name
		}
	}
}

func (s *Semantic) nameTaken(name string, scope ScopeID) bool {
	id, ok := s.tree.Strings.Find(name)
	if !ok {
		return false
	}
	if _, used := s.names[id]; used {
		return true
	}
	for sc := range s.ScopeChain(scope) {
		if _, bound := s.scopes[sc].Bindings[id]; bound {
			return true
		}
	}
	return false
}
