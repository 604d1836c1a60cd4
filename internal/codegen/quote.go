package codegen

import (
	"fmt"
	"strings"
	"unicode"
)

// quote renders value as a string literal, switching to the other quote
// when that needs fewer escapes.
func (p *printer) quote(value string) string {
	q := byte('"')
	if p.opt.Quote == QuoteSingle {
		q = '\''
	}
	other := byte('\'')
	if q == '\'' {
		other = '"'
	}
	if strings.Count(value, string(q)) > strings.Count(value, string(other)) {
		q = other
	}
	return quoteWith(value, q)
}

func quoteWith(value string, q byte) string {
	var sb strings.Builder
	sb.Grow(len(value) + 2)
	sb.WriteByte(q)
	for _, r := range value {
		switch r {
		case rune(q):
			sb.WriteByte('\\')
			sb.WriteByte(q)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\x%02x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

// isIdentifierName reports whether s can be written as a bare property key.
func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '$' || r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
