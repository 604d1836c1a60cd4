package frontend

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// unquote returns the value of a quoted JavaScript string literal. Invalid
// escapes keep their character, as sloppy-mode engines do.
func unquote(lit string) string {
	if len(lit) >= 2 && (lit[0] == '"' || lit[0] == '\'') && lit[len(lit)-1] == lit[0] {
		lit = lit[1 : len(lit)-1]
	}
	if !strings.ContainsRune(lit, '\\') {
		return lit
	}
	var sb strings.Builder
	sb.Grow(len(lit))
	for i := 0; i < len(lit); i++ {
		c := lit[i]
		if c != '\\' || i+1 == len(lit) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch c = lit[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(lit) && lit[i+1] == '\n' {
				i++
			}
		case 'x':
			if r, ok := hexRune(lit, i+1, 2); ok {
				sb.WriteRune(r)
				i += 2
			} else {
				sb.WriteByte(c)
			}
		case 'u':
			if i+1 < len(lit) && lit[i+1] == '{' {
				end := strings.IndexByte(lit[i:], '}')
				if end > 0 {
					if r, ok := hexRune(lit, i+2, end-2); ok {
						sb.WriteRune(r)
						i += end
						continue
					}
				}
			} else if r, ok := hexRune(lit, i+1, 4); ok {
				sb.WriteRune(r)
				i += 4
				continue
			}
			sb.WriteByte(c)
		default:
			_, size := utf8.DecodeRuneInString(lit[i:])
			sb.WriteString(lit[i : i+size])
			i += size - 1
		}
	}
	return sb.String()
}

func hexRune(s string, at, width int) (rune, bool) {
	if width <= 0 || at+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+width], 16, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, false
	}
	return rune(v), true
}
