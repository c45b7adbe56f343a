// Package decode turns backslash escape sequences typed into prompt and
// template fields into their literal characters. Unknown escapes pass
// through untouched so Windows-style paths survive.
package decode

import (
	"strconv"
	"strings"
)

// Escapes decodes \n, \t, \r, \\, \', \", \xHH and \uHHHH sequences in s.
// A malformed or unrecognized sequence is kept verbatim.
func Escapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			i++
			continue
		}

		switch s[i+1] {
		case 'n':
			sb.WriteByte('\n')
			i += 2
		case 't':
			sb.WriteByte('\t')
			i += 2
		case 'r':
			sb.WriteByte('\r')
			i += 2
		case '\\':
			sb.WriteByte('\\')
			i += 2
		case '\'':
			sb.WriteByte('\'')
			i += 2
		case '"':
			sb.WriteByte('"')
			i += 2
		case 'x':
			if v, ok := hexRune(s, i+2, 2); ok {
				sb.WriteRune(v)
				i += 4
			} else {
				sb.WriteByte(c)
				i++
			}
		case 'u':
			if v, ok := hexRune(s, i+2, 4); ok {
				sb.WriteRune(v)
				i += 6
			} else {
				sb.WriteByte(c)
				i++
			}
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

func hexRune(s string, start, width int) (rune, bool) {
	if start+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+width], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
