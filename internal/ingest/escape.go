package ingest

import "strings"

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\r", "",
	"\n", `\n`,
)

// EscapeLiteral escapes s for a single-quoted TypeScript string literal.
// It runs as a single pass, so a backslash it inserts is never escaped
// again. Carriage returns are dropped; newlines become \n.
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

// UnescapeLiteral reverses EscapeLiteral. Unknown escapes keep the escaped
// character.
func UnescapeLiteral(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
