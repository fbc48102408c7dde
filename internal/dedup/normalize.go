package dedup

import "strings"

// Normalize implements spec.md §4.5's normalized-SQL key: strip `--...EOL`,
// `/*...*/` and `#...EOL` comments that fall outside string literals, then
// lowercase and remove all whitespace. Applying it twice is a no-op
// (spec.md §8: "Normalization idempotence") except where removing
// whitespace joins characters into a new comment marker: "1 - -1" becomes
// "1--1", which a second pass strips as a line comment.
func Normalize(sql string) string {
	stripped := stripComments(sql)
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r = r + ('a' - 'A')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stripComments removes `--`/`#` line comments and `/* */` block comments
// that occur outside single/double-quoted or backtick-quoted literals,
// honoring doubled-quote escapes the same way MultiStatement's semicolon
// scanner does (see rawtext.StripLiterals).
func stripComments(sql string) string {
	var out strings.Builder
	out.Grow(len(sql))
	runes := []rune(sql)
	n := len(runes)
	var quote rune // 0 when not inside a literal
	for i := 0; i < n; i++ {
		c := runes[i]

		if quote != 0 {
			out.WriteRune(c)
			if c == quote {
				if i+1 < n && runes[i+1] == quote {
					out.WriteRune(runes[i+1])
					i++
					continue
				}
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			out.WriteRune(c)
		case c == '-' && i+1 < n && runes[i+1] == '-':
			i = skipToEOL(runes, i)
		case c == '#' && i+1 < n && runes[i+1] == '{':
			// MyBatis-style placeholder (#{param}), not a comment: copy
			// through verbatim instead of treating '#' as a line comment.
			out.WriteRune(c)
		case c == '#':
			i = skipToEOL(runes, i)
		case c == '/' && i+1 < n && runes[i+1] == '*':
			i = skipBlockComment(runes, i)
		default:
			out.WriteRune(c)
		}
	}
	return out.String()
}

func skipToEOL(runes []rune, i int) int {
	for i < len(runes) && runes[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(runes []rune, i int) int {
	i += 2
	for i+1 < len(runes) {
		if runes[i] == '*' && runes[i+1] == '/' {
			return i + 1
		}
		i++
	}
	return len(runes) - 1
}
