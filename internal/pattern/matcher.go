// Package pattern implements the wildcard matcher shared by the
// DeniedTable and ReadOnlyTable checkers (spec.md §4.8).
package pattern

import (
	"regexp"
	"strings"
	"sync"
)

// Matcher compiles and caches wildcard patterns of the shape used by
// rules.<name> table-name configs. `*` means "one or more non-underscore
// characters" — deliberately NOT the POSIX glob meaning, so that
// "sys_*" matches "sys_user" but neither "system" (no underscore before
// the suffix) nor "sys_user_detail" (an extra underscore-delimited
// segment). This is intentional (spec.md §9 Open Questions) and must not
// be "fixed" toward conventional globbing.
type Matcher struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// New returns an empty Matcher.
func New() *Matcher {
	return &Matcher{cache: make(map[string]*regexp.Regexp)}
}

// MatchAny reports whether identifier (already stripped of delimiters and
// schema prefix, see ast.StripIdentifier) matches any of patterns.
func (m *Matcher) MatchAny(identifier string, patterns []string) (string, bool) {
	id := strings.ToLower(identifier)
	for _, p := range patterns {
		re := m.compile(p)
		if re.MatchString(id) {
			return p, true
		}
	}
	return "", false
}

func (m *Matcher) compile(pattern string) *regexp.Regexp {
	m.mu.Lock()
	defer m.mu.Unlock()
	if re, ok := m.cache[pattern]; ok {
		return re
	}
	re := regexp.MustCompile("(?i)^" + wildcardToRegex(pattern) + "$")
	m.cache[pattern] = re
	return re
}

// wildcardToRegex escapes every regex metacharacter in pattern except `*`,
// which becomes "one or more non-underscore characters".
func wildcardToRegex(pattern string) string {
	pattern = strings.ToLower(pattern)
	var b strings.Builder
	for _, r := range pattern {
		if r == '*' {
			b.WriteString("[^_]+")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}
