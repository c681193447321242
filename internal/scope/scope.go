// Package scope decides which destinations are internal to the crawl and
// therefore subject to recursion.
package scope

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/5l1v3r1/linkcheck/internal/urlutil"
)

// Matcher classifies URLs as internal or external against a set of
// host+path glob patterns like "http://example.com/guides**".
type Matcher struct {
	globs    []string
	patterns []*regexp.Regexp
}

// NewMatcher compiles the given globs. "**" matches any run of characters
// including '/', "*" matches within a single path segment.
func NewMatcher(globs []string) (*Matcher, error) {
	m := &Matcher{globs: globs}
	for _, glob := range globs {
		glob = strings.TrimSpace(glob)
		if glob == "" {
			continue
		}
		pattern, err := regexp.Compile(globToRegexp(glob))
		if err != nil {
			return nil, fmt.Errorf("invalid host glob %q: %w", glob, err)
		}
		m.patterns = append(m.patterns, pattern)
	}
	return m, nil
}

// MatchesAsInternal reports whether the URL falls inside the crawl scope.
func (m *Matcher) MatchesAsInternal(u *url.URL) bool {
	if u == nil {
		return false
	}
	s := urlutil.Canonical(u)
	for _, pattern := range m.patterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// Globs returns the configured patterns.
func (m *Matcher) Globs() []string {
	return m.globs
}

// SeedGlobs derives the implicit scope from seed URLs: each seed contributes
// "<seed>**", so everything at or below a seed is internal.
func SeedGlobs(seeds []*url.URL) []string {
	globs := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if seed == nil {
			continue
		}
		globs = append(globs, urlutil.Canonical(seed)+"**")
	}
	return globs
}

func globToRegexp(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(glob); i++ {
		switch glob[i] {
		case '*':
			if i+1 < len(glob) && glob[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		default:
			b.WriteString(regexp.QuoteMeta(glob[i : i+1]))
		}
	}
	b.WriteString("$")
	return b.String()
}
