package sources

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher matches slash-separated paths against glob patterns. "*" stays
// within one path segment and "**" crosses segments. A leading "**/" also
// matches at the top level, so "**/*.js" matches "app.js".
type Matcher struct {
	globs []glob.Glob
}

// NewMatcher compiles patterns. An empty pattern list matches nothing.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
		if trimmed := strings.TrimPrefix(p, "**/"); trimmed != p {
			if g, err := glob.Compile(trimmed, '/'); err == nil {
				m.globs = append(m.globs, g)
			}
		}
	}
	return m, nil
}

// Match reports whether path matches any pattern.
func (m *Matcher) Match(path string) bool {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "./")
	for _, g := range m.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
