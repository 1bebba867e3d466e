package discovery

import (
	"path"
	"strings"
)

// Filter filters test files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters slash-separated test paths by pattern. Patterns with
// * or ? are matched against the file name with path.Match, and patterns
// like "*checkout*" also match when every literal part appears in the file
// name in order. Anything else is a plain substring match on the path.
func (f *Filter) FilterByName(tests []string, pattern string) []string {
	if pattern == "" {
		return tests
	}

	var filtered []string
	for _, test := range tests {
		if matchName(test, pattern) {
			filtered = append(filtered, test)
		}
	}
	return filtered
}

func matchName(test, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(test, pattern)
	}

	name := path.Base(test)
	if matched, err := path.Match(pattern, name); err == nil && matched {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	// Literal parts must appear in order
	rest := name
	found := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
		found = true
	}
	return found
}
