// Package flaky decides whether a failed test case is a known, tolerated flake.
package flaky

import (
	"strings"

	"jfr/internal/domain"
)

// IsKnownToBeFlaky reports whether any declaration in the catalog matches the
// outcome of a test case executed in the file at relativeTestFilePath.
func IsKnownToBeFlaky(catalog []domain.FlakyDeclaration, relativeTestFilePath string, outcome domain.TestCaseOutcome) bool {
	for _, d := range catalog {
		if matchesTestFilePath(d, relativeTestFilePath) &&
			matchesFullName(d, outcome) &&
			matchesFailureMessages(d, outcome) {
			return true
		}
	}
	return false
}

// matchesTestFilePath compares paths exactly; no normalization, no globbing.
func matchesTestFilePath(d domain.FlakyDeclaration, relativeTestFilePath string) bool {
	return d.TestFilePath == relativeTestFilePath
}

// matchesFullName is true when every case in the file is declared flaky, or
// the full name is identical.
func matchesFullName(d domain.FlakyDeclaration, outcome domain.TestCaseOutcome) bool {
	return d.FullName == "" || d.FullName == outcome.FullName
}

// matchesFailureMessages is true when no failure text is declared, or at least
// one declared message is a literal prefix of at least one observed message.
func matchesFailureMessages(d domain.FlakyDeclaration, outcome domain.TestCaseOutcome) bool {
	if d.FailureMessages == nil {
		return true
	}
	for _, known := range d.FailureMessages {
		for _, observed := range outcome.FailureMessages {
			if strings.HasPrefix(observed, known) {
				return true
			}
		}
	}
	return false
}
