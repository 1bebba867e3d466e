package discovery

import (
	"testing"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		tests    []string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern returns all",
			tests:    []string{"cart.test.js", "checkout.test.js", "order.test.js"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "wildcard pattern matches suffix",
			tests:    []string{"cart.test.js", "checkout.test.js", "order.spec.ts"},
			pattern:  "*.spec.ts",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches substring",
			tests:    []string{"cart.test.js", "checkout.test.js", "order.test.js", "checkoutForm.test.js"},
			pattern:  "*checkout*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			tests:    []string{"src/cart.test.js", "super/flaky.test.js"},
			pattern:  "super/",
			expected: 1,
		},
		{
			name:     "no matches",
			tests:    []string{"cart.test.js", "checkout.test.js"},
			pattern:  "*nonexistent*",
			expected: 0,
		},
		{
			name:     "full path with wildcard",
			tests:    []string{"src/cart.test.js", "src/checkout.test.js"},
			pattern:  "cart.*.js",
			expected: 1,
		},
		{
			name:     "parts must appear in order",
			tests:    []string{"user.service.test.js", "service.user.test.js"},
			pattern:  "*user*service*",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(tt.tests, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, len(result))
			}
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty test list", func(t *testing.T) {
		result := filter.FilterByName([]string{}, "*.test.js")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("only wildcards match everything", func(t *testing.T) {
		result := filter.FilterByName([]string{"cart.test.js"}, "**")
		if len(result) != 1 {
			t.Errorf("expected path.Match to accept **, got %d items", len(result))
		}
	})
}
