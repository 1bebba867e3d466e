package execution

import (
	"context"

	"jfr/internal/domain"
)

// Executor runs the host test runner and returns its parsed results
type Executor interface {
	// Run executes the whole suite once.
	Run(ctx context.Context) (*domain.RunResult, error)
	// Rerun executes only the given test files, filtered to the given full
	// test names.
	Rerun(ctx context.Context, testFilePaths []string, fullNames []string) (*domain.RunResult, error)
}

var _ Executor = (*Runner)(nil)
