package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jfr/internal/domain"
)

const (
	insertRunQuery = "INSERT INTO flaky_runs " +
		"(recorded_at, success, total_test_suites, failed_test_suites, first_run_failed_test_cases, retried_test_cases, recovered_test_cases, duration_seconds) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	insertRetryQuery = "INSERT INTO flaky_retries " +
		"(run_id, test_file_path, full_name, failure_message, recovered) " +
		"VALUES (?, ?, ?, ?, ?)"
)

// MySQLRecorder appends every retry report to the history database created
// by `jfr migrate`.
type MySQLRecorder struct {
	db *sql.DB
}

// NewMySQLRecorder wraps an open database handle
func NewMySQLRecorder(db *sql.DB) *MySQLRecorder {
	return &MySQLRecorder{db: db}
}

// Record stores one run and its retried cases in a single transaction
func (m *MySQLRecorder) Record(ctx context.Context, report *domain.RetryReport) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	meta := report.Meta
	recordedAt, err := time.Parse(time.RFC3339, meta.Timestamp)
	if err != nil {
		recordedAt = time.Now()
	}

	res, err := tx.ExecContext(ctx, insertRunQuery,
		recordedAt.UTC(),
		meta.Success,
		meta.TotalTestSuites,
		meta.FailedTestSuites,
		meta.FirstRunFailedCases,
		meta.RetriedTestCases,
		meta.RecoveredTestCases,
		meta.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read run id: %w", err)
	}

	for _, c := range report.Details {
		if _, err := tx.ExecContext(ctx, insertRetryQuery,
			runID,
			c.FilePath,
			c.FullName,
			strings.Join(c.FailureMessages, "\n"),
			c.Recovered,
		); err != nil {
			return fmt.Errorf("insert retried case %q: %w", c.FullName, err)
		}
	}

	return tx.Commit()
}

// Close closes the database handle
func (m *MySQLRecorder) Close() error {
	return m.db.Close()
}
