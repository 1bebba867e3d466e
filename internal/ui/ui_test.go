package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jfr/internal/config"
	"jfr/internal/domain"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func sampleReport() *domain.RetryReport {
	return &domain.RetryReport{
		Meta: domain.RetryReportMeta{
			TotalTestSuites:     2,
			PassedTestSuites:    2,
			TotalTestCases:      3,
			FirstRunFailedCases: 2,
			RetriedTestCases:    2,
			RecoveredTestCases:  1,
			Success:             true,
			DurationSeconds:     3.25,
			Timestamp:           "2024-03-01T12:00:00Z",
		},
		Details: []domain.RetriedCase{
			{FilePath: "super/flaky.test.js", FullName: "some.thing should be flaky", Recovered: true,
				FailureMessages: []string{"\x1b[31mError: Random Flaky Error\x1b[39m\n    at demo (demo.js:23:11)"}},
			{FilePath: "src/api/client.test.ts", FullName: "client [retries] on timeout"},
		},
	}
}

func TestFormatter_PrintMetaStats(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	f := NewFormatter(config.New())
	f.SetOutput(&buf)

	f.PrintMetaStats(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "Recovered On Retry")
	assert.Contains(t, out, "3.25s")
	assert.Contains(t, out, "✓ All tests passed! (1 known flaky test case(s) recovered on retry)")
	assert.Contains(t, out, "└── super")
	assert.Contains(t, out, "✓ some.thing should be flaky")
	assert.Contains(t, out, "✗ client [retries] on timeout")
}

func TestFormatter_PrintMetaStatsFailed(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	f := NewFormatter(config.New())
	f.SetOutput(&buf)

	report := &domain.RetryReport{Meta: domain.RetryReportMeta{FailedTestSuites: 1, FailedTestCases: 2}}
	f.PrintMetaStats(report)

	assert.Contains(t, buf.String(), "✗ 1 test suite(s) failed with 2 test case failure(s)")
	assert.NotContains(t, buf.String(), "Retried test cases")
}

func TestFormatter_PrintTestList(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	f := NewFormatter(config.New())
	f.SetOutput(&buf)

	f.PrintTestList([]string{"src/cart.test.js", "super/flaky.test.js"}, map[string]struct{}{"super/flaky.test.js": {}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Found 2 test file(s):", lines[0])
	assert.Equal(t, "├── src/cart.test.js", lines[2])
	assert.Equal(t, "└── super/flaky.test.js [F]", lines[3])
}

func TestFormatter_PrintStaleDeclarations(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	f := NewFormatter(config.New())
	f.SetOutput(&buf)

	f.PrintStaleDeclarations([]domain.FlakyDeclaration{{TestFilePath: "gone.test.js"}})
	assert.Contains(t, buf.String(), "gone.test.js :: (all test cases)")

	buf.Reset()
	f.PrintStaleDeclarations(nil)
	assert.Contains(t, buf.String(), "jest.flakyRetry.json")
}

func TestFormatCaseDetails(t *testing.T) {
	details := formatCaseDetails(sampleReport().Details[0])

	assert.Contains(t, details, "Recovered on retry")
	assert.Contains(t, details, "Error: Random Flaky Error")
	assert.NotContains(t, details, "\x1b[")

	stuck := formatCaseDetails(sampleReport().Details[1])
	assert.Contains(t, stuck, "Still failing after retry")
	assert.Contains(t, stuck, "No failure message recorded")
	assert.Contains(t, stuck, "client [retries[] on timeout", "brackets must be escaped for tview")
}

func TestFormatCaseDetails_TruncatesLongMessages(t *testing.T) {
	msg := strings.Repeat("line\n", maxMessageLines+10)
	details := formatCaseDetails(domain.RetriedCase{FullName: "x", FailureMessages: []string{msg}})
	assert.Contains(t, details, "... and 11 more lines")
}

func TestHeaderText(t *testing.T) {
	report := sampleReport()
	report.Details[1].Resolved = true
	assert.Contains(t, headerText(report), "2 total, 1 recovered, 1 unresolved")
}

type memoryStorage struct {
	saves int
	err   error
}

func (m *memoryStorage) Save(*domain.RetryReport) error {
	m.saves++
	return m.err
}

func (m *memoryStorage) Load() (*domain.RetryReport, error) {
	return nil, errors.New("not implemented")
}

func TestRetryViewer_ToggleResolved(t *testing.T) {
	st := &memoryStorage{}
	rv := NewRetryViewer(st)
	report := sampleReport()

	require.NoError(t, rv.ToggleResolved(report, 1))
	assert.True(t, report.Details[1].Resolved)
	assert.Contains(t, listItemText(report.Details[1], 1), "[gray]")

	require.NoError(t, rv.ToggleResolved(report, 1))
	assert.False(t, report.Details[1].Resolved)
	assert.Equal(t, 2, st.saves)

	require.NoError(t, rv.ToggleResolved(report, 5))
	assert.Equal(t, 2, st.saves)

	st.err = errors.New("read-only")
	assert.Error(t, rv.ToggleResolved(report, 0))
}
