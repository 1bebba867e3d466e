package retry

import (
	"time"

	"jfr/internal/domain"
)

// BuildReport summarises a run and its retry pass. original is the first-run
// result, final the merged one.
func BuildReport(original, final *domain.RunResult, candidates []domain.RetryCandidate, duration time.Duration, at time.Time) *domain.RetryReport {
	report := &domain.RetryReport{
		Meta: domain.RetryReportMeta{
			TotalTestSuites:     final.NumTotalTestSuites,
			FailedTestSuites:    final.NumFailedTestSuites,
			PassedTestSuites:    final.NumPassedTestSuites,
			TotalTestCases:      final.NumTotalTests,
			FailedTestCases:     final.NumFailedTests,
			FirstRunFailedCases: original.NumFailedTests,
			RetriedTestCases:    len(candidates),
			Success:             final.Success,
			Duration:            duration.Round(time.Millisecond).String(),
			DurationSeconds:     duration.Seconds(),
			Timestamp:           at.UTC().Format(time.RFC3339),
		},
		Details: make([]domain.RetriedCase, 0, len(candidates)),
	}

	for _, c := range candidates {
		ok := isRecovered(final, c)
		if ok {
			report.Meta.RecoveredTestCases++
		}
		report.Details = append(report.Details, domain.RetriedCase{
			FilePath:        c.RelativeTestFilePath,
			FullName:        c.Outcome.FullName,
			FailureMessages: c.Outcome.FailureMessages,
			Recovered:       ok,
		})
	}
	return report
}

func isRecovered(final *domain.RunResult, c domain.RetryCandidate) bool {
	suite, ok := final.Suite(c.TestFilePath)
	if !ok {
		return false
	}
	for _, tc := range suite.TestResults {
		if tc.FullName == c.Outcome.FullName && tc.Status == domain.StatusPassed {
			return true
		}
	}
	return false
}
