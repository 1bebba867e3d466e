// Package merge folds the outcome of a rerun back into the original run.
package merge

import "jfr/internal/domain"

// Results returns a copy of original where every test case that passed in
// rerun replaces its original outcome, with suite and run counters moved from
// failing to passing accordingly. Neither argument is modified.
//
// The counter arithmetic assumes rerun only contains previously failed cases,
// so that its passing counts equal the number of cases that flipped from
// failed to passed. The rerun filters names across all rerun files at once,
// so a retried name that also labels an already-passing case in another
// rerun file is counted there as well; that case is over-counted, not
// corrected here. Success is left as it was in original.
func Results(original, rerun *domain.RunResult) *domain.RunResult {
	merged := original.Clone()
	if merged == nil {
		return nil
	}
	if rerun == nil {
		return merged
	}

	for i := range merged.TestResults {
		suite := &merged.TestResults[i]

		rerunSuite, ok := rerun.Suite(suite.TestFilePath)
		if !ok {
			continue
		}

		for j, tc := range suite.TestResults {
			if passed, ok := findPassed(rerunSuite.TestResults, tc.FullName); ok {
				suite.TestResults[j] = passed.Clone()
			}
		}

		suite.NumPassingTests += rerunSuite.NumPassingTests
		suite.NumFailingTests -= rerunSuite.NumPassingTests
	}

	merged.NumPassedTests += rerun.NumPassedTests
	merged.NumFailedTests -= rerun.NumPassedTests
	merged.NumPassedTestSuites += rerun.NumPassedTestSuites
	merged.NumFailedTestSuites -= rerun.NumPassedTestSuites

	return merged
}

// findPassed returns the first case named fullName that passed.
func findPassed(cases []domain.TestCaseOutcome, fullName string) (domain.TestCaseOutcome, bool) {
	for _, tc := range cases {
		if tc.FullName == fullName && tc.Status == domain.StatusPassed {
			return tc, true
		}
	}
	return domain.TestCaseOutcome{}, false
}
