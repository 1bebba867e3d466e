package domain

// RetriedCase is one test case that was retried because it is known to be flaky
type RetriedCase struct {
	FilePath        string   `json:"file_path"`
	FullName        string   `json:"full_name"`
	FailureMessages []string `json:"failure_messages"`
	Recovered       bool     `json:"recovered"`          // passed on rerun
	Resolved        bool     `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

// RetryReportMeta contains metadata about a run and its retry pass
type RetryReportMeta struct {
	TotalTestSuites     int     `json:"total_test_suites"`
	FailedTestSuites    int     `json:"failed_test_suites"`
	PassedTestSuites    int     `json:"passed_test_suites"`
	TotalTestCases      int     `json:"total_test_cases"`
	FailedTestCases     int     `json:"failed_test_cases"`
	FirstRunFailedCases int     `json:"first_run_failed_test_cases"`
	RetriedTestCases    int     `json:"retried_test_cases"`
	RecoveredTestCases  int     `json:"recovered_test_cases"`
	Success             bool    `json:"success"`
	Duration            string  `json:"duration"`
	DurationSeconds     float64 `json:"duration_seconds"`
	Timestamp           string  `json:"timestamp"`
}

// RetryReport is the complete persisted output of a run
type RetryReport struct {
	Meta    RetryReportMeta `json:"meta"`
	Details []RetriedCase   `json:"details"`
}
