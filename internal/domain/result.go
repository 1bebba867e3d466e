package domain

// Status is the outcome of a single test case as reported by the host runner
type Status string

const (
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
	StatusPending  Status = "pending"
	StatusTodo     Status = "todo"
	StatusDisabled Status = "disabled"
	StatusFocused  Status = "focused"
)

// TestCaseOutcome represents the result of one executed test case
type TestCaseOutcome struct {
	FullName        string   `json:"fullName"`
	Title           string   `json:"title,omitempty"`
	AncestorTitles  []string `json:"ancestorTitles,omitempty"`
	Status          Status   `json:"status"`
	FailureMessages []string `json:"failureMessages,omitempty"`
	Duration        int64    `json:"duration,omitempty"` // milliseconds
}

// Clone returns a deep copy of the outcome
func (o TestCaseOutcome) Clone() TestCaseOutcome {
	c := o
	c.AncestorTitles = cloneStrings(o.AncestorTitles)
	c.FailureMessages = cloneStrings(o.FailureMessages)
	return c
}

// TestSuiteResult represents the aggregate result of one executed test file
type TestSuiteResult struct {
	TestFilePath    string            `json:"testFilePath"`
	Status          Status            `json:"status,omitempty"`
	FailureMessage  string            `json:"failureMessage,omitempty"`
	TestResults     []TestCaseOutcome `json:"testResults,omitempty"`
	NumPassingTests int               `json:"numPassingTests"`
	NumFailingTests int               `json:"numFailingTests"`
	NumPendingTests int               `json:"numPendingTests"`
	NumTodoTests    int               `json:"numTodoTests"`
	StartTime       int64             `json:"startTime,omitempty"`
	EndTime         int64             `json:"endTime,omitempty"`
}

// Clone returns a deep copy of the suite result
func (s TestSuiteResult) Clone() TestSuiteResult {
	c := s
	if s.TestResults != nil {
		c.TestResults = make([]TestCaseOutcome, len(s.TestResults))
		for i, tc := range s.TestResults {
			c.TestResults[i] = tc.Clone()
		}
	}
	return c
}

// RunResult represents the aggregate result of a full run
type RunResult struct {
	TestResults               []TestSuiteResult `json:"testResults"`
	NumPassedTests            int               `json:"numPassedTests"`
	NumFailedTests            int               `json:"numFailedTests"`
	NumPendingTests           int               `json:"numPendingTests"`
	NumTodoTests              int               `json:"numTodoTests"`
	NumTotalTests             int               `json:"numTotalTests"`
	NumPassedTestSuites       int               `json:"numPassedTestSuites"`
	NumFailedTestSuites       int               `json:"numFailedTestSuites"`
	NumPendingTestSuites      int               `json:"numPendingTestSuites"`
	NumRuntimeErrorTestSuites int               `json:"numRuntimeErrorTestSuites"`
	NumTotalTestSuites        int               `json:"numTotalTestSuites"`
	StartTime                 int64             `json:"startTime,omitempty"`
	Success                   bool              `json:"success"`
}

// Clone returns a deep copy of the run result
func (r *RunResult) Clone() *RunResult {
	if r == nil {
		return nil
	}
	c := *r
	if r.TestResults != nil {
		c.TestResults = make([]TestSuiteResult, len(r.TestResults))
		for i, s := range r.TestResults {
			c.TestResults[i] = s.Clone()
		}
	}
	return &c
}

// Suite returns the suite result for the given file path, if present
func (r *RunResult) Suite(testFilePath string) (*TestSuiteResult, bool) {
	for i := range r.TestResults {
		if r.TestResults[i].TestFilePath == testFilePath {
			return &r.TestResults[i], true
		}
	}
	return nil, false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
