package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"jfr/internal/domain"
)

// JestParser parses the artifact Jest writes with --json --outputFile
type JestParser struct{}

// NewJestParser creates a new JestParser
func NewJestParser() *JestParser {
	return &JestParser{}
}

// Parse reads the Jest JSON output at artifactPath
func (p *JestParser) Parse(artifactPath string) (*domain.RunResult, error) {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return nil, &ParseError{
			File:    artifactPath,
			Message: fmt.Sprintf("failed to read file: %v", err),
			Action:  "Ensure Jest completed and produced output. Check that --outputFile was used correctly.",
		}
	}

	if len(data) == 0 {
		return nil, &ParseError{
			File:    artifactPath,
			Message: "file is empty",
			Action:  "Ensure Jest completed successfully. The JSON output file should not be empty.",
		}
	}

	return p.ParseBytes(artifactPath, data)
}

// ParseBytes converts raw Jest JSON output. name is only used in errors.
func (p *JestParser) ParseBytes(name string, data []byte) (*domain.RunResult, error) {
	var output JestOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, &ParseError{
			File:    name,
			Message: fmt.Sprintf("invalid JSON: %v", err),
			Action:  "Ensure Jest produced valid JSON output. The file may be corrupted or incomplete.",
		}
	}

	result := &domain.RunResult{
		TestResults:               make([]domain.TestSuiteResult, 0, len(output.TestResults)),
		NumPassedTests:            output.NumPassedTests,
		NumFailedTests:            output.NumFailedTests,
		NumPendingTests:           output.NumPendingTests,
		NumTodoTests:              output.NumTodoTests,
		NumTotalTests:             output.NumTotalTests,
		NumPassedTestSuites:       output.NumPassedTestSuites,
		NumFailedTestSuites:       output.NumFailedTestSuites,
		NumPendingTestSuites:      output.NumPendingTestSuites,
		NumRuntimeErrorTestSuites: output.NumRuntimeErrorTestSuites,
		NumTotalTestSuites:        output.NumTotalTestSuites,
		StartTime:                 output.StartTime,
		Success:                   output.Success,
	}

	for i, suite := range output.TestResults {
		if suite.Name == "" {
			return nil, &ParseError{
				File:    name,
				Message: fmt.Sprintf("testResults[%d].name is missing or empty", i),
				Action:  "Jest output is malformed. Each test result must have a 'name' field containing the file path.",
			}
		}

		suiteResult, err := convertSuite(name, i, suite)
		if err != nil {
			return nil, err
		}
		result.TestResults = append(result.TestResults, suiteResult)
	}

	return result, nil
}

// convertSuite maps one Jest test file result and derives its counters from
// the case statuses, since the JSON output does not carry them per file.
func convertSuite(name string, index int, suite TestSuite) (domain.TestSuiteResult, error) {
	result := domain.TestSuiteResult{
		TestFilePath:   suite.Name,
		Status:         domain.Status(suite.Status),
		FailureMessage: suite.Message,
		StartTime:      suite.StartTime,
		EndTime:        suite.EndTime,
	}

	if len(suite.AssertionResults) > 0 {
		result.TestResults = make([]domain.TestCaseOutcome, 0, len(suite.AssertionResults))
	}

	for j, assertion := range suite.AssertionResults {
		if assertion.Status == "" {
			return domain.TestSuiteResult{}, &ParseError{
				File:    name,
				Message: fmt.Sprintf("testResults[%d].assertionResults[%d].status is missing or empty", index, j),
				Action:  "Jest output is malformed. Each assertion result must have a 'status' field.",
			}
		}

		outcome := domain.TestCaseOutcome{
			FullName:        assertion.FullName,
			Title:           assertion.Title,
			AncestorTitles:  assertion.AncestorTitles,
			Status:          domain.Status(assertion.Status),
			FailureMessages: assertion.FailureMessages,
			Duration:        assertion.Duration,
		}
		if len(outcome.FailureMessages) == 0 {
			outcome.FailureMessages = nil
		}

		switch outcome.Status {
		case domain.StatusPassed:
			result.NumPassingTests++
		case domain.StatusFailed:
			result.NumFailingTests++
		case domain.StatusTodo:
			result.NumTodoTests++
		default:
			result.NumPendingTests++
		}

		result.TestResults = append(result.TestResults, outcome)
	}

	return result, nil
}

// JestOutput represents the top-level Jest JSON output structure.
type JestOutput struct {
	NumFailedTestSuites       int         `json:"numFailedTestSuites"`
	NumFailedTests            int         `json:"numFailedTests"`
	NumPassedTestSuites       int         `json:"numPassedTestSuites"`
	NumPassedTests            int         `json:"numPassedTests"`
	NumPendingTestSuites      int         `json:"numPendingTestSuites"`
	NumPendingTests           int         `json:"numPendingTests"`
	NumRuntimeErrorTestSuites int         `json:"numRuntimeErrorTestSuites"`
	NumTodoTests              int         `json:"numTodoTests"`
	NumTotalTestSuites        int         `json:"numTotalTestSuites"`
	NumTotalTests             int         `json:"numTotalTests"`
	StartTime                 int64       `json:"startTime"`
	Success                   bool        `json:"success"`
	TestResults               []TestSuite `json:"testResults"`
	WasInterrupted            bool        `json:"wasInterrupted"`
}

// TestSuite represents a Jest test file result.
type TestSuite struct {
	AssertionResults []AssertionResult `json:"assertionResults"`
	EndTime          int64             `json:"endTime"`
	Message          string            `json:"message"`
	Name             string            `json:"name"`
	StartTime        int64             `json:"startTime"`
	Status           string            `json:"status"`
}

// AssertionResult represents a single Jest test case.
type AssertionResult struct {
	AncestorTitles  []string `json:"ancestorTitles"`
	Duration        int64    `json:"duration"`
	FailureMessages []string `json:"failureMessages"`
	FullName        string   `json:"fullName"`
	Status          string   `json:"status"`
	Title           string   `json:"title"`
}

// ParseError provides actionable error information for parsing failures.
type ParseError struct {
	File    string
	Message string
	Action  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s. %s", e.File, e.Message, e.Action)
}
