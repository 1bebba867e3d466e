// Package report renders a run result as a JUnit XML document.
package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/acarl005/stripansi"

	"jfr/internal/config"
	"jfr/internal/domain"
)

const suitesName = "jest tests"

// JUnitTestSuites represents the root element of JUnit XML.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents a test suite in JUnit XML.
type JUnitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Errors    int             `xml:"errors,attr"`
	Failures  int             `xml:"failures,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	Time      float64         `xml:"time,attr"`
	Tests     int             `xml:"tests,attr"`
	File      string          `xml:"file,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single test case in JUnit XML.
type JUnitTestCase struct {
	Classname string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitFailure `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a test failure or error.
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents a skipped test.
type JUnitSkipped struct{}

// Writer generates the JUnit report and moves it into the output directory
type Writer struct {
	config *config.Config
}

// NewWriter creates a new Writer
func NewWriter(cfg *config.Config) *Writer {
	return &Writer{config: cfg}
}

// Report renders results to the generation path and relocates the file into
// the configured output directory, creating it if needed. It returns the
// final location.
func (w *Writer) Report(results *domain.RunResult) (string, error) {
	data, err := Render(results, w.config.GetRootDir())
	if err != nil {
		return "", err
	}

	generated := w.config.GetJUnitFilePath()
	if err := os.WriteFile(generated, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", generated, err)
	}

	outputDir := w.config.GetJUnitOutputDir()
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create junit output directory: %w", err)
	}

	final := filepath.Join(outputDir, w.config.JUnitFileName)
	if err := os.Rename(generated, final); err != nil {
		return "", fmt.Errorf("move %s to %s: %w", generated, final, err)
	}
	return final, nil
}

// Render converts results into an indented JUnit XML document. Suite names are
// made relative to rootDir.
func Render(results *domain.RunResult, rootDir string) ([]byte, error) {
	doc := JUnitTestSuites{
		Name:     suitesName,
		Tests:    results.NumTotalTests,
		Failures: results.NumFailedTests,
		Errors:   results.NumRuntimeErrorTestSuites,
	}

	for _, suite := range results.TestResults {
		s := convertSuite(suite, rootDir)
		doc.Time += s.Time
		doc.TestSuites = append(doc.TestSuites, s)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal junit report: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func convertSuite(suite domain.TestSuiteResult, rootDir string) JUnitTestSuite {
	name := suite.TestFilePath
	if rel, err := filepath.Rel(rootDir, suite.TestFilePath); err == nil && !strings.HasPrefix(rel, "..") {
		name = filepath.ToSlash(rel)
	}

	s := JUnitTestSuite{
		Name:     name,
		File:     suite.TestFilePath,
		Failures: suite.NumFailingTests,
		Skipped:  suite.NumPendingTests + suite.NumTodoTests,
		Tests:    len(suite.TestResults),
	}
	if suite.StartTime > 0 {
		s.Timestamp = time.UnixMilli(suite.StartTime).UTC().Format("2006-01-02T15:04:05")
		if suite.EndTime >= suite.StartTime {
			s.Time = float64(suite.EndTime-suite.StartTime) / 1000
		}
	}

	// A file that failed to run has no cases; report its error as one case
	if len(suite.TestResults) == 0 && suite.FailureMessage != "" {
		s.Errors = 1
		s.Tests = 1
		s.TestCases = append(s.TestCases, JUnitTestCase{
			Classname: "Test suite failed to run",
			Name:      "Test suite failed to run",
			Error:     &JUnitFailure{Content: stripansi.Strip(suite.FailureMessage)},
		})
		return s
	}

	for _, tc := range suite.TestResults {
		c := JUnitTestCase{
			Classname: tc.FullName,
			Name:      tc.FullName,
			Time:      float64(tc.Duration) / 1000,
		}
		switch tc.Status {
		case domain.StatusFailed:
			content := stripansi.Strip(strings.Join(tc.FailureMessages, "\n"))
			c.Failure = &JUnitFailure{Message: firstLine(content), Content: content}
		case domain.StatusPassed:
		default:
			c.Skipped = &JUnitSkipped{}
		}
		s.TestCases = append(s.TestCases, c)
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
