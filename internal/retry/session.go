// Package retry drives one run of the suite: it collects failed cases that
// are known to be flaky, reruns exactly those once and merges the outcome.
package retry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"jfr/internal/config"
	"jfr/internal/domain"
	"jfr/internal/flaky"
	"jfr/internal/logger"
	"jfr/internal/merge"
	"jfr/internal/storage"
)

// ErrRunFailed is returned by LastError when the final verdict is red
var ErrRunFailed = errors.New("jfr reported an error")

// Host executes a filtered second pass of the suite
type Host interface {
	Rerun(ctx context.Context, testFilePaths []string, fullNames []string) (*domain.RunResult, error)
}

// Reporter publishes the final run result and returns where it was written
type Reporter interface {
	Report(results *domain.RunResult) (string, error)
}

// Session accumulates observations across one run
type Session struct {
	config   *config.Config
	host     Host
	reporter Reporter
	storage  storage.Storage
	recorder storage.Recorder
	log      *logger.Logger

	catalog     []domain.FlakyDeclaration
	candidates  []domain.RetryCandidate
	retrySuites []string
	shouldFail  bool

	startTime time.Time
	now       func() time.Time
	report    *domain.RetryReport
}

// NewSession creates a Session. store may be nil to skip the retry report.
func NewSession(cfg *config.Config, host Host, reporter Reporter, store storage.Storage, log *logger.Logger) *Session {
	return &Session{
		config:   cfg,
		host:     host,
		reporter: reporter,
		storage:  store,
		log:      log,
		now:      time.Now,
	}
}

// SetRecorder enables appending every report to the history database
func (s *Session) SetRecorder(rec storage.Recorder) {
	s.recorder = rec
}

// OnRunStart loads the flaky catalog. An error here must abort the run
// before any test executes.
func (s *Session) OnRunStart() error {
	s.startTime = s.now()

	path := s.config.GetConfigFilePath()
	s.log.Infof("Loading list of known flaky tests from %s", path)

	catalog, issues, err := flaky.LoadCatalog(path)
	if err != nil {
		s.shouldFail = true
		return err
	}
	for _, issue := range issues {
		s.log.Warnf("Malformed flaky declaration, %s", issue)
	}
	s.catalog = catalog
	s.log.Infof("Loaded %d known flaky test declaration(s)", len(catalog))

	for _, d := range catalog {
		s.log.Debugf("flaky: %s %q %q", d.TestFilePath, d.FullName, d.FailureMessages)
	}
	for _, d := range flaky.Stale(catalog, s.config.GetRootDir()) {
		s.log.Warnf("Flaky declaration refers to missing file %s", d.TestFilePath)
	}
	return nil
}

// OnTestResult records the failed cases of one suite that match the catalog
func (s *Session) OnTestResult(suite domain.TestSuiteResult) {
	rel := s.relativePath(suite.TestFilePath)

	matched := 0
	for _, tc := range suite.TestResults {
		if tc.Status != domain.StatusFailed {
			continue
		}
		if !flaky.IsKnownToBeFlaky(s.catalog, rel, tc) {
			continue
		}
		s.candidates = append(s.candidates, domain.RetryCandidate{
			TestFilePath:         suite.TestFilePath,
			RelativeTestFilePath: rel,
			Outcome:              tc.Clone(),
		})
		matched++
	}

	if matched > 0 {
		s.retrySuites = append(s.retrySuites, suite.TestFilePath)
		s.log.Verbosef("%s: %d known flaky failure(s)", rel, matched)
	}
}

// OnRunComplete reruns the collected candidates once, merges the outcome,
// sets the verdict and publishes the result. The returned result is the one
// handed to the reporter.
func (s *Session) OnRunComplete(ctx context.Context, results *domain.RunResult) (*domain.RunResult, error) {
	if results == nil {
		s.shouldFail = true
		return nil, fmt.Errorf("no run results to complete")
	}

	var final *domain.RunResult
	if len(s.candidates) > 0 {
		names := s.retryFullNames()
		s.log.Infof("Retrying test cases: %s", strings.Join(names, ", "))

		rerun, err := s.host.Rerun(ctx, s.retrySuites, names)
		if err != nil {
			s.shouldFail = true
			return nil, fmt.Errorf("rerun known flaky tests: %w", err)
		}
		final = merge.Results(results, rerun)
	} else {
		final = results.Clone()
	}

	final.Success = final.NumFailedTestSuites == 0
	s.shouldFail = !final.Success
	if final.Success && len(s.candidates) > 0 {
		s.log.Successf("Run passed after retrying %d known flaky test case(s)", len(s.candidates))
	}

	if s.reporter != nil {
		path, err := s.reporter.Report(final)
		if err != nil {
			s.shouldFail = true
			return final, fmt.Errorf("write junit report: %w", err)
		}
		s.log.Verbosef("JUnit report written to %s", path)
	}

	s.report = BuildReport(results, final, s.candidates, s.now().Sub(s.startTime), s.now())

	if s.storage != nil {
		if err := s.storage.Save(s.report); err != nil {
			s.log.Warnf("Failed to save retry report: %v", err)
		}
	}
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, s.report); err != nil {
			s.log.Warnf("Failed to record retry history: %v", err)
		}
	}

	return final, nil
}

// LastError reports whether the run must be considered failed
func (s *Session) LastError() error {
	if s.shouldFail {
		return ErrRunFailed
	}
	return nil
}

// Candidates returns the failed cases selected for the rerun
func (s *Session) Candidates() []domain.RetryCandidate {
	return s.candidates
}

// RetrySuites returns the suite paths selected for the rerun, in report order
func (s *Session) RetrySuites() []string {
	return s.retrySuites
}

// Report returns the retry report built by OnRunComplete
func (s *Session) Report() *domain.RetryReport {
	return s.report
}

func (s *Session) retryFullNames() []string {
	names := make([]string, 0, len(s.candidates))
	for _, c := range s.candidates {
		names = append(names, c.Outcome.FullName)
	}
	return names
}

// relativePath expresses a reported suite path relative to the project root
// with forward slashes, the form used by catalog declarations.
func (s *Session) relativePath(testFilePath string) string {
	if !filepath.IsAbs(testFilePath) {
		return filepath.ToSlash(testFilePath)
	}
	rel, err := filepath.Rel(s.config.GetRootDir(), testFilePath)
	if err != nil {
		return filepath.ToSlash(testFilePath)
	}
	return filepath.ToSlash(rel)
}
