package execution

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/acarl005/stripansi"

	"jfr/internal/config"
	"jfr/internal/domain"
	"jfr/internal/logger"
	"jfr/internal/parser"
	"jfr/internal/ui"
)

// Runner executes the host test runner (Jest) as a subprocess
type Runner struct {
	config       *config.Config
	parser       parser.Parser
	log          *logger.Logger
	showProgress bool
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, p parser.Parser, log *logger.Logger) *Runner {
	return &Runner{
		config: cfg,
		parser: p,
		log:    log,
	}
}

// SetProgress enables a progress bar per host invocation
func (r *Runner) SetProgress(enabled bool) {
	r.showProgress = enabled
}

// Run executes the whole suite
func (r *Runner) Run(ctx context.Context) (*domain.RunResult, error) {
	return r.execute(ctx, "run", nil)
}

// Rerun executes exactly the given files, filtered to the given full names
func (r *Runner) Rerun(ctx context.Context, testFilePaths []string, fullNames []string) (*domain.RunResult, error) {
	if len(testFilePaths) == 0 || len(fullNames) == 0 {
		return nil, fmt.Errorf("rerun requires at least one test file and one test name")
	}

	args := []string{"--testNamePattern", TestNamePattern(fullNames), "--runTestsByPath"}
	args = append(args, testFilePaths...)

	return r.execute(ctx, "rerun", args)
}

// BuildCommand returns the host command with JSON output to artifactPath and
// the extra arguments appended.
func (r *Runner) BuildCommand(artifactPath string, extra []string) []string {
	if len(r.config.Command) == 0 {
		return nil
	}

	// Copy command to avoid mutation
	result := make([]string, len(r.config.Command), len(r.config.Command)+len(extra)+3)
	copy(result, r.config.Command)

	result = append(result, "--json", "--outputFile", artifactPath)
	return append(result, extra...)
}

// TestNamePattern builds an anchored pattern matching exactly one of the
// given full names. Names are quoted so that they match literally.
func TestNamePattern(fullNames []string) string {
	seen := make(map[string]bool, len(fullNames))
	quoted := make([]string, 0, len(fullNames))
	for _, name := range fullNames {
		if seen[name] {
			continue
		}
		seen[name] = true
		quoted = append(quoted, regexp.QuoteMeta(name))
	}
	return "^(?:" + strings.Join(quoted, "|") + ")$"
}

func (r *Runner) execute(ctx context.Context, label string, extra []string) (*domain.RunResult, error) {
	runDir := r.config.GetRunDir()
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("create run directory %s: %w", runDir, err)
	}

	artifactPath, err := filepath.Abs(filepath.Join(runDir, label+".json"))
	if err != nil {
		return nil, fmt.Errorf("resolve artifact path: %w", err)
	}
	// A leftover artifact from an earlier invocation must never be parsed
	if err := os.Remove(artifactPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale artifact %s: %w", artifactPath, err)
	}

	cmdArgs := r.BuildCommand(artifactPath, extra)
	if len(cmdArgs) == 0 {
		return nil, fmt.Errorf("host test command is empty")
	}
	r.log.Debugf("Executing %s", strings.Join(cmdArgs, " "))

	logFile, err := os.Create(filepath.Join(runDir, label+".log"))
	if err != nil {
		return nil, fmt.Errorf("create %s.log: %w", label, err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)
	cmd.Env = os.Environ()
	cmd.Dir = r.config.ProjectPath

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmdArgs[0], err)
	}

	var out io.Writer = logFile
	if r.log.Verbose() {
		out = io.MultiWriter(logFile, os.Stderr)
	}

	var progress *ui.ProgressBar
	if r.showProgress {
		progress = ui.NewProgressBar(-1, label)
	}

	var mu sync.Mutex
	var passed, failed int
	processLine := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, line)

		// Jest reports one PASS/FAIL line per completed test file
		switch trimmed := strings.TrimSpace(stripansi.Strip(line)); {
		case strings.HasPrefix(trimmed, "PASS "):
			passed++
		case strings.HasPrefix(trimmed, "FAIL "):
			failed++
		default:
			return
		}
		if progress != nil {
			progress.Update(passed, failed)
		}
	}

	var scanWg sync.WaitGroup
	for _, pipe := range []io.Reader{stdout, stderr} {
		scanWg.Add(1)
		go func(pipe io.Reader) {
			defer scanWg.Done()
			scanner := bufio.NewScanner(pipe)
			scanner.Buffer(make([]byte, 64*1024), 1024*1024)
			for scanner.Scan() {
				processLine(scanner.Text())
			}
		}(pipe)
	}

	// Pipes must be drained before Wait closes them
	scanWg.Wait()
	// Note: a non-zero exit is expected whenever tests fail
	waitErr := cmd.Wait()

	if progress != nil {
		progress.Finish()
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s interrupted: %w", label, ctx.Err())
	}

	if _, err := os.Stat(artifactPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("expected artifact not found: %s (exit: %v). Ensure the test command is Jest and accepts --json --outputFile", artifactPath, waitErr)
	}

	result, err := r.parser.Parse(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s results: %w", label, err)
	}
	return result, nil
}
