package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jfr/internal/cli"
	"jfr/internal/config"
	"jfr/internal/domain"
	"jfr/internal/retry"
)

// fakeJest writes $FIRST_RESULT for a full run and $RERUN_RESULT when it is
// asked to filter by test name.
const fakeJest = `#!/bin/sh
out=""
result="$FIRST_RESULT"
while [ $# -gt 0 ]; do
  case "$1" in
    --outputFile) out="$2"; shift ;;
    --testNamePattern) result="$RERUN_RESULT"; printf '%s\n' "$2" > "$PATTERN_FILE"; shift ;;
  esac
  shift
done
echo "FAIL super/flaky.test.js"
cat "$result" > "$out"
exit 1
`

const firstResult = `{
  "numFailedTestSuites": 1, "numFailedTests": 1, "numPassedTestSuites": 1, "numPassedTests": 2,
  "numTotalTestSuites": 2, "numTotalTests": 3, "success": false,
  "testResults": [
    {"name": "__ROOT__/super/flaky.test.js", "status": "failed", "assertionResults": [
      {"fullName": "some.thing should pass", "status": "passed", "failureMessages": []},
      {"fullName": "some.thing should be flaky", "status": "failed", "failureMessages": ["Error: Random Flaky Error\n    at flaky (flaky.test.js:3:9)"]}
    ]},
    {"name": "__ROOT__/other.test.js", "status": "passed", "assertionResults": [
      {"fullName": "other passes", "status": "passed", "failureMessages": []}
    ]}
  ]
}`

const rerunTemplate = `{
  "numFailedTestSuites": __FAILED__, "numFailedTests": __FAILED__, "numPassedTestSuites": __PASSED__, "numPassedTests": __PASSED__,
  "numPendingTests": 1, "numTotalTestSuites": 1, "numTotalTests": 2,
  "testResults": [
    {"name": "__ROOT__/super/flaky.test.js", "status": "__STATUS__", "assertionResults": [
      {"fullName": "some.thing should pass", "status": "pending", "failureMessages": []},
      {"fullName": "some.thing should be flaky", "status": "__STATUS__", "failureMessages": []}
    ]}
  ]
}`

const catalog = `[{"testFilePath": "super/flaky.test.js", "failureMessages": ["Error: Random Flaky Error"]}]`

func setupProject(t *testing.T, rerunStatus domain.Status) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake host runner is a shell script")
	}

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0755))
		return path
	}

	passed, failed := "1", "0"
	if rerunStatus != domain.StatusPassed {
		passed, failed = "0", "1"
	}
	rerun := strings.NewReplacer("__PASSED__", passed, "__FAILED__", failed, "__STATUS__", string(rerunStatus)).Replace(rerunTemplate)

	write("super/flaky.test.js", "test('flaky', () => {})")
	write("other.test.js", "test('other', () => {})")
	write("jest.flakyRetry.json", catalog)
	script := write("fakejest.sh", fakeJest)

	fixtures := t.TempDir()
	first := filepath.Join(fixtures, "first.json")
	second := filepath.Join(fixtures, "rerun.json")
	require.NoError(t, os.WriteFile(first, []byte(strings.ReplaceAll(firstResult, "__ROOT__", dir)), 0644))
	require.NoError(t, os.WriteFile(second, []byte(strings.ReplaceAll(rerun, "__ROOT__", dir)), 0644))

	t.Setenv("FIRST_RESULT", first)
	t.Setenv("RERUN_RESULT", second)
	t.Setenv("PATTERN_FILE", filepath.Join(fixtures, "pattern.txt"))
	t.Setenv("JFR_COMMAND", "sh "+script)
	return dir
}

func execute(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	cfg := config.New()
	var flags cli.Flags
	rootCmd := &cobra.Command{Use: "jfr", SilenceUsage: true, SilenceErrors: true}
	NewCommands(cfg).Register(rootCmd, &flags, cfg)
	rootCmd.SetArgs(args)
	return cfg, rootCmd.Execute()
}

func TestRun_FlakyFailureRecovers(t *testing.T) {
	dir := setupProject(t, domain.StatusPassed)

	cfg, err := execute(t, "run", "--project", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProjectPath)

	pattern, err := os.ReadFile(os.Getenv("PATTERN_FILE"))
	require.NoError(t, err)
	assert.Equal(t, `^(?:some\.thing should be flaky)$`, strings.TrimSpace(string(pattern)))

	assert.FileExists(t, filepath.Join(dir, "build", "results", "unit", "junit.xml"))
	assert.NoFileExists(t, filepath.Join(dir, "junit.xml"))

	data, err := os.ReadFile(filepath.Join(dir, "storage", "flaky-results.json"))
	require.NoError(t, err)
	var report domain.RetryReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.True(t, report.Meta.Success)
	assert.Equal(t, 1, report.Meta.RecoveredTestCases)
	require.Len(t, report.Details, 1)
	assert.Equal(t, "super/flaky.test.js", report.Details[0].FilePath)
}

func TestRun_FlakyFailureStillFails(t *testing.T) {
	dir := setupProject(t, domain.StatusFailed)

	_, err := execute(t, "run", "--project", dir, "--junit-output-dir", "reports")
	assert.ErrorIs(t, err, retry.ErrRunFailed)
	assert.FileExists(t, filepath.Join(dir, "reports", "junit.xml"))
}

func TestRun_MissingCatalogIsFatal(t *testing.T) {
	dir := setupProject(t, domain.StatusPassed)

	_, err := execute(t, "run", "--project", dir, "--config-file", "missing.json")
	require.Error(t, err)
	assert.NoFileExists(t, os.Getenv("PATTERN_FILE"))
	assert.NoFileExists(t, filepath.Join(dir, "build", "results", "unit", "junit.xml"))
}

func TestList(t *testing.T) {
	dir := setupProject(t, domain.StatusPassed)

	cfg, err := execute(t, "list", "--project", dir, "--filter", "*flaky*")
	require.NoError(t, err)
	assert.Equal(t, "*flaky*", cfg.Flags.NameFilter)

	_, err = execute(t, "list", "--project", dir, "--stale")
	require.NoError(t, err)
}

func TestList_IgnoresPathsFromLoadedConfig(t *testing.T) {
	dir := setupProject(t, domain.StatusPassed)
	t.Setenv("JFR_PATHS_TO_IGNORE", "super")

	cfg := config.New()
	var flags cli.Flags
	c := NewCommands(cfg)
	var buf bytes.Buffer
	c.List.formatter.SetOutput(&buf)

	rootCmd := &cobra.Command{Use: "jfr", SilenceUsage: true, SilenceErrors: true}
	c.Register(rootCmd, &flags, cfg)
	rootCmd.SetArgs([]string{"list", "--project", dir})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, []string{"super"}, cfg.PathsToIgnore)
	assert.Contains(t, buf.String(), "other.test.js")
	assert.NotContains(t, buf.String(), "super/flaky.test.js")
}

func TestFlags_ToConfigFlags(t *testing.T) {
	flags := cli.Flags{ProjectPath: "app", ConfigFile: "flaky.yaml", RecordHistory: true, Debug: true}
	got := flags.ToConfigFlags()

	assert.Equal(t, config.Flags{ProjectPath: "app", ConfigFile: "flaky.yaml", RecordHistory: true, Debug: true}, got)
}
