package flaky

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jfr/internal/domain"
)

func TestLoadCatalog_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jest.flakyRetry.json")
	content := `[
  {"testFilePath": "demo/demo.unit.test.js", "fullName": "demo should fail on first test run and succeed on subsequent run"},
  {"testFilePath": "demo/other.unit.test.js", "failureMessages": ["Error: Random Flaky Error"]},
  {"testFilePath": "demo/empty.unit.test.js", "failureMessages": []}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	catalog, issues, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, catalog, 3)

	assert.Equal(t, "demo/demo.unit.test.js", catalog[0].TestFilePath)
	assert.Nil(t, catalog[0].FailureMessages, "absent failureMessages must stay nil")
	assert.Equal(t, []string{"Error: Random Flaky Error"}, catalog[1].FailureMessages)
	assert.NotNil(t, catalog[2].FailureMessages, "explicit empty list must stay non-nil")
	assert.Empty(t, catalog[2].FailureMessages)
}

func TestLoadCatalog_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flaky.yaml")
	content := `- testFilePath: super/flaky.test.js
  fullName: super.flaky should do everything right
  failureMessages:
    - Some weird error
- testFilePath: super/other.test.js
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	catalog, _, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.FlakyDeclaration{
		{
			TestFilePath:    "super/flaky.test.js",
			FullName:        "super.flaky should do everything right",
			FailureMessages: []string{"Some weird error"},
		},
		{TestFilePath: "super/other.test.js"},
	}, catalog)
}

func TestLoadCatalog_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadCatalog(filepath.Join(dir, "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"testFilePath": `), 0644))
		_, _, err := LoadCatalog(path)
		assert.Error(t, err)
	})

	t.Run("object instead of list", func(t *testing.T) {
		path := filepath.Join(dir, "object.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"testFilePath": "a.test.js"}`), 0644))
		_, _, err := LoadCatalog(path)
		assert.Error(t, err)
	})

	t.Run("yaml mapping instead of list", func(t *testing.T) {
		path := filepath.Join(dir, "object.yaml")
		require.NoError(t, os.WriteFile(path, []byte("testFilePath: a.test.js\n"), 0644))
		_, _, err := LoadCatalog(path)
		assert.Error(t, err)
	})
}

func TestLoadCatalog_MalformedDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.json")
	content := `[
  {"testFilePath": "a.test.js"},
  {"testFilePath": 42},
  "b.test.js",
  {"fullName": "no path"},
  {"testFilePath": "c.test.js", "fullName": 7, "failureMessages": "Error: boom"},
  {"testFilePath": "d.test.js", "failureMessages": ["Error: boom", 3]}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	catalog, issues, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, []domain.FlakyDeclaration{
		{TestFilePath: "a.test.js"},
		{TestFilePath: "c.test.js"},
		{TestFilePath: "d.test.js", FailureMessages: []string{"Error: boom"}},
	}, catalog)

	require.Len(t, issues, 6)
	assert.Equal(t, "entry 1: testFilePath is a number, not a string; entry ignored", issues[0].String())
	assert.Equal(t, "entry 2: is a string, not an object; entry ignored", issues[1].String())
	assert.Equal(t, "entry 3: testFilePath is missing; entry ignored", issues[2].String())
	assert.Equal(t, "fullName", issues[3].Field)
	assert.Equal(t, "failureMessages", issues[4].Field)
	assert.Equal(t, "failureMessages[1]", issues[5].Field)

	failed := domain.TestCaseOutcome{FullName: "x", Status: domain.StatusFailed, FailureMessages: []string{"anything"}}
	assert.True(t, IsKnownToBeFlaky(catalog, "a.test.js", failed), "well-formed sibling still matches")
	assert.True(t, IsKnownToBeFlaky(catalog, "c.test.js", failed), "mistyped fields fall through to not required")
	assert.False(t, IsKnownToBeFlaky(catalog, "42", failed), "mistyped path never matches")
	assert.False(t, IsKnownToBeFlaky(catalog, "b.test.js", failed))
}

func TestParseCatalog_MalformedYAML(t *testing.T) {
	content := `- testFilePath: 42
- testFilePath: super/flaky.test.js
  fullName: [not, a, string]
`
	catalog, issues, err := ParseCatalog([]byte(content), ".yml")
	require.NoError(t, err)
	assert.Equal(t, []domain.FlakyDeclaration{{TestFilePath: "super/flaky.test.js"}}, catalog)
	require.Len(t, issues, 2)
	assert.Contains(t, issues[1].String(), "fullName is a list")
}

func TestStale(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "super"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "super", "flaky.test.js"), []byte("test"), 0644))

	catalog := []domain.FlakyDeclaration{
		{TestFilePath: "super/flaky.test.js"},
		{TestFilePath: "super/gone.test.js"},
	}

	stale := Stale(catalog, dir)
	require.Len(t, stale, 1)
	assert.Equal(t, "super/gone.test.js", stale[0].TestFilePath)

	files := Files(catalog)
	assert.Contains(t, files, "super/flaky.test.js")
	assert.Contains(t, files, "super/gone.test.js")
}
