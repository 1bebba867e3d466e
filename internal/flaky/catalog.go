package flaky

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"jfr/internal/domain"
)

// Issue describes a catalog entry, or one of its fields, that was ignored
// because it has the wrong shape.
type Issue struct {
	Index   int
	Field   string
	Message string
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("entry %d: %s", i.Index, i.Message)
	}
	return fmt.Sprintf("entry %d: %s %s", i.Index, i.Field, i.Message)
}

// LoadCatalog reads the known-flaky catalog from path. Files ending in .yaml
// or .yml are decoded as YAML, everything else as JSON.
func LoadCatalog(path string) ([]domain.FlakyDeclaration, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read flaky catalog %s: %w", path, err)
	}

	catalog, issues, err := ParseCatalog(data, filepath.Ext(path))
	if err != nil {
		return nil, nil, fmt.Errorf("parse flaky catalog %s: %w", path, err)
	}
	return catalog, issues, nil
}

// ParseCatalog decodes a catalog document. ext selects the format.
//
// Only a document that does not parse, or is not a sequence, is an error.
// Entries are read field by field: an entry without a string testFilePath
// can never match and is dropped, a mistyped fullName or failureMessages is
// treated as absent. Each of these is reported as an Issue.
func ParseCatalog(data []byte, ext string) ([]domain.FlakyDeclaration, []Issue, error) {
	var entries []interface{}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, nil, err
		}
	default:
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, nil, err
		}
	}

	catalog := make([]domain.FlakyDeclaration, 0, len(entries))
	var issues []Issue
	for i, entry := range entries {
		d, entryIssues, ok := readDeclaration(i, entry)
		issues = append(issues, entryIssues...)
		if ok {
			catalog = append(catalog, d)
		}
	}
	return catalog, issues, nil
}

func readDeclaration(index int, entry interface{}) (domain.FlakyDeclaration, []Issue, bool) {
	var d domain.FlakyDeclaration
	var issues []Issue

	fields, ok := entry.(map[string]interface{})
	if !ok {
		return d, []Issue{{Index: index, Message: fmt.Sprintf("is %s, not an object; entry ignored", kindOf(entry))}}, false
	}

	switch v := fields["testFilePath"].(type) {
	case string:
		d.TestFilePath = v
	case nil:
		return d, []Issue{{Index: index, Field: "testFilePath", Message: "is missing; entry ignored"}}, false
	default:
		return d, []Issue{{Index: index, Field: "testFilePath", Message: fmt.Sprintf("is %s, not a string; entry ignored", kindOf(v))}}, false
	}

	switch v := fields["fullName"].(type) {
	case string:
		d.FullName = v
	case nil:
	default:
		issues = append(issues, Issue{Index: index, Field: "fullName", Message: fmt.Sprintf("is %s, not a string; treated as absent", kindOf(v))})
	}

	switch v := fields["failureMessages"].(type) {
	case []interface{}:
		d.FailureMessages = make([]string, 0, len(v))
		for j, m := range v {
			msg, ok := m.(string)
			if !ok {
				issues = append(issues, Issue{Index: index, Field: fmt.Sprintf("failureMessages[%d]", j), Message: fmt.Sprintf("is %s, not a string; ignored", kindOf(m))})
				continue
			}
			d.FailureMessages = append(d.FailureMessages, msg)
		}
	case nil:
	default:
		issues = append(issues, Issue{Index: index, Field: "failureMessages", Message: fmt.Sprintf("is %s, not a list; treated as absent", kindOf(v))})
	}

	return d, issues, true
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case float64, int, int64, uint64:
		return "a number"
	case []interface{}:
		return "a list"
	case map[string]interface{}, map[interface{}]interface{}:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Files returns the set of test file paths named by the catalog
func Files(catalog []domain.FlakyDeclaration) map[string]struct{} {
	files := make(map[string]struct{}, len(catalog))
	for _, d := range catalog {
		files[d.TestFilePath] = struct{}{}
	}
	return files
}

// Stale returns the declarations whose test file does not exist under root.
func Stale(catalog []domain.FlakyDeclaration, root string) []domain.FlakyDeclaration {
	var stale []domain.FlakyDeclaration
	for _, d := range catalog {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(d.TestFilePath))); err != nil {
			stale = append(stale, d)
		}
	}
	return stale
}
