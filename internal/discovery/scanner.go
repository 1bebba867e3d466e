package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// testDirName is the directory Jest treats as holding only test files
const testDirName = "__tests__"

var testExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
}

// Scanner scans for Jest test files in a directory
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all test files under root, in lexical order. Returned paths are
// relative to root with forward slashes, the form used by flaky declarations.
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if IsTestFile(rel) {
			testfiles = append(testfiles, rel)
		}
		return nil
	})

	return testfiles, err
}

// IsTestFile reports whether a slash-separated path matches Jest's default
// testMatch: any script under a __tests__ directory, or a file named
// *.test.* / *.spec.*.
func IsTestFile(path string) bool {
	ext := filepath.Ext(path)
	if !testExtensions[ext] {
		return false
	}

	for _, dir := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if dir == testDirName {
			return true
		}
	}

	stem := strings.TrimSuffix(filepath.Base(path), ext)
	for _, kind := range []string{"test", "spec"} {
		if stem == kind || strings.HasSuffix(stem, "."+kind) {
			return true
		}
	}
	return false
}
