package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"jfr/internal/config"
	"jfr/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to the colour-aware stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		config: cfg,
		out:    color.Output,
	}
}

// SetOutput redirects the formatter
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

const (
	tableTop    = "┌─────────────────────────────────┬─────────────────────────────┐"
	tableMiddle = "├─────────────────────────────────┼─────────────────────────────┤"
	tableBottom = "└─────────────────────────────────┴─────────────────────────────┘"
)

type statRow struct {
	label string
	value string
	paint func(format string, a ...interface{}) string
}

// PrintMetaStats displays the statistics of a run and its retry pass
func (f *Formatter) PrintMetaStats(report *domain.RetryReport) {
	meta := report.Meta

	fmt.Fprint(f.out, "\n")
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                    Test Execution Statistics                  ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(f.out)

	rows := []statRow{
		{"Total Test Suites", fmt.Sprint(meta.TotalTestSuites), color.WhiteString},
		{"Passed Test Suites", fmt.Sprint(meta.PassedTestSuites), color.GreenString},
		{"Failed Test Suites", fmt.Sprint(meta.FailedTestSuites), color.RedString},
		{"Total Test Cases", fmt.Sprint(meta.TotalTestCases), color.WhiteString},
		{"Failed Test Cases", fmt.Sprint(meta.FailedTestCases), color.RedString},
		{"Failed On First Run", fmt.Sprint(meta.FirstRunFailedCases), color.YellowString},
		{"Retried (Known Flaky)", fmt.Sprint(meta.RetriedTestCases), color.YellowString},
		{"Recovered On Retry", fmt.Sprint(meta.RecoveredTestCases), color.GreenString},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), color.WhiteString},
		{"Timestamp", meta.Timestamp, color.WhiteString},
	}

	fmt.Fprintln(f.out, tableTop)
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ %s │\n", row.label, row.paint("%-27s", row.value))
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, tableMiddle)
		}
	}
	fmt.Fprintln(f.out, tableBottom)

	fmt.Fprintln(f.out)
	if meta.Success {
		line := color.GreenString("✓ All tests passed!")
		if meta.RecoveredTestCases > 0 {
			line += color.YellowString(" (%d known flaky test case(s) recovered on retry)", meta.RecoveredTestCases)
		}
		fmt.Fprintln(f.out, line)
	} else {
		fmt.Fprintln(f.out, color.RedString("✗ %d test suite(s) failed with %d test case failure(s)", meta.FailedTestSuites, meta.FailedTestCases))
	}

	if len(report.Details) > 0 {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, color.CyanString("Retried test cases:"))
		f.printRetriedTree(report.Details)
	}
}

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Cases    []domain.RetriedCase
	IsFile   bool
}

// printRetriedTree prints retried cases grouped by directory and file
func (f *Formatter) printRetriedTree(cases []domain.RetriedCase) {
	root := &TreeNode{Children: make(map[string]*TreeNode)}

	for _, c := range cases {
		parts := strings.Split(strings.TrimPrefix(c.FilePath, "./"), "/")
		current := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			child := current.Children[part]
			if child == nil {
				child = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
				current.Children[part] = child
			}
			current = child
		}
		current.Cases = append(current.Cases, c)
	}

	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1

		connector, childPrefix := "├── ", prefix+"│   "
		if last {
			connector, childPrefix = "└── ", prefix+"    "
		}

		if child.IsFile {
			fmt.Fprintln(f.out, prefix+connector+color.YellowString(child.Name))
		} else {
			fmt.Fprintln(f.out, prefix+connector+color.CyanString(child.Name))
		}

		for j, c := range child.Cases {
			caseConnector := "├── "
			if j == len(child.Cases)-1 && len(child.Children) == 0 {
				caseConnector = "└── "
			}
			fmt.Fprintln(f.out, childPrefix+caseConnector+formatRetriedCase(c))
		}

		f.printTreeNode(child, childPrefix)
	}
}

func formatRetriedCase(c domain.RetriedCase) string {
	if c.Recovered {
		return color.GreenString("✓ %s", c.FullName)
	}
	return color.RedString("✗ %s", c.FullName)
}

// PrintTestList prints test files relative to the project root.
// flakyFiles is optional; files in this set have catalog declarations and
// are marked with [F].
func (f *Formatter) PrintTestList(tests []string, flakyFiles map[string]struct{}) {
	fmt.Fprintln(f.out, color.GreenString("Found %d test file(s):", len(tests)))
	fmt.Fprintln(f.out)

	for i, test := range tests {
		marker := ""
		if _, ok := flakyFiles[test]; ok {
			marker = " " + color.YellowString("[F]")
		}

		connector := "├── "
		if i == len(tests)-1 {
			connector = "└── "
		}
		fmt.Fprintln(f.out, connector+color.CyanString(test)+marker)
	}
}

// PrintStaleDeclarations lists catalog entries whose test file is gone
func (f *Formatter) PrintStaleDeclarations(stale []domain.FlakyDeclaration) {
	if len(stale) == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ Every flaky declaration in %s refers to an existing file", f.config.ConfigFile))
		return
	}

	fmt.Fprintln(f.out, color.YellowString("⚠ %d flaky declaration(s) refer to missing files:", len(stale)))
	for _, d := range stale {
		name := d.FullName
		if name == "" {
			name = "(all test cases)"
		}
		fmt.Fprintf(f.out, "  %s :: %s\n", color.RedString(d.TestFilePath), name)
	}
}
