package ui

import (
	"fmt"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/rivo/tview"

	"jfr/internal/domain"
)

// maxMessageLines caps each failure message in the details pane
const maxMessageLines = 40

func listItemText(c domain.RetriedCase, index int) string {
	name := tview.Escape(c.FullName)
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}

	mark := "[red]✗"
	if c.Recovered {
		mark = "[green]✓"
	}
	if c.Resolved {
		return fmt.Sprintf("[gray]● %s [yellow]%d.[gray] %s[white]", mark, index+1, name)
	}
	return fmt.Sprintf("%s [yellow]%d.[white] %s", mark, index+1, name)
}

func headerText(report *domain.RetryReport) string {
	unresolved, recovered := 0, 0
	for _, c := range report.Details {
		if !c.Resolved {
			unresolved++
		}
		if c.Recovered {
			recovered++
		}
	}
	return fmt.Sprintf(" Retried Flaky Tests (%d total, %d recovered, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, Ctrl+C exit ",
		len(report.Details), recovered, unresolved)
}

// formatCaseStats formats the header line of a retried case
func formatCaseStats(c domain.RetriedCase) string {
	path := c.FilePath
	if path == "" {
		path = "Unknown path"
	}
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]::[yellow]%s[white]\n", tview.Escape(path), tview.Escape(c.FullName))
}

// formatCaseDetails formats the first-run failure of a retried case using
// tview colour tags
func formatCaseDetails(c domain.RetriedCase) string {
	var b strings.Builder

	if c.Recovered {
		fmt.Fprintf(&b, "[green]✓ Recovered on retry: %s[white]\n\n", tview.Escape(c.FullName))
	} else {
		fmt.Fprintf(&b, "[red]✗ Still failing after retry: %s[white]\n\n", tview.Escape(c.FullName))
	}
	fmt.Fprintf(&b, "[cyan]File: %s[white]\n\n", tview.Escape(c.FilePath))

	if len(c.FailureMessages) == 0 {
		b.WriteString("[gray]No failure message recorded[white]\n")
		return b.String()
	}

	b.WriteString("[yellow]First run failure:[white]\n")
	for i, msg := range c.FailureMessages {
		if i > 0 {
			b.WriteString("\n")
		}
		lines := strings.Split(stripansi.Strip(msg), "\n")
		for j, line := range lines {
			if j == maxMessageLines {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(lines)-maxMessageLines)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
		}
	}
	return b.String()
}
