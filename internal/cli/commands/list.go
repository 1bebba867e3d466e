package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jfr/internal/config"
	"jfr/internal/discovery"
	"jfr/internal/domain"
	"jfr/internal/flaky"
	"jfr/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	root := lc.config.GetRootDir()

	// A missing catalog only means there is nothing to mark
	var catalog []domain.FlakyDeclaration
	path := lc.config.GetConfigFilePath()
	if _, err := os.Stat(path); err == nil {
		var issues []flaky.Issue
		catalog, issues, err = flaky.LoadCatalog(path)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			color.Yellow("⚠ Malformed flaky declaration, %s", issue)
		}
	}

	if lc.config.Flags.Stale {
		lc.formatter.PrintStaleDeclarations(flaky.Stale(catalog, root))
		return nil
	}

	// Built per run so that ignored paths reflect the loaded config
	scanner := discovery.NewScanner(lc.config.PathsToIgnore)
	tests, err := scanner.Scan(root)
	if err != nil {
		return err
	}

	tests = lc.filter.FilterByName(tests, lc.config.Flags.NameFilter)

	if len(tests) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	lc.formatter.PrintTestList(tests, flaky.Files(catalog))
	return nil
}
