package commands

import (
	"github.com/spf13/cobra"

	"jfr/internal/cli"
	"jfr/internal/config"
	"jfr/internal/discovery"
	"jfr/internal/migration"
	"jfr/internal/parser"
	"jfr/internal/storage"
	"jfr/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Migrate *MigrateCommand
	Faills  *FaillsCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	filter := discovery.NewFilter()
	jestParser := parser.NewJestParser()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	dbManager := migration.NewDatabaseManager(cfg)
	migrator := migration.NewSchemaMigrator(cfg, dbManager)
	viewer := ui.NewRetryViewer(jsonStorage)

	return &Commands{
		Run:     NewRunCommand(cfg, jestParser, jsonStorage, formatter, dbManager, viewer),
		List:    NewListCommand(cfg, filter, formatter),
		Migrate: NewMigrateCommand(cfg, migrator),
		Faills:  NewFaillsCommand(cfg, jsonStorage, viewer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Config is reloaded once flags are parsed: .env, environment, then flags
	loadConfig := func(cmd *cobra.Command, args []string) error {
		*cfg = *config.Load(flags.ToConfigFlags())
		return nil
	}

	rootCmd.PersistentFlags().StringVar(&flags.ProjectPath, "project", "", "Path to the Jest project root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config-file", "", "Known flaky tests catalog, JSON or YAML (default: "+config.DefaultConfigFile+")")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run Jest and retry known flaky tests once",
		Long:    "Run the Jest suite, rerun failed test cases listed in the flaky catalog, merge both results and write a JUnit report",
		Args:    cobra.NoArgs,
		RunE:    c.Run.Execute,
		PreRunE: loadConfig,
	}
	runCmd.Flags().StringVar(&flags.JUnitOutputDir, "junit-output-dir", "", "Directory the junit.xml report is moved to (default: "+config.DefaultJUnitOutputDirectory+")")
	runCmd.Flags().StringVar(&flags.Command, "command", "", "Command used to invoke Jest (default: \"npx jest\")")
	runCmd.Flags().BoolVar(&flags.RecordHistory, "record-history", false, "Append the retry report to the MySQL history database (see jfr migrate)")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when known flaky tests were retried")
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Stream Jest output and print progress details")
	runCmd.Flags().BoolVar(&flags.Debug, "debug", false, "Print debug output (implies --verbose)")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered Jest test files",
		Long:    "Scan the project for Jest test files and mark the ones with known flaky declarations",
		Args:    cobra.NoArgs,
		RunE:    c.List.Execute,
		PreRunE: loadConfig,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., '*.spec.ts' or '*checkout*')")
	listCmd.Flags().BoolVar(&flags.Stale, "stale", false, "List flaky declarations whose test file no longer exists")
	rootCmd.AddCommand(listCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Create the retry history database",
		Long:    "Create the MySQL database and tables used by run --record-history, using DB_* settings from .env or the environment",
		Args:    cobra.NoArgs,
		RunE:    c.Migrate.Execute,
		PreRunE: loadConfig,
	}
	rootCmd.AddCommand(migrateCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:     "faills",
		Short:   "View retried flaky tests interactively",
		Long:    "Display the known flaky test cases retried in the last run in an interactive viewer",
		Args:    cobra.NoArgs,
		RunE:    c.Faills.Execute,
		PreRunE: loadConfig,
	}
	rootCmd.AddCommand(faillsCmd)
}
