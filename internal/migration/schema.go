package migration

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"jfr/internal/config"
)

// Statement is one named step of the history schema
type Statement struct {
	Name  string
	Query string
}

// Schema creates the tables written by the history recorder
var Schema = []Statement{
	{
		Name: "flaky_runs",
		Query: "CREATE TABLE IF NOT EXISTS flaky_runs (" +
			"id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
			"recorded_at DATETIME NOT NULL, " +
			"success BOOLEAN NOT NULL, " +
			"total_test_suites INT NOT NULL DEFAULT 0, " +
			"failed_test_suites INT NOT NULL DEFAULT 0, " +
			"first_run_failed_test_cases INT NOT NULL DEFAULT 0, " +
			"retried_test_cases INT NOT NULL DEFAULT 0, " +
			"recovered_test_cases INT NOT NULL DEFAULT 0, " +
			"duration_seconds DOUBLE NOT NULL DEFAULT 0, " +
			"INDEX idx_flaky_runs_recorded_at (recorded_at)" +
			") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	},
	{
		Name: "flaky_retries",
		Query: "CREATE TABLE IF NOT EXISTS flaky_retries (" +
			"id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
			"run_id BIGINT UNSIGNED NOT NULL, " +
			"test_file_path VARCHAR(1024) NOT NULL, " +
			"full_name TEXT NOT NULL, " +
			"failure_message MEDIUMTEXT, " +
			"recovered BOOLEAN NOT NULL, " +
			"INDEX idx_flaky_retries_run (run_id), " +
			"CONSTRAINT fk_flaky_retries_run FOREIGN KEY (run_id) REFERENCES flaky_runs (id) ON DELETE CASCADE" +
			") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	},
}

// SchemaMigrator implements Migrator for the retry history database
type SchemaMigrator struct {
	config          *config.Config
	databaseManager *DatabaseManager
}

// NewSchemaMigrator creates a new SchemaMigrator
func NewSchemaMigrator(cfg *config.Config, dbManager *DatabaseManager) *SchemaMigrator {
	return &SchemaMigrator{
		config:          cfg,
		databaseManager: dbManager,
	}
}

// Run creates the history database if needed and applies the schema
func (sm *SchemaMigrator) Run(ctx context.Context) error {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║               Running Database Migrations                  ║")
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")

	created, err := sm.databaseManager.EnsureDatabase(ctx)
	if err != nil {
		return fmt.Errorf("failed to check database: %w", err)
	}
	if created {
		color.White("Created database %s\n", sm.config.Database.Name)
	}

	db, err := sm.databaseManager.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	total := len(Schema)
	color.White("Database: %s | Statements: %d\n\n", sm.config.Database.Name, total)

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(
			color.CyanString("Migrating: ")+
				color.GreenString("[completed: 0/%d]", total),
		),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	startTime := time.Now()
	for i, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt.Query); err != nil {
			bar.Finish()
			color.Red("✗ Migration %s failed: %v\n", stmt.Name, err)
			return fmt.Errorf("migrate %s: %w", stmt.Name, err)
		}
		bar.Describe(color.CyanString("Migrating: ") +
			color.GreenString("[completed: %d/%d]", i+1, total))
		bar.Add(1)
	}
	bar.Finish()

	fmt.Print("\n")
	color.Green("✓ Migrations completed successfully (%d tables)\n", total)
	color.White("Duration: %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}
