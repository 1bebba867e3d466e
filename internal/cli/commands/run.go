package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jfr/internal/config"
	"jfr/internal/execution"
	"jfr/internal/logger"
	"jfr/internal/migration"
	"jfr/internal/parser"
	"jfr/internal/report"
	"jfr/internal/retry"
	"jfr/internal/storage"
	"jfr/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	parser    parser.Parser
	storage   storage.Storage
	formatter *ui.Formatter
	dbManager *migration.DatabaseManager
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	p parser.Parser,
	st storage.Storage,
	formatter *ui.Formatter,
	dbManager *migration.DatabaseManager,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		parser:    p,
		storage:   st,
		formatter: formatter,
		dbManager: dbManager,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(rc.config.Flags.Verbose, rc.config.Flags.Debug)

	runner := execution.NewRunner(rc.config, rc.parser, log)
	runner.SetProgress(!log.Verbose())

	session := retry.NewSession(rc.config, runner, report.NewWriter(rc.config), rc.storage, log)

	if rc.config.Flags.RecordHistory {
		db, err := rc.dbManager.Open(ctx)
		if err != nil {
			return fmt.Errorf("retry history unavailable (run jfr migrate first?): %w", err)
		}
		recorder := storage.NewMySQLRecorder(db)
		defer recorder.Close()
		session.SetRecorder(recorder)
	}

	if err := runSuite(ctx, runner, session); err != nil {
		return err
	}

	summary := session.Report()
	rc.formatter.PrintMetaStats(summary)

	if rc.config.Flags.OpenFaills && len(summary.Details) > 0 {
		if err := rc.viewer.View(summary); err != nil {
			log.Warnf("Could not open faills viewer: %v", err)
		}
	}

	return session.LastError()
}

// runSuite drives one session: catalog, full run, per-suite matching, then
// the single retry pass and report
func runSuite(ctx context.Context, executor execution.Executor, session *retry.Session) error {
	if err := session.OnRunStart(); err != nil {
		return err
	}

	results, err := executor.Run(ctx)
	if err != nil {
		return err
	}

	for _, suite := range results.TestResults {
		session.OnTestResult(suite)
	}

	_, err = session.OnRunComplete(ctx, results)
	return err
}
