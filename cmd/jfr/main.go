package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jfr/internal/cli"
	"jfr/internal/cli/commands"
	"jfr/internal/config"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "jfr",
		Short:         "Jest flaky retry runner",
		Long:          `Runs a Jest suite, retries failed test cases that are known to be flaky exactly once, merges both results and writes a JUnit report. The run only fails if a failure survives the retry.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
