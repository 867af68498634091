/*
Copyright © 2025 UnluckyForSome
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/UnluckyForSome/artdex/pkg/buildinfo"
	"github.com/UnluckyForSome/artdex/pkg/exitcode"
	"github.com/UnluckyForSome/artdex/pkg/logger"
)

// newRootCommand creates a fresh root command instance. The factory lets
// tests build isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artdex",
		Short: "Game-art collection verification against an authoritative catalog",
		Long: `Artdex reconciles a local box-art, disc, and icon collection against the
catalog published by a cataloging service, and reports completeness,
duplicates, orphans, stale revisions, and removal reasons.

Examples:
   artdex verify            # reconcile the current directory
   artdex verify ~/art --format markdown --output COMPLETION.md
   artdex init              # write the default artdex.yaml layout`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("dry-run", false, "Plan filesystem actions without applying them")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("artdex {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newVerifyCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCommand()

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags.
func initializeLogger(cmd *cobra.Command) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	config := logger.Config{
		Level:     logger.ParseLevel(levelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "artdex",
		DryRun:    dryRun,
	}
	if err := logger.Initialize(config); err != nil {
		if _, writeErr := os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n"); writeErr != nil {
			_ = writeErr
		}
		os.Exit(exitcode.ConfigError)
	}
}
