package cli

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/qguide/internal/config"
	"github.com/pfrederiksen/qguide/internal/logger"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qguide",
		Short: "Aggregate Q guide course evaluations",
		Long: `A CLI tool that extracts course evaluation statistics from downloaded
Q guide report pages and aggregates them per course and semester.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file (default $QGUIDE_CONFIG)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// loadConfig resolves configuration for cmd, applying the flags the user set
// explicitly on top of file and environment values.
func loadConfig(cmd *cobra.Command, flagKeys map[string]string) (*config.Config, error) {
	overrides := make(map[string]interface{})
	for flagName, key := range flagKeys {
		f := cmd.Flags().Lookup(flagName)
		if f == nil || !f.Changed {
			continue
		}
		overrides[key] = f.Value.String()
	}
	if flagVerbose {
		overrides["log_level"] = "debug"
	}

	cfg, err := config.Load(flagConfig, overrides)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setupLogger installs the default logger for the command's stderr.
func setupLogger(cmd *cobra.Command, cfg *config.Config, fields logger.Fields) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logger.New(level, cmd.ErrOrStderr()).With(fields)
	logger.SetDefault(log)
	return log, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
