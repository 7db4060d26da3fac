// Package main provides the rend CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matsen/rendimento/internal/config"
	"github.com/matsen/rendimento/internal/dataset"
	"github.com/matsen/rendimento/internal/fetch"
	"github.com/matsen/rendimento/internal/relgraph"
	"github.com/matsen/rendimento/internal/report"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	configPath  string

	logger = zap.NewNop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		exitWithError(exitCodeFor(err), "%s", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rend",
	Short: "School performance rates: charts, relationship graph and PDF report",
	Long: `rend turns the INEP "Taxas de Rendimento Escolar" CSV into a report.

It filters the dataset by year and state, charts approval, failure and
dropout rates, builds the graph linking states, locations and administrative
dependencies, and assembles everything into a PDF.

Parsed records are cached in SQLite next to the outputs; the CSV stays the
source of truth. All commands output JSON by default; use --human for tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/rend/config.yml)")
	rootCmd.Version = Version
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, dataset.ErrInvalidInput),
		errors.Is(err, report.ErrNoImages):
		return ExitDataError
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, relgraph.ErrInvalidLayoutOptions):
		return ExitConfigError
	case errors.Is(err, fetch.ErrDownloadFailed):
		return ExitFetchError
	default:
		return ExitError
	}
}

// mustLoadConfig loads and validates the configuration, exits on error.
func mustLoadConfig() *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadGlobalConfig()
	}
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// mustExist exits with the config help text when the dataset is missing.
func mustExist(cfg *config.Config) {
	if _, err := os.Stat(cfg.DatasetPath); err != nil {
		if !humanOutput {
			exitWithError(ExitDataError, "%v: dataset file not found: %s", dataset.ErrInvalidInput, cfg.DatasetPath)
		}
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitDataError)
	}
}
