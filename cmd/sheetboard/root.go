package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/sheetboard/internal/config"
	"github.com/okian/sheetboard/pkg/logger"
)

var flagConfig string

// newRootCmd creates the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheetboard",
		Short: "Scoreboard served from a published spreadsheet",
		Long: `sheetboard polls a published Google Sheet, turns its rows into score
entries and serves a leaderboard, per-category scoreboards and a poster
gallery over HTTP.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file (default $"+config.EnvConfigPath+")")

	cmd.AddCommand(newServeCmd(), newFetchCmd())
	return cmd
}

// setup loads configuration and initializes logging to w.
func setup(ctx context.Context, w io.Writer) (*config.Config, error) {
	if err := logger.InitWith(w, "text"); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	cfg, err := config.Load(ctx, flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logger.InitWith(w, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}
