// Package commands implements the rowdesk subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/rowdesk/internal/browser"
	"github.com/leapstack-labs/rowdesk/internal/cli/config"
	"github.com/leapstack-labs/rowdesk/pkg/adapter"
	"github.com/spf13/cobra"

	// Register database adapters.
	_ "github.com/leapstack-labs/rowdesk/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/rowdesk/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/rowdesk/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/rowdesk/pkg/adapters/sqlite"
)

// connectTimeout bounds the startup connectivity check.
const connectTimeout = 10 * time.Second

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Service  *browser.Service
	Renderer *Renderer
}

// NewCommandContext validates the target, opens the pool and verifies it.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	adp, err := connect(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := adp.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Service:  browser.New(adp, logger),
		Renderer: NewRenderer(cmd.OutOrStdout(), cfg.OutputFormat),
	}, cleanup, nil
}

// connect builds the configured adapter and checks it can reach the database.
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (adapter.Adapter, error) {
	if err := cfg.ValidateTarget(); err != nil {
		return nil, err
	}

	adp, err := adapter.NewAdapter(cfg.Target.AdapterConfig(), logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := adp.Connect(ctx, cfg.Target.AdapterConfig()); err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Target.Type, err)
	}

	logger.Info("database connection successful",
		"type", cfg.Target.Type,
		"user", cfg.Target.User,
		"database", cfg.Target.Database)
	return adp, nil
}

// getConfig returns the loaded configuration, or defaults when the root
// command did not run (commands constructed directly in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Port:         config.DefaultPort,
		OutputFormat: config.DefaultOutput,
		LogFormat:    config.DefaultLogFormat,
		Target:       &config.TargetConfig{},
	}
}
