package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	corecfg "github.com/aevon-lab/insight/internal/core/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the insight command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Report evaluation service",
		Long: `insight evaluates process and decision reports over imported instances.

Examples:
  # Start the HTTP API
  insight serve --config insight.yaml

  # Apply pending database migrations
  insight migrate up

  # Evaluate a report file without a server
  insight evaluate --report reports/monthly.yaml --instances instances.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file (defaults and INSIGHT_* env vars apply without one)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCommand(opts),
		migrateCommand(opts),
		evaluateCommand(opts),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() (*corecfg.Config, error) {
	cfg, err := corecfg.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded config",
		"server_port", cfg.Server.Port,
		"database_type", cfg.Database.Type,
		"repository_source", cfg.Repository.SourceType,
		"timezone", cfg.Location.String())
	return cfg, nil
}

func setupLogger(level string) error {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q", level)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return nil
}
