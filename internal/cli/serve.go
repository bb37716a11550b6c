package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/aevon-lab/insight/internal/core/config"
	"github.com/aevon-lab/insight/internal/definition"
	"github.com/aevon-lab/insight/internal/evaluation"
	"github.com/aevon-lab/insight/internal/ingestion"
	"github.com/aevon-lab/insight/internal/scope"
	"github.com/aevon-lab/insight/internal/server"
	"github.com/spf13/cobra"
)

func serveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *corecfg.Config) error {
	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	resolver, evaluationSvc := newEvaluationService(cfg, st)
	definitionSvc := definition.NewService(resolver)
	ingestionSvc := ingestion.NewService(st.definitions, st.instances, cfg.Server.MaxBodySizeMB)

	srv := server.New(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port), st.health, cfg.Server.Mode)
	evaluationSvc.RegisterRoutes(srv.Engine)
	definitionSvc.RegisterRoutes(srv.Engine)
	ingestionSvc.RegisterRoutes(srv.Engine)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	slog.Info("Shutdown complete")
	return nil
}

func newEvaluationService(cfg *corecfg.Config, st *stores) (*scope.Resolver, *evaluation.Service) {
	resolver := scope.NewResolver(st.definitions, st.reports)
	evaluator := evaluation.NewEvaluator(st.instances, evaluation.EvaluatorConfig{
		AutomaticIntervalPoints: cfg.Evaluation.AutomaticIntervalPoints,
		DefaultRawDataLimit:     cfg.Evaluation.DefaultRawDataLimit,
		MaxRawDataLimit:         cfg.Evaluation.MaxRawDataLimit,
		MaxDateBuckets:          cfg.Evaluation.MaxDateBuckets,
	})
	svc := evaluation.NewService(st.reports, resolver, evaluator, evaluation.Options{
		ServerLocation:      cfg.Location,
		CombinedConcurrency: cfg.Evaluation.CombinedConcurrency,
		MaxBodySizeMB:       cfg.Server.MaxBodySizeMB,
	})
	return resolver, svc
}
