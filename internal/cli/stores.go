package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	corecfg "github.com/aevon-lab/insight/internal/core/config"
	"github.com/aevon-lab/insight/internal/core/storage"
	"github.com/aevon-lab/insight/internal/core/storage/filesystem"
	"github.com/aevon-lab/insight/internal/core/storage/memory"
	"github.com/aevon-lab/insight/internal/core/storage/postgres"
	"github.com/aevon-lab/insight/internal/migrations"
)

// stores bundles the backends selected by configuration.
type stores struct {
	definitions storage.DefinitionStore
	instances   storage.InstanceStore
	reports     storage.ReportRepository
	health      interface {
		Ping(ctx context.Context) error
	}
	// memory is set when the in-memory backend serves definitions and instances.
	memory *memory.Store
	close  func() error
}

func openStores(cfg *corecfg.Config) (*stores, error) {
	s := &stores{close: func() error { return nil }}

	switch cfg.Database.Type {
	case "postgres":
		db, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		adapter, err := postgres.NewAdapter(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.instances = adapter
		s.definitions = postgres.NewDefinitionAdapter(db)
		s.health = adapter
		s.close = adapter.Close
		if cfg.Repository.SourceType == "postgres" {
			s.reports = postgres.NewReportAdapter(db)
		}
	case "memory":
		mem := memory.NewStore()
		s.memory = mem
		s.definitions = mem
		s.instances = mem
		s.health = mem
		if cfg.Repository.SourceType == "memory" {
			s.reports = mem
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Database.Type)
	}

	if cfg.Repository.SourceType == "filesystem" {
		repo, err := filesystem.NewReportRepository(cfg.Repository.Path)
		if err != nil {
			s.close()
			return nil, err
		}
		s.reports = repo
	}
	if s.reports == nil {
		s.close()
		return nil, fmt.Errorf("repository source %q is not available with database type %q",
			cfg.Repository.SourceType, cfg.Database.Type)
	}

	slog.Info("Stores initialized", "database_type", cfg.Database.Type, "repository_source", cfg.Repository.SourceType)
	return s, nil
}

// openDB opens the configured database without touching the schema.
func openDB(cfg *corecfg.Config) (*sql.DB, error) {
	if cfg.Database.Type != "postgres" {
		return nil, fmt.Errorf("migrations need database.type postgres, got %q", cfg.Database.Type)
	}
	return postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
}
