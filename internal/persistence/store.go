package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-dashboard/internal/config"
	"github.com/spec-kit/lead-dashboard/internal/repository"
	"github.com/spec-kit/lead-dashboard/migrations"
)

// Pinger is implemented by every backing connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LeadStore is the lead repository selected by STORE_DRIVER together with
// the connection that backs it.
type LeadStore struct {
	Leads repository.LeadRepository

	driver   string
	mongo    *Mongo
	postgres *Postgres
}

// OpenLeadStore connects the configured backend and prepares its schema.
func OpenLeadStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*LeadStore, error) {
	store := &LeadStore{driver: cfg.Store.Driver}

	switch cfg.Store.Driver {
	case config.StoreMongo:
		m, err := NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if cfg.Mongo.EnsureIndexes {
			if err := m.EnsureLeadIndexes(ctx, logger); err != nil {
				m.Close(ctx)
				return nil, fmt.Errorf("ensure lead indexes: %w", err)
			}
		}
		store.mongo = m
		store.Leads = repository.NewMongoLeadRepository(m.DB)

	case config.StorePostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.Pool, migrations.FS, logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		store.postgres = pg
		store.Leads = repository.NewPostgresLeadRepository(pg.Pool)

	case config.StoreMemory:
		logger.Warn("using in-memory lead store; data is lost on restart")
		store.Leads = repository.NewMemoryLeadRepository()

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	logger.Info("lead store ready", zap.String("driver", cfg.Store.Driver))
	return store, nil
}

// Dependencies returns the connections readiness should check.
func (s *LeadStore) Dependencies() map[string]Pinger {
	deps := map[string]Pinger{}
	switch {
	case s.mongo != nil:
		deps["mongodb"] = s.mongo
	case s.postgres != nil:
		deps["postgres"] = s.postgres
	}
	return deps
}

// Close releases the backing connection.
func (s *LeadStore) Close(ctx context.Context) {
	s.mongo.Close(ctx)
	s.postgres.Close()
}
