package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/apifault/apifault/internal/config"
	"github.com/apifault/apifault/internal/database"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Database connections
	Postgres *database.PostgresDB

	// Article store backing the demo routes
	Store ArticleStore
}

// initDependencies initializes all dependencies. The article store is
// backed by PostgreSQL when configured and reachable, and falls back to
// the in-memory store otherwise.
func initDependencies(cfg *config.Config, logger *zap.Logger) *Dependencies {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Postgres.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pgDB, err := database.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Warn("PostgreSQL unavailable, serving canned articles", zap.Error(err))
		} else {
			deps.Postgres = pgDB
		}
	}

	if deps.Postgres != nil {
		deps.Store = NewPostgresArticleStore(deps.Postgres.Pool)
	} else {
		deps.Store = NewMemoryArticleStore()
	}

	return deps
}

// Close releases all dependencies
func (d *Dependencies) Close() {
	if d.Postgres != nil {
		d.Postgres.Close()
	}
}
