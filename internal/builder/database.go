package builder

import (
	"context"
	"fmt"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// setupDatabase creates a new database connection pool
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Configure pool settings from config
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
	)

	return pool, nil
}

// setupSessionStore returns the configured session repository. The pool is
// nil for the in-memory store.
func setupSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SessionRepository, *pgxpool.Pool, error) {
	if cfg.SessionCfg.Store != config.SessionStorePostgres {
		logger.Info("using in-memory session store",
			zap.Duration("ttl", cfg.SessionCfg.TTL),
		)
		return repository.NewSessionMemory(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval), nil, nil
	}

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed successfully")

	return repository.NewSessionPostgres(db), db, nil
}
