// Package initializer builds the process dependencies from configuration.
package initializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/strides/infra"
	infracache "github.com/amirasaad/strides/infra/cache"
	"github.com/amirasaad/strides/infra/migrations"
	"github.com/amirasaad/strides/infra/mongodb"
	infrarepository "github.com/amirasaad/strides/infra/repository"
	"github.com/amirasaad/strides/pkg/app"
	"github.com/amirasaad/strides/pkg/cache"
	"github.com/amirasaad/strides/pkg/config"
	"github.com/amirasaad/strides/pkg/repository"
)

// InitializeDependencies initializes all the application dependencies. The
// returned shutdown releases connections and must be called on exit.
func InitializeDependencies(ctx context.Context, cfg *config.App) (
	deps *app.Deps,
	shutdown func(context.Context) error,
	err error,
) {
	logger := setupLogger(cfg.Log)
	var closers []func(context.Context) error
	closeAll := func(ctx context.Context) error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i](ctx))
		}
		return errors.Join(errs...)
	}
	defer func() {
		if err != nil {
			_ = closeAll(context.Background())
		}
	}()

	uow, closeStore, err := initializeStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	responses, err := initializeCache(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func(context.Context) error { return responses.Close() })

	return &app.Deps{Uow: uow, Cache: responses, Logger: logger}, closeAll, nil
}

// initializeStore opens the configured database and returns its unit of work.
func initializeStore(
	ctx context.Context,
	cfg *config.App,
	logger *slog.Logger,
) (repository.UnitOfWork, func(context.Context) error, error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.DB)
		if err != nil {
			logger.Error("Failed to initialize database", "driver", cfg.DB.Driver, "error", err)
			return nil, nil, err
		}
		closeClient := func(ctx context.Context) error { return client.Disconnect(ctx) }
		if cfg.DB.Migrate {
			if err := mongodb.EnsureIndexes(ctx, client.Database(cfg.DB.Name)); err != nil {
				_ = closeClient(ctx)
				return nil, nil, err
			}
			logger.Info("MongoDB indexes ensured", "database", cfg.DB.Name)
		}
		return mongodb.NewUoW(client, cfg.DB.Name), closeClient, nil

	default:
		db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
		if err != nil {
			logger.Error("Failed to initialize database", "driver", cfg.DB.Driver, "error", err)
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		closeDB := func(context.Context) error { return sqlDB.Close() }
		if cfg.DB.Migrate {
			if err := migrations.Up(sqlDB); err != nil {
				_ = sqlDB.Close()
				return nil, nil, err
			}
			logger.Info("Database migrations applied")
		}
		return infrarepository.NewUoW(db), closeDB, nil
	}
}

type closableCache interface {
	cache.ResponseCache
	io.Closer
}

// initializeCache returns the idempotency store: Redis when REDIS_URL is
// set, otherwise process memory.
func initializeCache(
	ctx context.Context,
	cfg *config.Redis,
	logger *slog.Logger,
) (closableCache, error) {
	if cfg == nil || cfg.URL == "" {
		logger.Info("Using in-memory idempotency store")
		return infracache.NewMemoryCache(), nil
	}
	rc, err := infracache.NewRedisCache(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to reach Redis: %w", err)
	}
	logger.Info("Using Redis idempotency store")
	return rc, nil
}
