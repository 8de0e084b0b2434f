package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/config"
	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
	"go.uber.org/zap"
)

// OpenStore открывает хранилище, выбранное в конфиге. Для postgres сначала применяются миграции.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}

		migrator, err := NewMigrator(store.Pool(), logger)
		if err != nil {
			store.Close()
			return nil, err
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			store.Close()
			return nil, err
		}

		return store, nil

	case config.BackendRedis:
		store, err := storage.NewRedisStore(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory storage, state is lost on restart")
		return storage.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
