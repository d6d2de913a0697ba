package app

import (
	"context"
	"fmt"
	"path/filepath"

	"ratehub/internal/adapters"
	"ratehub/internal/adapters/filestore"
	"ratehub/internal/adapters/postgres"
	"ratehub/internal/adapters/redisstore"
	"ratehub/internal/config"
	"ratehub/internal/platform/db"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type stores struct {
	batches adapters.BatchStore
	history adapters.HistoryStore
	close   func()
}

// openStores builds the batch and history stores for the configured driver.
func openStores(ctx context.Context, cfg *config.AppConfig) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.StorageFile:
		return &stores{
			batches: filestore.NewBatchStore(filepath.Join(cfg.Storage.DataDir, cfg.Storage.RatesFile)),
			history: filestore.NewHistoryStore(filepath.Join(cfg.Storage.DataDir, cfg.Storage.HistoryFile)),
			close:   func() {},
		}, nil

	case config.StoragePostgres:
		pool, err := db.CreatePoolAndPing(ctx, cfg.DbServer)
		if err != nil {
			return nil, err
		}
		logrus.Info("✅ Postgres connection successful")
		if err = db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			batches: postgres.NewBatchStore(pool),
			history: postgres.NewHistoryStore(pool),
			close:   pool.Close,
		}, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logrus.Info("✅ Redis connection successful")
		keys := redisstore.NewKeys(cfg.Redis.KeyPrefix)
		return &stores{
			batches: redisstore.NewBatchStore(client, keys),
			history: redisstore.NewHistoryStore(client, keys),
			close: func() {
				if err := client.Close(); err != nil {
					logrus.WithError(err).Warn("Failed to close redis client")
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
