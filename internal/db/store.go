package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"genchat/internal/config"
	"genchat/internal/repository"
)

// OpenSessionStore construye el Session Store elegido por STORE_BACKEND.
// El closer libera el pool o el cliente subyacente.
func OpenSessionStore(ctx context.Context, cfg *config.Config) (repository.SessionRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		ctxInit, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()
		if err := EnsureSchema(ctxInit, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("db schema: %w", err)
		}
		return repository.NewPgSessionRepository(pool), pool.Close, nil

	case config.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  cfg.StoreTimeout,
			ReadTimeout:  cfg.StoreTimeout,
			WriteTimeout: cfg.StoreTimeout,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(ctxPing).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return repository.NewRedisSessionRepository(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil

	case config.StoreBackendMemory:
		return repository.NewMemorySessionRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
