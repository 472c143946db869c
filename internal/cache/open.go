package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"craftwiz/internal/config"
	"craftwiz/internal/logging"
)

// Open builds the configured backend behind a memory tier.
func Open(ctx context.Context, cfg *config.Config) (*Tiered, error) {
	var back Store
	switch cfg.Cache.Backend {
	case config.BackendMemory:
	case config.BackendFile:
		fs, err := NewFileStore(cfg.PlayerDataDir)
		if err != nil {
			return nil, err
		}
		back = fs
	case config.BackendSQLite:
		s, err := OpenSQLite(cfg.Cache.SQLitePath)
		if err != nil {
			return nil, err
		}
		back = s
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Cache.RedisAddr, err)
		}
		back = NewRedisStore(client, cfg.PlayerCacheDuration)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	logging.Debug("cache opened", zap.String("backend", cfg.Cache.Backend))
	return NewTiered(back, cfg.Cache.MemoryTTL), nil
}
