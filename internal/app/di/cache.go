package di

import (
	"context"
	"fmt"
	"log/slog"

	"stock_insights/internal/app/config"
	"stock_insights/internal/platform/cache"
	infraredis "stock_insights/internal/platform/redis"
)

// NewCacheStore selects the cache backend.
//
//   - "redis":  Redis が必須。接続できなければエラー
//   - "memory": プロセス内キャッシュ（ristretto）
//   - "auto":   Redis に接続できればRedis、できなければメモリにフォールバック
//   - "none":   キャッシュ無効（nil を返す）
//
// The returned close function releases the backend and is never nil.
func NewCacheStore(ctx context.Context, cfg config.CacheConfig) (cache.Store, func(), error) {
	switch cfg.Backend {
	case "none":
		return nil, func() {}, nil
	case "memory":
		return newMemoryStore(cfg)
	case "redis", "auto":
		rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig())
		if err == nil {
			closeFn := func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close redis client", "error", err)
				}
			}
			return cache.NewRedisStore(rdb, cfg.Namespace), closeFn, nil
		}
		if cfg.Backend == "redis" {
			return nil, func() {}, err
		}
		slog.WarnContext(ctx, "redis unavailable, falling back to in-memory cache", "error", err)
		return newMemoryStore(cfg)
	default:
		return nil, func() {}, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func newMemoryStore(cfg config.CacheConfig) (cache.Store, func(), error) {
	maxCost := cfg.MemoryMaxCost
	if maxCost <= 0 {
		maxCost = cache.DefaultMemoryMaxCost
	}
	s, err := cache.NewMemoryStore(maxCost)
	if err != nil {
		return nil, func() {}, err
	}
	return s, s.Close, nil
}

// StoreName returns the backend name for health output.
func StoreName(s cache.Store) string {
	if s == nil {
		return "none"
	}
	return s.Name()
}
