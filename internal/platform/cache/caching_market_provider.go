package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/feature/marketdata/usecase"
	"stock_insights/internal/shared/hashkey"
)

const (
	// DefaultPriceTTL は価格履歴のキャッシュ有効期間です。
	DefaultPriceTTL = time.Hour
	// DefaultFundamentalsTTL はファンダメンタルズのキャッシュ有効期間です。
	DefaultFundamentalsTTL = 12 * time.Hour
)

// CachingMarketProvider decorates a MarketDataProvider with a TTL cache.
// Only successful results are stored; concurrent misses for the same key share one upstream call.
type CachingMarketProvider struct {
	inner           usecase.MarketDataProvider
	store           Store
	priceTTL        time.Duration
	fundamentalsTTL time.Duration
	group           singleflight.Group
}

var _ usecase.MarketDataProvider = (*CachingMarketProvider)(nil)

// NewCachingMarketProvider wraps inner. A nil store disables caching.
// Non-positive TTLs fall back to DefaultPriceTTL and DefaultFundamentalsTTL.
func NewCachingMarketProvider(inner usecase.MarketDataProvider, store Store, priceTTL, fundamentalsTTL time.Duration) *CachingMarketProvider {
	if priceTTL <= 0 {
		priceTTL = DefaultPriceTTL
	}
	if fundamentalsTTL <= 0 {
		fundamentalsTTL = DefaultFundamentalsTTL
	}
	return &CachingMarketProvider{
		inner:           inner,
		store:           store,
		priceTTL:        priceTTL,
		fundamentalsTTL: fundamentalsTTL,
	}
}

func (c *CachingMarketProvider) Name() string { return c.inner.Name() }

// GetPriceHistory checks the cache first, then falls back to the provider.
func (c *CachingMarketProvider) GetPriceHistory(ctx context.Context, ticker entity.Ticker, r entity.RangeSpec) (entity.PriceSeries, error) {
	key := c.cacheKey("prices", ticker, r)
	return cached(ctx, c, key, c.priceTTL, func(ctx context.Context) (entity.PriceSeries, error) {
		return c.inner.GetPriceHistory(ctx, ticker, r)
	}, func(s entity.PriceSeries) bool { return s.Len() > 0 })
}

// GetFundamentals checks the cache first, then falls back to the provider.
func (c *CachingMarketProvider) GetFundamentals(ctx context.Context, ticker entity.Ticker) (entity.FundamentalsSnapshot, error) {
	key := c.cacheKey("fundamentals", ticker)
	return cached(ctx, c, key, c.fundamentalsTTL, func(ctx context.Context) (entity.FundamentalsSnapshot, error) {
		return c.inner.GetFundamentals(ctx, ticker)
	}, func(f entity.FundamentalsSnapshot) bool { return f.Ticker != "" })
}

// cacheKey returns "{provider}:{op}:{argsHash}"; the store adds its namespace.
func (c *CachingMarketProvider) cacheKey(op string, args ...any) string {
	return safe(c.inner.Name()) + ":" + op + ":" + hashkey.Of(args...)
}

// cached implements read-through caching. Store failures are logged and bypassed;
// an entry that does not decode, or decodes to something invalid, is deleted and refetched.
func cached[T any](ctx context.Context, c *CachingMarketProvider, key string, ttl time.Duration, fetch func(context.Context) (T, error), valid func(T) bool) (T, error) {
	if c.store == nil {
		return fetch(ctx)
	}

	// 1) キャッシュを確認
	if b, err := c.store.Get(ctx, key); err == nil {
		var out T
		if err := json.Unmarshal(b, &out); err == nil && valid(out) {
			return out, nil
		}
		slog.WarnContext(ctx, "deleting corrupted cache entry", "key", key)
		if err := c.store.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "failed to delete cache entry", "key", key, "error", err)
		}
	} else if !errors.Is(err, ErrMiss) {
		slog.WarnContext(ctx, "cache read failed", "backend", c.store.Name(), "key", key, "error", err)
	}

	// 2) プロバイダーから取得（同一キーの同時リクエストは1回にまとめる）
	return shareFetch(ctx, &c.group, key, func(ctx context.Context) (T, error) {
		out, err := fetch(ctx)
		if err != nil {
			return out, err
		}
		// 3) キャッシュに保存（ベストエフォート）
		if b, err := json.Marshal(out); err == nil {
			if err := c.store.Set(ctx, key, b, ttl); err != nil {
				slog.WarnContext(ctx, "cache write failed", "backend", c.store.Name(), "key", key, "error", err)
			}
		}
		return out, nil
	})
}
