// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"net/http"
	"time"

	"stock_insights/internal/app/config"
	"stock_insights/internal/feature/marketdata/usecase"
	"stock_insights/internal/platform/cache"
	"stock_insights/internal/platform/externalapi/apiclient"
	"stock_insights/internal/platform/externalapi/finnhub"
	"stock_insights/internal/platform/externalapi/rapidapi"
	"stock_insights/internal/platform/externalapi/twelvedata"
	"stock_insights/internal/platform/externalapi/yahoo"
	infrahttp "stock_insights/internal/platform/http"
	"stock_insights/internal/shared/ratelimiter"
)

// NewMarketProvider creates the configured provider adapter with its HTTP client,
// rate limiter and retry policy.
func NewMarketProvider(cfg config.MarketConfig, httpClient *http.Client) (usecase.MarketDataProvider, error) {
	if httpClient == nil {
		httpClient = infrahttp.NewHTTPClient(cfg.Timeout)
	}
	api := func(name string) *apiclient.Client {
		return apiclient.New(name, httpClient, newLimiter(name, cfg), apiclient.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			Delay:       cfg.RetryDelay,
		})
	}

	switch cfg.Provider {
	case rapidapi.Name:
		return rapidapi.NewProvider(rapidapi.LoadConfig(), api(rapidapi.Name)), nil
	case finnhub.Name:
		return finnhub.NewProvider(finnhub.LoadConfig(), api(finnhub.Name)), nil
	case yahoo.Name:
		return yahoo.NewProvider(yahoo.LoadConfig(), api(yahoo.Name)), nil
	case twelvedata.Name:
		return twelvedata.NewTwelveDataMarket(twelvedata.LoadConfig(), api(twelvedata.Name)), nil
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Provider)
	}
}

// NewCachedMarketProvider wraps NewMarketProvider with the read-through cache.
// A nil store disables caching.
func NewCachedMarketProvider(cfg config.Config, httpClient *http.Client, store cache.Store) (usecase.MarketDataProvider, error) {
	p, err := NewMarketProvider(cfg.Market, httpClient)
	if err != nil {
		return nil, err
	}
	return cache.NewCachingMarketProvider(p, store, cfg.Cache.PriceTTL, cfg.Cache.FundamentalsTTL), nil
}

func newLimiter(name string, cfg config.MarketConfig) ratelimiter.Limiter {
	if cfg.RateLimit <= 0 {
		return ratelimiter.Unlimited{}
	}
	interval := cfg.RateInterval
	if interval <= 0 {
		interval = time.Second
	}
	return ratelimiter.NewRateLimiter(name, cfg.RateLimit, interval)
}
