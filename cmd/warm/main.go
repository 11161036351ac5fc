// Command warm fetches every active symbol once so the shared cache is hot.
// Run it from an external scheduler against the same Redis as the server.
package main

import (
	"context"
	"log/slog"
	"os"

	"stock_insights/internal/app/config"
	"stock_insights/internal/app/di"
	mdusecase "stock_insights/internal/feature/marketdata/usecase"
	symbollistadapters "stock_insights/internal/feature/symbollist/adapters"
	symbollistusecase "stock_insights/internal/feature/symbollist/usecase"
	warmupusecase "stock_insights/internal/feature/warmup/usecase"
	"stock_insights/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("warm-up failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Warmup.Timeout)
	defer cancel()

	gdb, err := di.OpenDatabase(cfg.DB)
	if err != nil {
		return err
	}
	symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(gdb))
	if err := symbolUC.SeedDefaults(ctx); err != nil {
		return err
	}

	store, closeStore, err := di.NewCacheStore(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore()
	if di.StoreName(store) != "redis" {
		slog.Warn("warm-up is not using a shared cache; results only live for this process", "cache", di.StoreName(store))
	}

	provider, err := di.NewCachedMarketProvider(cfg, nil, store)
	if err != nil {
		return err
	}
	uc := warmupusecase.NewWarmupUsecase(mdusecase.NewMarketDataUsecase(provider, cfg.Market.StrictTicker), nil)

	symbols, err := symbolUC.ListActiveCodes(ctx)
	if err != nil {
		return err
	}

	res, err := uc.WarmAll(ctx, symbols)
	if err != nil {
		return err
	}
	slog.Info("warm-up ok", "warmed", res.Warmed, "failed", res.Failed, "aborted", res.Aborted)
	return nil
}
