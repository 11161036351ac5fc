package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stock_insights/internal/app/config"
	"stock_insights/internal/app/di"
	"stock_insights/internal/app/router"
	insightshandler "stock_insights/internal/feature/insights/transport/handler"
	insightsusecase "stock_insights/internal/feature/insights/usecase"
	mdhandler "stock_insights/internal/feature/marketdata/transport/handler"
	mdusecase "stock_insights/internal/feature/marketdata/usecase"
	narrativehandler "stock_insights/internal/feature/narrative/transport/handler"
	narrativeusecase "stock_insights/internal/feature/narrative/usecase"
	symbollistadapters "stock_insights/internal/feature/symbollist/adapters"
	symbollisthandler "stock_insights/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_insights/internal/feature/symbollist/usecase"
	"stock_insights/internal/feature/warmup/scheduler"
	warmupusecase "stock_insights/internal/feature/warmup/usecase"
	infrahttp "stock_insights/internal/platform/http"
	platformhandler "stock_insights/internal/platform/http/handler"
	jwtmw "stock_insights/internal/platform/jwt"
	"stock_insights/internal/platform/logger"
	"stock_insights/internal/platform/trace"
)

const serviceName = "stock_insights"

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err := trace.Init(trace.Config{Enabled: cfg.Trace.Enabled, ServiceName: serviceName, Version: version}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := di.OpenDatabase(cfg.DB)
	if err != nil {
		return err
	}
	symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(gdb))
	if err := symbolUC.SeedDefaults(ctx); err != nil {
		return err
	}

	// キャッシュ（Redis → メモリの順にフォールバック）
	store, closeStore, err := di.NewCacheStore(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore()

	provider, err := di.NewCachedMarketProvider(cfg, infrahttp.NewHTTPClient(cfg.Market.Timeout), store)
	if err != nil {
		return err
	}
	gen, err := di.NewTextGenerator(ctx, cfg, store)
	if err != nil {
		return err
	}

	// Usecase
	marketUC := mdusecase.NewMarketDataUsecase(provider, cfg.Market.StrictTicker)
	narrativeUC := narrativeusecase.NewNarrativeUsecase(gen)
	insightsUC := insightsusecase.NewInsightsUsecase(marketUC, narrativeUC)

	// 定期ウォームアップ（WARMUP_CRON 未設定なら無効）
	if cfg.Warmup.Cron != "" {
		sched := scheduler.NewScheduler(ctx, symbolUC, warmupusecase.NewWarmupUsecase(marketUC, nil), cfg.Warmup.Timeout)
		if err := sched.Register(cfg.Warmup.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// Handler
	r := router.NewRouter(router.Handlers{
		Health:     platformhandler.NewHealthHandler(di.StoreName(store), provider.Name()),
		Cache:      platformhandler.NewCacheHandler(store),
		Symbols:    symbollisthandler.NewSymbolHandler(symbolUC),
		Market:     mdhandler.NewMarketDataHandler(marketUC),
		Insights:   insightshandler.NewInsightsHandler(insightsUC),
		Narrative:  narrativehandler.NewNarrativeHandler(narrativeUC),
		// operator.jwt_secret 未設定ならクリアは誰でも実行可能
		CacheGuard: jwtmw.RequireScope(cfg.Operator.JWTSecret, jwtmw.ScopeCacheClear),
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr, "provider", provider.Name(), "cache", di.StoreName(store), "llm", cfg.LLM.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return trace.Shutdown(shutdownCtx)
}
