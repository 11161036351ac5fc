// Package scheduler はキャッシュウォームアップの定期実行を管理します。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"stock_insights/internal/feature/warmup/usecase"
)

// SymbolSource returns the tickers to warm.
type SymbolSource interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// Warmer runs one warm-up pass.
type Warmer interface {
	WarmAll(ctx context.Context, symbols []string) (usecase.Result, error)
}

// Scheduler runs the warm-up on a cron schedule. Runs never overlap.
type Scheduler struct {
	cron    *cron.Cron
	symbols SymbolSource
	warmer  Warmer
	timeout time.Duration
	ctx     context.Context

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler. ctx bounds every run; timeout bounds a single run.
func NewScheduler(ctx context.Context, symbols SymbolSource, warmer Warmer, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		symbols: symbols,
		warmer:  warmer,
		timeout: timeout,
		ctx:     ctx,
	}
}

// Register adds the warm-up job with a standard 5-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunNow() }); err != nil {
		return fmt.Errorf("register warm-up task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("warm-up scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("warm-up scheduler stopped")
}

// RunNow executes one warm-up pass immediately. It reports false when a
// previous pass is still running.
func (s *Scheduler) RunNow() (usecase.Result, bool) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		slog.Warn("warm-up already running, skipping")
		return usecase.Result{}, false
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	symbols, err := s.symbols.ListActiveCodes(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load symbols for warm-up", "error", err)
		return usecase.Result{}, true
	}
	res, err := s.warmer.WarmAll(ctx, symbols)
	if err != nil {
		slog.ErrorContext(ctx, "warm-up interrupted", "error", err, "warmed", res.Warmed)
	}
	return res, true
}
