// Package usecase はサジェスト銘柄のキャッシュを事前に温めるバッチ処理を実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"

	"stock_insights/internal/feature/marketdata/domain"
	"stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/shared/ratelimiter"
)

// MarketData はキャッシュ経由でマーケットデータを取得するインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketData interface {
	FetchPriceHistory(ctx context.Context, rawTicker string, r entity.RangeSpec) (entity.PriceSeries, error)
	FetchFundamentals(ctx context.Context, rawTicker string) (entity.FundamentalsSnapshot, error)
}

// Result summarizes one warm-up run.
type Result struct {
	Warmed int
	Failed int
	// Aborted is true when the provider quota ran out before every symbol was visited.
	Aborted bool
}

// WarmupUsecase は銘柄ごとに価格履歴とファンダメンタルズを取得してキャッシュに載せます。
type WarmupUsecase struct {
	market  MarketData
	limiter ratelimiter.Limiter
	ranges  []entity.RangeSpec
}

// NewWarmupUsecase は新しい WarmupUsecase を作成します。
// ranges が空の場合はデフォルトレンジ（1mo/1d）のみを温めます。
func NewWarmupUsecase(market MarketData, limiter ratelimiter.Limiter, ranges ...entity.RangeSpec) *WarmupUsecase {
	if limiter == nil {
		limiter = ratelimiter.Unlimited{}
	}
	if len(ranges) == 0 {
		ranges = []entity.RangeSpec{entity.DefaultRange()}
	}
	return &WarmupUsecase{market: market, limiter: limiter, ranges: ranges}
}

// WarmAll は全銘柄を順に取得します。1銘柄の失敗では止まらずログに出力して続行しますが、
// クォータ超過の場合は残りの銘柄をスキップします。
func (u *WarmupUsecase) WarmAll(ctx context.Context, symbols []string) (Result, error) {
	var res Result
	for _, s := range symbols {
		err := u.warmOne(ctx, s)
		switch {
		case err == nil:
			res.Warmed++
		case ctx.Err() != nil:
			return res, ctx.Err()
		case errors.Is(err, domain.ErrQuotaExceeded):
			res.Failed++
			res.Aborted = true
			slog.WarnContext(ctx, "provider quota exceeded, stopping warm-up", "symbol", s, "remaining", len(symbols)-res.Warmed-res.Failed)
			return res, nil
		default:
			res.Failed++
			slog.ErrorContext(ctx, "failed to warm symbol", "symbol", s, "error", err)
		}
	}
	slog.InfoContext(ctx, "cache warm-up finished", "warmed", res.Warmed, "failed", res.Failed)
	return res, nil
}

func (u *WarmupUsecase) warmOne(ctx context.Context, symbol string) error {
	for _, r := range u.ranges {
		if err := u.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := u.market.FetchPriceHistory(ctx, symbol, r); err != nil {
			return err
		}
	}
	if err := u.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := u.market.FetchFundamentals(ctx, symbol)
	return err
}
