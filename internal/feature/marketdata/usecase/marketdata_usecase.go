// Package usecase はマーケットデータ取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stock_insights/internal/feature/marketdata/domain"
	"stock_insights/internal/feature/marketdata/domain/entity"
)

// MarketDataProvider は外部マーケットデータAPIを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
// 実装はプロバイダー固有のJSONを正規化して返し、失敗は domain のエラーでラップします。
type MarketDataProvider interface {
	// Name はプロバイダー名を返します（キャッシュキーとログに使用）。
	Name() string
	// GetPriceHistory は指定期間の価格履歴を取得します。
	GetPriceHistory(ctx context.Context, ticker entity.Ticker, r entity.RangeSpec) (entity.PriceSeries, error)
	// GetFundamentals はファンダメンタルズのスナップショットを取得します。
	GetFundamentals(ctx context.Context, ticker entity.Ticker) (entity.FundamentalsSnapshot, error)
}

// MarketDataUsecase validates input and delegates to the configured provider.
type MarketDataUsecase struct {
	provider MarketDataProvider
	strict   bool
}

// NewMarketDataUsecase は MarketDataUsecase の新しいインスタンスを生成します。
// strict が true の場合、ティッカーは英大文字1〜5文字に限定されます。
func NewMarketDataUsecase(provider MarketDataProvider, strict bool) *MarketDataUsecase {
	return &MarketDataUsecase{provider: provider, strict: strict}
}

// ProviderName returns the name of the underlying provider.
func (u *MarketDataUsecase) ProviderName() string { return u.provider.Name() }

// FetchPriceHistory は価格履歴を取得します。空の Period/Interval はデフォルト値で補完します。
func (u *MarketDataUsecase) FetchPriceHistory(ctx context.Context, rawTicker string, r entity.RangeSpec) (entity.PriceSeries, error) {
	ticker, err := entity.ParseTicker(rawTicker, u.strict)
	if err != nil {
		return entity.PriceSeries{}, err
	}
	r, err = entity.NewRangeSpec(r.Period, r.Interval)
	if err != nil {
		return entity.PriceSeries{}, err
	}

	series, err := u.provider.GetPriceHistory(ctx, ticker, r)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch price history", "provider", u.provider.Name(), "ticker", ticker, "range", r.String(), "error", err)
		return entity.PriceSeries{}, err
	}
	if series.Len() == 0 {
		return entity.PriceSeries{}, fmt.Errorf("%w: %s returned no prices for %s", domain.ErrNoDataReturned, u.provider.Name(), ticker)
	}
	return series, nil
}

// FetchFundamentals はファンダメンタルズを取得します。
func (u *MarketDataUsecase) FetchFundamentals(ctx context.Context, rawTicker string) (entity.FundamentalsSnapshot, error) {
	ticker, err := entity.ParseTicker(rawTicker, u.strict)
	if err != nil {
		return entity.FundamentalsSnapshot{}, err
	}

	snap, err := u.provider.GetFundamentals(ctx, ticker)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch fundamentals", "provider", u.provider.Name(), "ticker", ticker, "error", err)
		return entity.FundamentalsSnapshot{}, err
	}
	return snap, nil
}
