// Package usecase はティッカー1件分のレポートを組み立てるパイプラインを実装します。
package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"stock_insights/internal/feature/insights/domain/entity"
	kmentity "stock_insights/internal/feature/keymetrics/domain/entity"
	kmusecase "stock_insights/internal/feature/keymetrics/usecase"
	mdentity "stock_insights/internal/feature/marketdata/domain/entity"
	ndomain "stock_insights/internal/feature/narrative/domain"
	nentity "stock_insights/internal/feature/narrative/domain/entity"
	"stock_insights/internal/platform/trace"
)

// RecentWindow is the number of rows in the recent-change table.
const RecentWindow = 5

// MarketData は価格履歴とファンダメンタルズの取得を抽象化します。
type MarketData interface {
	ProviderName() string
	FetchPriceHistory(ctx context.Context, rawTicker string, r mdentity.RangeSpec) (mdentity.PriceSeries, error)
	FetchFundamentals(ctx context.Context, rawTicker string) (mdentity.FundamentalsSnapshot, error)
}

// Narrator はLLMによる解説文生成を抽象化します。
type Narrator interface {
	ExplainMetrics(ctx context.Context, ticker mdentity.Ticker, metrics kmentity.KeyMetrics) (string, error)
	SummarizeTrend(ctx context.Context, ticker mdentity.Ticker, series mdentity.PriceSeries) (string, error)
	AssessSentiment(ctx context.Context, ticker mdentity.Ticker, series mdentity.PriceSeries) (string, error)
}

// InsightsUsecase runs fetch, extract and narrate for one ticker.
type InsightsUsecase struct {
	market   MarketData
	narrator Narrator
	now      func() time.Time
}

// NewInsightsUsecase は InsightsUsecase の新しいインスタンスを生成します。
// narrator が nil の場合、解説文セクションはすべて利用不可として返されます。
func NewInsightsUsecase(market MarketData, narrator Narrator) *InsightsUsecase {
	return &InsightsUsecase{market: market, narrator: narrator, now: time.Now}
}

// GetInsights fetches prices and fundamentals concurrently. Either failure aborts
// the report. Narrative failures are recorded per section and never fail the report.
func (u *InsightsUsecase) GetInsights(ctx context.Context, rawTicker string, r mdentity.RangeSpec) (*entity.Report, error) {
	ctx, span := trace.StartSpan(ctx, "insights.get", attribute.String("ticker", rawTicker))
	defer span.End()

	var (
		series mdentity.PriceSeries
		snap   mdentity.FundamentalsSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		series, err = u.market.FetchPriceHistory(gctx, rawTicker, r)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = u.market.FetchFundamentals(gctx, rawTicker)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics := kmusecase.Extract(snap)
	report := &entity.Report{
		Ticker:      series.Ticker,
		Range:       series.Range,
		Provider:    u.market.ProviderName(),
		Prices:      series,
		Recent:      series.DailyChanges(RecentWindow),
		Metrics:     metrics,
		GeneratedAt: u.now().UTC(),
	}
	report.Narrative = u.narrate(ctx, series, metrics)
	return report, nil
}

func (u *InsightsUsecase) narrate(ctx context.Context, series mdentity.PriceSeries, metrics kmentity.KeyMetrics) nentity.NarrativeResult {
	if u.narrator == nil {
		msg := ndomain.UserMessage(ndomain.ErrNarrativeUnavailable)
		return nentity.NarrativeResult{
			Explanation: nentity.Section{Error: msg},
			Summary:     nentity.Section{Error: msg},
			Sentiment:   nentity.Section{Error: msg},
		}
	}

	var out nentity.NarrativeResult
	var g errgroup.Group
	g.Go(func() error {
		out.Explanation = section(u.narrator.ExplainMetrics(ctx, series.Ticker, metrics))
		return nil
	})
	g.Go(func() error {
		out.Summary = section(u.narrator.SummarizeTrend(ctx, series.Ticker, series))
		return nil
	})
	g.Go(func() error {
		out.Sentiment = section(u.narrator.AssessSentiment(ctx, series.Ticker, series))
		return nil
	})
	_ = g.Wait()
	return out
}

func section(text string, err error) nentity.Section {
	if err != nil {
		return nentity.Section{Error: ndomain.UserMessage(err)}
	}
	return nentity.Section{Text: text}
}
