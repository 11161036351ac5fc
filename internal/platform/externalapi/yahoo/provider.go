package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"stock_insights/internal/feature/marketdata/domain"
	"stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/feature/marketdata/usecase"
	"stock_insights/internal/platform/externalapi/apiclient"
	"stock_insights/internal/platform/externalapi/quotesummary"
)

// Name is the provider identifier used in config and cache keys.
const Name = "yahoo"

// Provider は Yahoo Finance の chart / quoteSummary エンドポイントを使う MarketDataProvider 実装です。
type Provider struct {
	cfg Config
	api *apiclient.Client
	now func() time.Time
}

var _ usecase.MarketDataProvider = (*Provider)(nil)

// NewProvider は指定された設定と共有APIクライアントで Provider を生成します。
func NewProvider(cfg Config, api *apiclient.Client) *Provider {
	return &Provider{cfg: cfg, api: api, now: time.Now}
}

// Name returns "yahoo".
func (p *Provider) Name() string { return Name }

func (p *Provider) header() http.Header {
	h := http.Header{}
	h.Set("User-Agent", p.cfg.UserAgent)
	return h
}

// GetPriceHistory calls /v8/finance/chart/{ticker}. Bars with a null close are skipped.
func (p *Provider) GetPriceHistory(ctx context.Context, ticker entity.Ticker, r entity.RangeSpec) (entity.PriceSeries, error) {
	q := url.Values{}
	q.Set("range", r.Period)
	q.Set("interval", r.Interval)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.cfg.BaseURL, url.PathEscape(ticker.String()), q.Encode())

	body, err := p.api.GetJSON(ctx, u, p.header())
	if err != nil {
		return entity.PriceSeries{}, err
	}
	if err := apiError(gjson.GetBytes(body, "chart.error"), ticker); err != nil {
		return entity.PriceSeries{}, err
	}

	result := gjson.GetBytes(body, "chart.result.0")
	ts := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens, highs, lows, closes, vols := quote.Get("open").Array(), quote.Get("high").Array(), quote.Get("low").Array(), quote.Get("close").Array(), quote.Get("volume").Array()

	points := make([]entity.PricePoint, 0, len(ts))
	skipped := 0
	for i, t := range ts {
		if i >= len(closes) || closes[i].Type != gjson.Number {
			skipped++
			continue
		}
		points = append(points, entity.PricePoint{
			Time:   time.Unix(t.Int(), 0).UTC(),
			Open:   at(opens, i),
			High:   at(highs, i),
			Low:    at(lows, i),
			Close:  closes[i].Float(),
			Volume: int64(at(vols, i)),
		})
	}
	if skipped > 0 {
		slog.DebugContext(ctx, "skipped bars without close", "provider", Name, "ticker", ticker.String(), "skipped", skipped)
	}
	return entity.NewPriceSeries(ticker, r, Name, points)
}

func at(arr []gjson.Result, i int) float64 {
	if i < len(arr) {
		return arr[i].Float()
	}
	return 0
}

// GetFundamentals calls /v10/finance/quoteSummary/{ticker} for the modules the
// metrics extractor reads.
func (p *Provider) GetFundamentals(ctx context.Context, ticker entity.Ticker) (entity.FundamentalsSnapshot, error) {
	q := url.Values{}
	q.Set("modules", strings.Join(quotesummary.Modules, ","))
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", p.cfg.BaseURL, url.PathEscape(ticker.String()), q.Encode())

	body, err := p.api.GetJSON(ctx, u, p.header())
	if err != nil {
		return entity.FundamentalsSnapshot{}, err
	}
	if err := apiError(gjson.GetBytes(body, "quoteSummary.error"), ticker); err != nil {
		return entity.FundamentalsSnapshot{}, err
	}

	fields, ok := quotesummary.Normalize(gjson.GetBytes(body, "quoteSummary.result.0"))
	if !ok {
		return entity.FundamentalsSnapshot{}, fmt.Errorf("%w: no fundamentals for %s", domain.ErrNoDataReturned, ticker)
	}
	return entity.FundamentalsSnapshot{
		Ticker:    ticker,
		Provider:  Name,
		FetchedAt: p.now().UTC(),
		Fields:    fields,
	}, nil
}

// apiError maps an in-body {"code","description"} error object.
func apiError(e gjson.Result, ticker entity.Ticker) error {
	if !e.IsObject() {
		return nil
	}
	code := e.Get("code").String()
	desc := e.Get("description").String()
	switch strings.ToLower(code) {
	case "not found":
		return fmt.Errorf("%w: yahoo: %s (%s)", domain.ErrSymbolNotFound, desc, ticker)
	case "too many requests":
		return fmt.Errorf("%w: yahoo: %s", domain.ErrQuotaExceeded, desc)
	}
	return fmt.Errorf("%w: yahoo %s: %s", domain.ErrDataUnavailable, code, desc)
}
