package rapidapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"stock_insights/internal/feature/marketdata/domain"
	"stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/feature/marketdata/usecase"
	"stock_insights/internal/platform/externalapi/apiclient"
	"stock_insights/internal/platform/externalapi/quotesummary"
)

// Name is the provider identifier used in config and cache keys.
const Name = "rapidapi"

// Provider は RapidAPI (yahoo-finance15) から価格履歴とファンダメンタルズを取得する MarketDataProvider 実装です。
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

// Name returns "rapidapi".
func (p *Provider) Name() string { return Name }

func (p *Provider) header() http.Header {
	h := http.Header{}
	h.Set("X-RapidAPI-Key", p.cfg.APIKey)
	h.Set("X-RapidAPI-Host", p.cfg.Host)
	return h
}

// GetPriceHistory calls /api/v2/historical/{ticker}?period=.
// The endpoint returns daily bars; items may be an array or an object keyed by timestamp.
func (p *Provider) GetPriceHistory(ctx context.Context, ticker entity.Ticker, r entity.RangeSpec) (entity.PriceSeries, error) {
	q := url.Values{}
	q.Set("period", r.Period)
	u := fmt.Sprintf("%s/api/v2/historical/%s?%s", p.cfg.BaseURL, url.PathEscape(ticker.String()), q.Encode())

	body, err := p.api.GetJSON(ctx, u, p.header())
	if err != nil {
		return entity.PriceSeries{}, err
	}

	items := gjson.GetBytes(body, "items")
	if !items.IsArray() && !items.IsObject() {
		return entity.PriceSeries{}, fmt.Errorf("%w: no items for %s", domain.ErrNoDataReturned, ticker)
	}

	points := make([]entity.PricePoint, 0, 32)
	skipped := 0
	items.ForEach(func(key, item gjson.Result) bool {
		ts, ok := itemTime(key, item)
		c := item.Get("close")
		if !ok || c.Type != gjson.Number {
			skipped++
			return true
		}
		points = append(points, entity.PricePoint{
			Time:   ts,
			Open:   item.Get("open").Float(),
			High:   item.Get("high").Float(),
			Low:    item.Get("low").Float(),
			Close:  c.Float(),
			Volume: item.Get("volume").Int(),
		})
		return true
	})
	if skipped > 0 {
		slog.DebugContext(ctx, "skipped bars without time or close", "provider", Name, "ticker", ticker.String(), "skipped", skipped)
	}

	return entity.NewPriceSeries(ticker, r, Name, points)
}

// itemTime reads the Unix epoch seconds of one item. Object-shaped payloads
// carry it in date_utc or in the key itself.
func itemTime(key, item gjson.Result) (time.Time, bool) {
	for _, f := range []string{"date", "date_utc"} {
		if v := item.Get(f); v.Type == gjson.Number {
			return time.Unix(v.Int(), 0).UTC(), true
		}
	}
	if key.Type == gjson.String {
		if sec, err := strconv.ParseInt(key.String(), 10, 64); err == nil {
			return time.Unix(sec, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

// GetFundamentals calls /api/v2/quote/{ticker}. A payload without a price
// section is treated as ErrNoDataReturned.
func (p *Provider) GetFundamentals(ctx context.Context, ticker entity.Ticker) (entity.FundamentalsSnapshot, error) {
	u := fmt.Sprintf("%s/api/v2/quote/%s", p.cfg.BaseURL, url.PathEscape(ticker.String()))

	body, err := p.api.GetJSON(ctx, u, p.header())
	if err != nil {
		return entity.FundamentalsSnapshot{}, err
	}

	root := gjson.ParseBytes(body)
	if b := root.Get("body"); b.IsObject() {
		root = b
	}
	fields, ok := quotesummary.Normalize(root)
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
