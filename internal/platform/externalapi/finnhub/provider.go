package finnhub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"stock_insights/internal/feature/marketdata/domain"
	"stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/feature/marketdata/usecase"
	"stock_insights/internal/platform/externalapi/apiclient"
	"stock_insights/internal/platform/externalapi/quotesummary"
)

// Name is the provider identifier used in config and cache keys.
const Name = "finnhub"

// earningsLookahead bounds the /calendar/earnings query window.
const earningsLookahead = 120 * 24 * time.Hour

var resolutions = map[string]string{
	"1d":  "D",
	"1wk": "W",
	"1mo": "M",
}

// Provider は Finnhub から価格履歴とファンダメンタルズを取得する MarketDataProvider 実装です。
// ファンダメンタルズは複数のエンドポイントを並行に呼び出して1つのスナップショットに合成します。
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

// Name returns "finnhub".
func (p *Provider) Name() string { return Name }

func (p *Provider) get(ctx context.Context, path string, q url.Values) (gjson.Result, error) {
	h := http.Header{}
	h.Set("X-Finnhub-Token", p.cfg.APIKey)
	body, err := p.api.GetJSON(ctx, fmt.Sprintf("%s%s?%s", p.cfg.BaseURL, path, q.Encode()), h)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(body), nil
}

// GetPriceHistory calls /stock/candle. A status of "no_data" is ErrNoDataReturned.
func (p *Provider) GetPriceHistory(ctx context.Context, ticker entity.Ticker, r entity.RangeSpec) (entity.PriceSeries, error) {
	now := p.now().UTC()
	q := url.Values{}
	q.Set("symbol", ticker.String())
	q.Set("resolution", resolutions[r.Interval])
	q.Set("from", strconv.FormatInt(r.Start(now).Unix(), 10))
	q.Set("to", strconv.FormatInt(now.Unix(), 10))

	res, err := p.get(ctx, "/stock/candle", q)
	if err != nil {
		return entity.PriceSeries{}, err
	}
	if s := res.Get("s").String(); s != "ok" {
		return entity.PriceSeries{}, fmt.Errorf("%w: finnhub status %q for %s", domain.ErrNoDataReturned, s, ticker)
	}

	ts := res.Get("t").Array()
	closes := res.Get("c").Array()
	if len(ts) == 0 || len(ts) != len(closes) {
		return entity.PriceSeries{}, fmt.Errorf("%w: finnhub candle arrays for %s are empty or misaligned", domain.ErrNoDataReturned, ticker)
	}
	opens, highs, lows, vols := res.Get("o").Array(), res.Get("h").Array(), res.Get("l").Array(), res.Get("v").Array()

	points := make([]entity.PricePoint, 0, len(ts))
	for i := range ts {
		points = append(points, entity.PricePoint{
			Time:   time.Unix(ts[i].Int(), 0).UTC(),
			Open:   at(opens, i).Float(),
			High:   at(highs, i).Float(),
			Low:    at(lows, i).Float(),
			Close:  closes[i].Float(),
			Volume: at(vols, i).Int(),
		})
	}
	return entity.NewPriceSeries(ticker, r, Name, points)
}

func at(arr []gjson.Result, i int) gjson.Result {
	if i < len(arr) {
		return arr[i]
	}
	return gjson.Result{}
}

// GetFundamentals merges /quote, /stock/metric, /calendar/earnings and
// /stock/price-target. The quote is required. The other endpoints only
// enrich the snapshot; their failures are logged and the fields left
// missing, except quota errors which fail the whole fetch.
func (p *Provider) GetFundamentals(ctx context.Context, ticker entity.Ticker) (entity.FundamentalsSnapshot, error) {
	now := p.now().UTC()
	sym := url.Values{}
	sym.Set("symbol", ticker.String())

	var quote, metric, earnings, target gjson.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		quote, err = p.get(gctx, "/quote", sym)
		return err
	})
	g.Go(func() error {
		q := url.Values{}
		q.Set("symbol", ticker.String())
		q.Set("metric", "all")
		return p.optional(gctx, ticker, "/stock/metric", q, &metric)
	})
	g.Go(func() error {
		q := url.Values{}
		q.Set("symbol", ticker.String())
		q.Set("from", now.Format(time.DateOnly))
		q.Set("to", now.Add(earningsLookahead).Format(time.DateOnly))
		return p.optional(gctx, ticker, "/calendar/earnings", q, &earnings)
	})
	g.Go(func() error {
		return p.optional(gctx, ticker, "/stock/price-target", sym, &target)
	})
	if err := g.Wait(); err != nil {
		return entity.FundamentalsSnapshot{}, err
	}

	// Finnhub answers unknown symbols with an all-zero quote.
	if quote.Get("c").Float() == 0 && quote.Get("t").Int() == 0 {
		return entity.FundamentalsSnapshot{}, fmt.Errorf("%w: finnhub returned an empty quote for %s", domain.ErrNoDataReturned, ticker)
	}

	fields := map[string]entity.Field{}
	setNumber(fields, entity.FieldPreviousClose, quote.Get("pc"))
	setNumber(fields, entity.FieldOpen, quote.Get("o"))
	setNumber(fields, entity.FieldDayLow, quote.Get("l"))
	setNumber(fields, entity.FieldDayHigh, quote.Get("h"))

	// /stock/metric reports volume and market cap in millions.
	if v := metric.Get("metric.10DayAverageTradingVolume"); v.Type == gjson.Number {
		fields[entity.FieldAverageVolume] = entity.Number(v.Float() * 1e6)
	}
	if v := metric.Get("metric.marketCapitalization"); v.Type == gjson.Number && v.Float() > 0 {
		mc := v.Float() * 1e6
		fields[entity.FieldMarketCap] = entity.Field{Raw: &mc, Fmt: quotesummary.CompactNumber(mc)}
	}
	if dates := earningsDates(earnings, now); len(dates) > 0 {
		fields[entity.FieldEarningsDate] = entity.Field{Items: dates}
	}
	setNumber(fields, entity.FieldTargetMeanPrice, target.Get("targetMean"))

	return entity.FundamentalsSnapshot{
		Ticker:    ticker,
		Provider:  Name,
		FetchedAt: now,
		Fields:    fields,
	}, nil
}

// optional fetches an enrichment endpoint into dst.
func (p *Provider) optional(ctx context.Context, ticker entity.Ticker, path string, q url.Values, dst *gjson.Result) error {
	res, err := p.get(ctx, path, q)
	if err == nil {
		*dst = res
		return nil
	}
	if errors.Is(err, domain.ErrQuotaExceeded) || ctx.Err() != nil {
		return err
	}
	slog.WarnContext(ctx, "finnhub enrichment endpoint failed", "path", path, "ticker", ticker, "error", err)
	return nil
}

func setNumber(fields map[string]entity.Field, path string, v gjson.Result) {
	if v.Type == gjson.Number && v.Float() != 0 {
		fields[path] = entity.Number(v.Float())
	}
}

// earningsDates returns upcoming report dates in ascending order.
func earningsDates(res gjson.Result, now time.Time) []entity.Field {
	var dates []time.Time
	res.Get("earningsCalendar").ForEach(func(_, e gjson.Result) bool {
		d, err := time.Parse(time.DateOnly, e.Get("date").String())
		if err == nil && !d.Before(now.Truncate(24*time.Hour)) {
			dates = append(dates, d)
		}
		return true
	})
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]entity.Field, 0, len(dates))
	for _, d := range dates {
		raw := float64(d.Unix())
		out = append(out, entity.Field{Raw: &raw, Fmt: d.Format(time.DateOnly)})
	}
	return out
}
