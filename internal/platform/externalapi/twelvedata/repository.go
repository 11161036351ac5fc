package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock_insights/internal/feature/marketdata/domain"
	"stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/feature/marketdata/usecase"
	"stock_insights/internal/platform/externalapi/apiclient"
	"stock_insights/internal/platform/externalapi/twelvedata/dto"
)

// Name is the provider identifier used in config and cache keys.
const Name = "twelvedata"

// maxOutputSize is the largest page Twelve Data serves.
const maxOutputSize = 5000

var intervals = map[string]string{
	"1d":  "1day",
	"1wk": "1week",
	"1mo": "1month",
}

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketDataProvider実装です。
type TwelveDataMarket struct {
	cfg Config
	api *apiclient.Client
	now func() time.Time
}

// TwelveDataMarketがMarketDataProviderを実装していることをコンパイル時に検証します。
var _ usecase.MarketDataProvider = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定と共有APIクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, api *apiclient.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, api: api, now: time.Now}
}

// Name returns "twelvedata".
func (t *TwelveDataMarket) Name() string { return Name }

// get はエンドポイントを呼び出し、レスポンス本文を dst にデコードします。
// 本文内の status:"error" はドメインエラーに変換します。
func (t *TwelveDataMarket) get(ctx context.Context, path string, q url.Values, dst any, status *dto.Status) error {
	q.Set("apikey", t.cfg.APIKey)
	body, err := t.api.GetJSON(ctx, fmt.Sprintf("%s%s?%s", t.cfg.BaseURL, path, q.Encode()), nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: twelvedata: decode %s: %v", domain.ErrNoDataReturned, path, err)
	}
	if status.Status != "error" {
		return nil
	}
	switch status.Code {
	case 429:
		return fmt.Errorf("%w: twelvedata: %s", domain.ErrQuotaExceeded, status.Message)
	case 400, 404:
		if status.Code == 404 || strings.Contains(strings.ToLower(status.Message), "symbol") {
			return fmt.Errorf("%w: twelvedata: %s", domain.ErrSymbolNotFound, status.Message)
		}
	}
	return fmt.Errorf("%w: twelvedata %d: %s", domain.ErrDataUnavailable, status.Code, status.Message)
}

// GetPriceHistory はTwelve Data APIから時系列株価データを取得し、PriceSeriesとして返します。
// 期間の開始日は start_date として渡します。
func (t *TwelveDataMarket) GetPriceHistory(ctx context.Context, ticker entity.Ticker, r entity.RangeSpec) (entity.PriceSeries, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", ticker.String())
	q.Set("interval", intervals[r.Interval])
	q.Set("outputsize", strconv.Itoa(maxOutputSize))
	if start := r.Start(t.now().UTC()); !start.IsZero() {
		q.Set("start_date", start.Format(time.DateOnly))
	}

	var body dto.TimeSeriesResponse
	if err := t.get(ctx, "/time_series", q, &body, &body.Status); err != nil {
		return entity.PriceSeries{}, err
	}

	points := make([]entity.PricePoint, 0, len(body.Values))
	for _, v := range body.Values {
		// タイムスタンプをパース
		tm, err := time.Parse(time.DateTime, v.Datetime)
		if err != nil {
			tm, err = time.Parse(time.DateOnly, v.Datetime)
			if err != nil {
				return entity.PriceSeries{}, fmt.Errorf("%w: parse time %q: %v", domain.ErrNoDataReturned, v.Datetime, err)
			}
		}
		// 終値は必須
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return entity.PriceSeries{}, fmt.Errorf("%w: parse close %q: %v", domain.ErrNoDataReturned, v.Close, err)
		}
		// 始値・高値・安値・出来高は欠けていてもよい
		o, _ := strconv.ParseFloat(v.Open, 64)
		h, _ := strconv.ParseFloat(v.High, 64)
		l, _ := strconv.ParseFloat(v.Low, 64)
		vol, _ := strconv.ParseInt(v.Volume, 10, 64)

		points = append(points, entity.PricePoint{Time: tm.UTC(), Open: o, High: h, Low: l, Close: c, Volume: vol})
	}
	return entity.NewPriceSeries(ticker, r, Name, points)
}

// GetFundamentals は /quote を呼び出します。Twelve Data の quote には
// 買い気配・時価総額・決算日・目標株価がないため、それらは欠損として扱われます。
func (t *TwelveDataMarket) GetFundamentals(ctx context.Context, ticker entity.Ticker) (entity.FundamentalsSnapshot, error) {
	q := url.Values{}
	q.Set("symbol", ticker.String())

	var body dto.QuoteResponse
	if err := t.get(ctx, "/quote", q, &body, &body.Status); err != nil {
		return entity.FundamentalsSnapshot{}, err
	}
	if body.Symbol == "" {
		return entity.FundamentalsSnapshot{}, fmt.Errorf("%w: empty quote for %s", domain.ErrNoDataReturned, ticker)
	}

	fields := map[string]entity.Field{}
	for path, s := range map[string]string{
		entity.FieldPreviousClose: body.PreviousClose,
		entity.FieldOpen:          body.Open,
		entity.FieldDayLow:        body.Low,
		entity.FieldDayHigh:       body.High,
		entity.FieldAverageVolume: body.AverageVolume,
	} {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			fields[path] = entity.Field{Raw: &v, Fmt: s}
		}
	}

	return entity.FundamentalsSnapshot{
		Ticker:    ticker,
		Provider:  Name,
		FetchedAt: t.now().UTC(),
		Fields:    fields,
	}, nil
}
