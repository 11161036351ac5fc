// Package dto はmarketdataフィーチャーのHTTPレスポンス型を定義します。
package dto

import (
	"time"

	kmentity "stock_insights/internal/feature/keymetrics/domain/entity"
	"stock_insights/internal/feature/marketdata/domain/entity"
)

// DateLayout is the date format used for every price row.
const DateLayout = "2006-01-02"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PricePointResponse は1本分の価格データです。
type PricePointResponse struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// PriceSeriesResponse は価格履歴のレスポンスです。
type PriceSeriesResponse struct {
	Ticker   string               `json:"ticker"`
	Period   string               `json:"period"`
	Interval string               `json:"interval"`
	Provider string               `json:"provider"`
	Points   []PricePointResponse `json:"points"`
}

// FundamentalsResponse carries the raw snapshot next to the extracted metrics.
type FundamentalsResponse struct {
	Ticker    string                  `json:"ticker"`
	Provider  string                  `json:"provider"`
	FetchedAt time.Time               `json:"fetched_at"`
	Fields    map[string]entity.Field `json:"fields"`
	Metrics   kmentity.KeyMetrics     `json:"metrics"`
}

// NewPricePoints formats points with DateLayout in UTC.
func NewPricePoints(points []entity.PricePoint) []PricePointResponse {
	out := make([]PricePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, PricePointResponse{
			Time:   p.Time.UTC().Format(DateLayout),
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		})
	}
	return out
}

func NewPriceSeriesResponse(s entity.PriceSeries) PriceSeriesResponse {
	return PriceSeriesResponse{
		Ticker:   s.Ticker.String(),
		Period:   s.Range.Period,
		Interval: s.Range.Interval,
		Provider: s.Provider,
		Points:   NewPricePoints(s.Points),
	}
}

func NewFundamentalsResponse(f entity.FundamentalsSnapshot, metrics kmentity.KeyMetrics) FundamentalsResponse {
	return FundamentalsResponse{
		Ticker:    f.Ticker.String(),
		Provider:  f.Provider,
		FetchedAt: f.FetchedAt,
		Fields:    f.Fields,
		Metrics:   metrics,
	}
}
