package entity

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stock_insights/internal/feature/marketdata/domain"
)

// PricePoint is one OHLCV observation. Only Time and Close are guaranteed;
// providers that lack the other fields leave them zero.
type PricePoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is an ordered price history for one ticker and range.
// Points are sorted by ascending Time with no duplicate timestamps.
// A series is never mutated after NewPriceSeries returns it.
type PriceSeries struct {
	Ticker   Ticker       `json:"ticker"`
	Range    RangeSpec    `json:"range"`
	Provider string       `json:"provider"`
	Points   []PricePoint `json:"points"`
}

// NewPriceSeries sorts points ascending and drops duplicate timestamps,
// keeping the later occurrence in input order. An empty input is ErrNoDataReturned.
func NewPriceSeries(ticker Ticker, r RangeSpec, provider string, points []PricePoint) (PriceSeries, error) {
	if len(points) == 0 {
		return PriceSeries{}, fmt.Errorf("%w: empty price series for %s", domain.ErrNoDataReturned, ticker)
	}

	latest := make(map[int64]int, len(points))
	for i, p := range points {
		latest[p.Time.UnixNano()] = i
	}
	out := make([]PricePoint, 0, len(latest))
	for i, p := range points {
		if latest[p.Time.UnixNano()] == i {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	return PriceSeries{Ticker: ticker, Range: r, Provider: provider, Points: out}, nil
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// Tail returns the most recent n observations (all of them if n >= Len).
func (s PriceSeries) Tail(n int) []PricePoint {
	if n <= 0 {
		return nil
	}
	if n >= len(s.Points) {
		return s.Points
	}
	return s.Points[len(s.Points)-n:]
}

// DailyChange is one row of the recent-prices table.
type DailyChange struct {
	Time      time.Time `json:"time"`
	Close     float64   `json:"close"`
	ChangePct float64   `json:"change_pct"`
}

// DailyChanges computes the percent change between consecutive closes over the
// trailing n observations, rounded to 2 decimals. The first row is always 0
// because the window has no prior value.
func (s PriceSeries) DailyChanges(n int) []DailyChange {
	tail := s.Tail(n)
	out := make([]DailyChange, 0, len(tail))
	for i, p := range tail {
		row := DailyChange{Time: p.Time, Close: p.Close}
		if i > 0 {
			row.ChangePct = percentChange(tail[i-1].Close, p.Close)
		}
		out = append(out, row)
	}
	return out
}

func percentChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	p := decimal.NewFromFloat(prev)
	pct := decimal.NewFromFloat(cur).Sub(p).Div(p).Mul(decimal.NewFromInt(100)).Round(2)
	f, _ := pct.Float64()
	return f
}
