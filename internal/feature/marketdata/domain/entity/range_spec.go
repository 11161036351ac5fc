package entity

import (
	"fmt"
	"time"

	"stock_insights/internal/feature/marketdata/domain"
)

const (
	// DefaultPeriod は価格履歴のデフォルト期間です（1か月）。
	DefaultPeriod = "1mo"
	// DefaultInterval はデフォルトのサンプリング間隔です（日足）。
	DefaultInterval = "1d"
)

// periodLookback maps each supported period to its lookback. "ytd" and "max" are resolved by Start.
var periodLookback = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"5d":  5 * 24 * time.Hour,
	"1mo": 31 * 24 * time.Hour,
	"3mo": 92 * 24 * time.Hour,
	"6mo": 183 * 24 * time.Hour,
	"1y":  366 * 24 * time.Hour,
	"2y":  2 * 366 * 24 * time.Hour,
	"5y":  5 * 366 * 24 * time.Hour,
	"10y": 10 * 366 * 24 * time.Hour,
	"ytd": 0,
	"max": 0,
}

var supportedIntervals = map[string]struct{}{
	"1d":  {},
	"1wk": {},
	"1mo": {},
}

// RangeSpec encodes a lookback window and a sampling interval,
// e.g. {Period: "1mo", Interval: "1d"} for one month of daily bars.
type RangeSpec struct {
	Period   string `json:"period"`
	Interval string `json:"interval"`
}

// NewRangeSpec fills defaults for empty fields and validates the result.
func NewRangeSpec(period, interval string) (RangeSpec, error) {
	if period == "" {
		period = DefaultPeriod
	}
	if interval == "" {
		interval = DefaultInterval
	}
	if _, ok := periodLookback[period]; !ok {
		return RangeSpec{}, fmt.Errorf("%w: period %q", domain.ErrInvalidRange, period)
	}
	if _, ok := supportedIntervals[interval]; !ok {
		return RangeSpec{}, fmt.Errorf("%w: interval %q", domain.ErrInvalidRange, interval)
	}
	return RangeSpec{Period: period, Interval: interval}, nil
}

// DefaultRange returns one month of daily bars.
func DefaultRange() RangeSpec {
	return RangeSpec{Period: DefaultPeriod, Interval: DefaultInterval}
}

// Start returns the first instant covered by the period, relative to now.
// "max" returns the zero time.
func (r RangeSpec) Start(now time.Time) time.Time {
	switch r.Period {
	case "max":
		return time.Time{}
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}
	return now.Add(-periodLookback[r.Period])
}

// String returns "period/interval", used in cache keys and logs.
func (r RangeSpec) String() string {
	return r.Period + "/" + r.Interval
}
