// Package entity defines the insights report model.
package entity

import (
	"time"

	kmentity "stock_insights/internal/feature/keymetrics/domain/entity"
	mdentity "stock_insights/internal/feature/marketdata/domain/entity"
	nentity "stock_insights/internal/feature/narrative/domain/entity"
)

// Report is everything shown for one ticker: prices, the recent-change table,
// key metrics, and the generated commentary.
type Report struct {
	Ticker      mdentity.Ticker
	Range       mdentity.RangeSpec
	Provider    string
	Prices      mdentity.PriceSeries
	Recent      []mdentity.DailyChange
	Metrics     kmentity.KeyMetrics
	Narrative   nentity.NarrativeResult
	GeneratedAt time.Time
}
