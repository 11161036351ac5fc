// Package dto はinsightsフィーチャーのHTTPレスポンス型を定義します。
package dto

import (
	"time"

	"stock_insights/internal/feature/insights/domain/entity"
	kmentity "stock_insights/internal/feature/keymetrics/domain/entity"
	mddto "stock_insights/internal/feature/marketdata/transport/http/dto"
	nentity "stock_insights/internal/feature/narrative/domain/entity"
)

// RecentRow is one row of the recent-prices table.
type RecentRow struct {
	Date      string  `json:"date"`
	Close     float64 `json:"close"`
	ChangePct float64 `json:"change_pct"`
}

// ReportResponse はレポート全体のレスポンスです。
type ReportResponse struct {
	Ticker      string                     `json:"ticker"`
	Period      string                     `json:"period"`
	Interval    string                     `json:"interval"`
	Provider    string                     `json:"provider"`
	Prices      []mddto.PricePointResponse `json:"prices"`
	Recent      []RecentRow                `json:"recent"`
	Metrics     kmentity.KeyMetrics        `json:"metrics"`
	Narrative   nentity.NarrativeResult    `json:"narrative"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

func NewReportResponse(r *entity.Report) ReportResponse {
	recent := make([]RecentRow, 0, len(r.Recent))
	for _, c := range r.Recent {
		recent = append(recent, RecentRow{
			Date:      c.Time.UTC().Format(mddto.DateLayout),
			Close:     c.Close,
			ChangePct: c.ChangePct,
		})
	}
	return ReportResponse{
		Ticker:      r.Ticker.String(),
		Period:      r.Range.Period,
		Interval:    r.Range.Interval,
		Provider:    r.Provider,
		Prices:      mddto.NewPricePoints(r.Prices.Points),
		Recent:      recent,
		Metrics:     r.Metrics,
		Narrative:   r.Narrative,
		GeneratedAt: r.GeneratedAt,
	}
}
