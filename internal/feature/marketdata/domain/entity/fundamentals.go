package entity

import "time"

// Canonical field paths inside a FundamentalsSnapshot.
// Every provider adapter normalizes its payload into these paths.
const (
	FieldPreviousClose   = "price.regularMarketPreviousClose"
	FieldOpen            = "price.regularMarketOpen"
	FieldBid             = "summaryDetail.bid"
	FieldDayLow          = "summaryDetail.dayLow"
	FieldDayHigh         = "summaryDetail.dayHigh"
	FieldAverageVolume   = "summaryDetail.averageVolume"
	FieldMarketCap       = "summaryDetail.marketCap"
	FieldEarningsDate    = "calendarEvents.earnings.earningsDate"
	FieldTargetMeanPrice = "financialData.targetMeanPrice"
)

// Field is one scalar from a provider payload: the machine value (Raw),
// the provider's display string (Fmt), or a list of candidates (Items).
type Field struct {
	Raw   *float64 `json:"raw,omitempty"`
	Fmt   string   `json:"fmt,omitempty"`
	Items []Field  `json:"items,omitempty"`
}

// Number returns a Field holding a raw number.
func Number(v float64) Field {
	return Field{Raw: &v}
}

// Text returns a Field holding only a display string.
func Text(s string) Field {
	return Field{Fmt: s}
}

// FundamentalsSnapshot is the point-in-time company data for one ticker.
// It stays opaque until the keymetrics extractor reads it.
type FundamentalsSnapshot struct {
	Ticker    Ticker           `json:"ticker"`
	Provider  string           `json:"provider"`
	FetchedAt time.Time        `json:"fetched_at"`
	Fields    map[string]Field `json:"fields"`
}

// Lookup returns the field at path.
func (f FundamentalsSnapshot) Lookup(path string) (Field, bool) {
	v, ok := f.Fields[path]
	return v, ok
}
