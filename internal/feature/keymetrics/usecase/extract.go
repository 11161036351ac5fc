// Package usecase implements the metrics extractor, a pure transform from a
// FundamentalsSnapshot to KeyMetrics.
package usecase

import (
	"strconv"

	"stock_insights/internal/feature/keymetrics/domain/entity"
	mdentity "stock_insights/internal/feature/marketdata/domain/entity"
)

// representation selects which part of a provider Field becomes the metric value.
type representation int

const (
	// rawValue prefers the machine number and falls back to the display string.
	rawValue representation = iota
	// fmtValue prefers the display string and falls back to the machine number.
	fmtValue
	// firstItemFmt takes the display string of the first candidate in Items.
	firstItemFmt
)

type mapping struct {
	name string
	path string
	repr representation
}

// metricTable は正規名とプロバイダーフィールドパスの固定対応表です。
// Day's Range は2つのフィールドを組み合わせるため別途処理します。
var metricTable = []mapping{
	{name: entity.PreviousClose, path: mdentity.FieldPreviousClose, repr: rawValue},
	{name: entity.Open, path: mdentity.FieldOpen, repr: rawValue},
	{name: entity.Bid, path: mdentity.FieldBid, repr: rawValue},
	{name: entity.DaysRange},
	{name: entity.AverageVolume, path: mdentity.FieldAverageVolume, repr: rawValue},
	{name: entity.MarketCap, path: mdentity.FieldMarketCap, repr: fmtValue},
	{name: entity.EarningsDate, path: mdentity.FieldEarningsDate, repr: firstItemFmt},
	{name: entity.OneYearTargetEstimate, path: mdentity.FieldTargetMeanPrice, repr: rawValue},
}

// Extract maps a snapshot to the canonical KeyMetrics. It never fails:
// a missing field yields entity.NotAvailable and unknown fields are ignored.
func Extract(snap mdentity.FundamentalsSnapshot) entity.KeyMetrics {
	out := make(entity.KeyMetrics, 0, len(metricTable))
	for _, m := range metricTable {
		if m.name == entity.DaysRange {
			out = append(out, entity.Metric{Name: m.name, Value: daysRange(snap)})
			continue
		}
		f, ok := snap.Lookup(m.path)
		if !ok {
			out = append(out, entity.Metric{Name: m.name, Value: entity.NotAvailable})
			continue
		}
		out = append(out, entity.Metric{Name: m.name, Value: valueOf(f, m.repr)})
	}
	return out
}

func valueOf(f mdentity.Field, repr representation) any {
	switch repr {
	case fmtValue:
		if f.Fmt != "" {
			return f.Fmt
		}
		if f.Raw != nil {
			return *f.Raw
		}
	case firstItemFmt:
		if len(f.Items) > 0 {
			return valueOf(f.Items[0], fmtValue)
		}
		if f.Fmt != "" {
			return f.Fmt
		}
	default:
		if f.Raw != nil {
			return *f.Raw
		}
		if f.Fmt != "" {
			return f.Fmt
		}
	}
	return entity.NotAvailable
}

// daysRange renders "low – high". Only when both bounds are missing is the
// whole metric NotAvailable.
func daysRange(snap mdentity.FundamentalsSnapshot) any {
	low, lowOK := boundText(snap, mdentity.FieldDayLow)
	high, highOK := boundText(snap, mdentity.FieldDayHigh)
	if !lowOK && !highOK {
		return entity.NotAvailable
	}
	return low + " – " + high
}

func boundText(snap mdentity.FundamentalsSnapshot, path string) (string, bool) {
	f, ok := snap.Lookup(path)
	if !ok {
		return entity.NotAvailable, false
	}
	switch {
	case f.Raw != nil:
		return strconv.FormatFloat(*f.Raw, 'f', -1, 64), true
	case f.Fmt != "":
		return f.Fmt, true
	}
	return entity.NotAvailable, false
}
