// Package entity defines the KeyMetrics model produced by the metrics extractor.
package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NotAvailable is the sentinel stored for any metric the provider did not supply.
const NotAvailable = "N/A"

// Canonical metric names in display order.
const (
	PreviousClose         = "Previous Close"
	Open                  = "Open"
	Bid                   = "Bid"
	DaysRange             = "Day's Range"
	AverageVolume         = "Average Volume"
	MarketCap             = "Market Cap"
	EarningsDate          = "Earnings Date"
	OneYearTargetEstimate = "1-Year Target Estimate"
)

// Names returns the canonical metric names in display order.
func Names() []string {
	return []string{
		PreviousClose,
		Open,
		Bid,
		DaysRange,
		AverageVolume,
		MarketCap,
		EarningsDate,
		OneYearTargetEstimate,
	}
}

// Metric is one named value. Value is a float64, a string, or NotAvailable.
type Metric struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Available reports whether the metric holds a real value.
func (m Metric) Available() bool {
	s, ok := m.Value.(string)
	return !ok || s != NotAvailable
}

// ValueString renders the value for prompts and tables.
func (m Metric) ValueString() string {
	switch v := m.Value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case nil:
		return NotAvailable
	default:
		return fmt.Sprint(v)
	}
}

// KeyMetrics は正規名の順序を保った指標の一覧です。
// 全ての正規名が必ず含まれ、欠損値は NotAvailable になります。
type KeyMetrics []Metric

// Get returns the value stored under name.
func (k KeyMetrics) Get(name string) (any, bool) {
	for _, m := range k {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the metrics as a JSON object whose keys keep display order.
func (k KeyMetrics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range k {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
