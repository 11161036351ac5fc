// Package entity defines the domain models for the marketdata feature.
package entity

import (
	"fmt"
	"regexp"
	"strings"

	"stock_insights/internal/feature/marketdata/domain"
)

// tickerPattern is the strict symbol format: 1 to 5 upper-case letters.
var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// Ticker is a validated, upper-cased stock symbol (e.g. "AAPL").
type Ticker string

// ParseTicker trims and upper-cases s. Empty input is always rejected;
// when strict is true the symbol must also match ^[A-Z]{1,5}$.
func ParseTicker(s string, strict bool) (Ticker, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if t == "" {
		return "", fmt.Errorf("%w: empty symbol", domain.ErrInvalidTicker)
	}
	if strict && !tickerPattern.MatchString(t) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTicker, t)
	}
	return Ticker(t), nil
}

// String returns the symbol text.
func (t Ticker) String() string { return string(t) }
