package quotesummary

import (
	"github.com/shopspring/decimal"
)

var compactUnits = []struct {
	size   decimal.Decimal
	suffix string
}{
	{decimal.New(1, 12), "T"},
	{decimal.New(1, 9), "B"},
	{decimal.New(1, 6), "M"},
	{decimal.New(1, 3), "k"},
}

// CompactNumber formats v the way quote-summary fmt strings do for large
// amounts: 2.5e12 becomes "2.5T" and 830123456789 becomes "830.12B".
func CompactNumber(v float64) string {
	d := decimal.NewFromFloat(v)
	abs := d.Abs()
	for _, u := range compactUnits {
		if abs.GreaterThanOrEqual(u.size) {
			return d.Div(u.size).Round(2).String() + u.suffix
		}
	}
	return d.Round(2).String()
}
