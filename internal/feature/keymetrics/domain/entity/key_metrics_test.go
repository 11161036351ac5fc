package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetric_ValueString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "150.5", Metric{Value: 150.5}.ValueString())
	assert.Equal(t, "1000000", Metric{Value: 1e6}.ValueString())
	assert.Equal(t, "2.5T", Metric{Value: "2.5T"}.ValueString())
	assert.Equal(t, NotAvailable, Metric{}.ValueString())
	assert.Equal(t, "7", Metric{Value: 7}.ValueString())
}

func TestKeyMetrics_Get(t *testing.T) {
	t.Parallel()

	k := KeyMetrics{{Name: Open, Value: 1.0}}
	v, ok := k.Get(Open)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = k.Get(Bid)
	assert.False(t, ok)
}

func TestNames_Order(t *testing.T) {
	t.Parallel()

	names := Names()
	assert.Len(t, names, 8)
	assert.Equal(t, PreviousClose, names[0])
	assert.Equal(t, OneYearTargetEstimate, names[7])
}
