package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kmentity "stock_insights/internal/feature/keymetrics/domain/entity"
	mdentity "stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/feature/narrative/domain"
	"stock_insights/internal/feature/narrative/usecase"
)

// mockGenerator は TextGenerator インターフェースのモック実装です。
type mockGenerator struct {
	mu           sync.Mutex
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	Prompts      []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", errors.New("GenerateFunc is not implemented")
}

func sampleSeries(t *testing.T, n int) mdentity.PriceSeries {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]mdentity.PricePoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, mdentity.PricePoint{Time: base.AddDate(0, 0, i), Close: float64(100 + i)})
	}
	s, err := mdentity.NewPriceSeries("AAPL", mdentity.DefaultRange(), "test", points)
	require.NoError(t, err)
	return s
}

// TestNarrativeUsecase_ExplainMetrics は各指標が1行ずつプロンプトに含まれることを検証します。
func TestNarrativeUsecase_ExplainMetrics(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "  explanation\n", nil
	}}
	uc := usecase.NewNarrativeUsecase(gen)

	metrics := kmentity.KeyMetrics{
		{Name: kmentity.PreviousClose, Value: 150.0},
		{Name: kmentity.MarketCap, Value: "2.5T"},
		{Name: kmentity.Bid, Value: kmentity.NotAvailable},
	}
	text, err := uc.ExplainMetrics(context.Background(), "AAPL", metrics)
	require.NoError(t, err)
	assert.Equal(t, "explanation", text)

	require.Len(t, gen.Prompts, 1)
	p := gen.Prompts[0]
	assert.Contains(t, p, "stock AAPL")
	assert.Contains(t, p, "- Previous Close: 150\n")
	assert.Contains(t, p, "- Market Cap: 2.5T\n")
	assert.Contains(t, p, "- Bid: N/A\n")
}

// TestNarrativeUsecase_TrendUsesLastFiveObservations は直近5件のみがプロンプトに含まれることを検証します。
func TestNarrativeUsecase_TrendUsesLastFiveObservations(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "ok", nil
	}}
	uc := usecase.NewNarrativeUsecase(gen)
	series := sampleSeries(t, 8)

	_, err := uc.SummarizeTrend(context.Background(), "AAPL", series)
	require.NoError(t, err)
	_, err = uc.AssessSentiment(context.Background(), "AAPL", series)
	require.NoError(t, err)

	require.Len(t, gen.Prompts, 2)
	for _, p := range gen.Prompts {
		assert.NotContains(t, p, "2024-01-03 |")
		assert.Contains(t, p, "2024-01-04 | 103 | 0.00")
		assert.Contains(t, p, "2024-01-08 | 107 |")
	}
	assert.Contains(t, gen.Prompts[0], "short-term price trend")
	assert.Contains(t, gen.Prompts[1], "casual tone")
}

func TestNarrativeUsecase_FailuresAreNarrativeUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(ctx context.Context, prompt string) (string, error)
	}{
		{"provider error", func(ctx context.Context, prompt string) (string, error) { return "", errors.New("401 unauthorized") }},
		{"empty text", func(ctx context.Context, prompt string) (string, error) { return " \n ", nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewNarrativeUsecase(&mockGenerator{GenerateFunc: tt.fn})
			_, err := uc.RandomFact(context.Background())
			assert.ErrorIs(t, err, domain.ErrNarrativeUnavailable)
			assert.NotEmpty(t, domain.UserMessage(err))
		})
	}
}

// TestNarrativeUsecase_NilGenerator はLLM無効時にすべての生成が利用不可になることを検証します。
func TestNarrativeUsecase_NilGenerator(t *testing.T) {
	t.Parallel()

	uc := usecase.NewNarrativeUsecase(nil)

	_, err := uc.RandomFact(context.Background())
	assert.ErrorIs(t, err, domain.ErrNarrativeUnavailable)

	_, err = uc.SummarizeTrend(context.Background(), "AAPL", sampleSeries(t, 3))
	assert.ErrorIs(t, err, domain.ErrNarrativeUnavailable)
}

func TestRecentPriceTable(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := mdentity.NewPriceSeries("AAPL", mdentity.DefaultRange(), "test", []mdentity.PricePoint{
		{Time: base, Close: 100},
		{Time: base.AddDate(0, 0, 1), Close: 102},
		{Time: base.AddDate(0, 0, 2), Close: 99},
	})
	require.NoError(t, err)

	table := usecase.RecentPriceTable(s)
	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2024-01-01 | 100 | 0.00", lines[1])
	assert.Equal(t, "2024-01-02 | 102 | 2.00", lines[2])
	assert.Equal(t, "2024-01-03 | 99 | -2.94", lines[3])
}

func TestRandomFactPrompt(t *testing.T) {
	t.Parallel()

	assert.Contains(t, usecase.RandomFactPrompt(), "stock-market fact")
}
