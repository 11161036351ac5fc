// Package usecase はLLMを使った解説文生成のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	kmentity "stock_insights/internal/feature/keymetrics/domain/entity"
	mdentity "stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/feature/narrative/domain"
	"stock_insights/internal/platform/trace"
)

// TrendWindow is the number of most recent observations given to the model.
const TrendWindow = 5

// TextGenerator はテキスト生成プロバイダーを抽象化します。
// プロンプトは単一のシステムロールメッセージとして送信されます。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NarrativeUsecase builds prompts from market data and asks the generator for text.
// Calls share no conversational state and are never retried.
type NarrativeUsecase struct {
	gen TextGenerator
}

// NewNarrativeUsecase は NarrativeUsecase の新しいインスタンスを生成します。
// gen が nil の場合、すべての生成は ErrNarrativeUnavailable を返します（LLM無効時）。
func NewNarrativeUsecase(gen TextGenerator) *NarrativeUsecase {
	return &NarrativeUsecase{gen: gen}
}

// ExplainMetrics asks for a novice-friendly explanation of every metric.
func (u *NarrativeUsecase) ExplainMetrics(ctx context.Context, ticker mdentity.Ticker, metrics kmentity.KeyMetrics) (string, error) {
	return u.generate(ctx, "explain_metrics", ExplainMetricsPrompt(ticker, metrics))
}

// SummarizeTrend asks for a short trend and risk summary of the last TrendWindow observations.
func (u *NarrativeUsecase) SummarizeTrend(ctx context.Context, ticker mdentity.Ticker, series mdentity.PriceSeries) (string, error) {
	return u.generate(ctx, "summarize_trend", SummarizeTrendPrompt(ticker, series))
}

// AssessSentiment asks for a casual buy-side reaction over the same window.
func (u *NarrativeUsecase) AssessSentiment(ctx context.Context, ticker mdentity.Ticker, series mdentity.PriceSeries) (string, error) {
	return u.generate(ctx, "assess_sentiment", AssessSentimentPrompt(ticker, series))
}

// RandomFact asks for one short stock-market fact for beginners.
func (u *NarrativeUsecase) RandomFact(ctx context.Context) (string, error) {
	return u.generate(ctx, "random_fact", RandomFactPrompt())
}

func (u *NarrativeUsecase) generate(ctx context.Context, op, prompt string) (string, error) {
	if u.gen == nil {
		return "", fmt.Errorf("%w: %s: no text generator configured", domain.ErrNarrativeUnavailable, op)
	}

	ctx, span := trace.StartSpan(ctx, "narrative."+op, attribute.Int("prompt_chars", len(prompt)))
	defer span.End()

	text, err := u.gen.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "narrative generation failed", "op", op, "error", err)
		return "", fmt.Errorf("%w: %s: %v", domain.ErrNarrativeUnavailable, op, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		slog.WarnContext(ctx, "narrative generation returned empty text", "op", op)
		return "", fmt.Errorf("%w: %s: empty response", domain.ErrNarrativeUnavailable, op)
	}
	return text, nil
}

// ExplainMetricsPrompt renders one "- name: value" line per metric.
func ExplainMetricsPrompt(ticker mdentity.Ticker, metrics kmentity.KeyMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A user has looked up the stock %s. Here are some key metrics:\n", ticker)
	for _, m := range metrics {
		fmt.Fprintf(&b, "- %s: %s\n", m.Name, m.ValueString())
	}
	b.WriteString("\nPlease explain each term and its value in simple terms suitable for someone new to investing.")
	return b.String()
}

// SummarizeTrendPrompt includes the recent price table as context.
func SummarizeTrendPrompt(ticker mdentity.Ticker, series mdentity.PriceSeries) string {
	return fmt.Sprintf(
		"Based on recent stock data for %s:\n%s\n"+
			"Summarize the short-term price trend and potential risks in no more than 2-3 beginner-friendly sentences.",
		ticker, RecentPriceTable(series))
}

// AssessSentimentPrompt asks for a casual reaction to the same window.
func AssessSentimentPrompt(ticker mdentity.Ticker, series mdentity.PriceSeries) string {
	return fmt.Sprintf(
		"A beginner investor is considering buying %s. Recent price data:\n%s\n"+
			"Give a short 2-3 sentence reaction summarizing appeal, risk, and outlook in a casual tone.",
		ticker, RecentPriceTable(series))
}

// RandomFactPrompt is fixed; the cache decides how often a new fact appears.
func RandomFactPrompt() string {
	return "Give me one short, surprising, or educational stock-market fact a beginner might not know. " +
		"Make it fun and easy to remember."
}

// RecentPriceTable renders the last TrendWindow closes with their daily change.
func RecentPriceTable(series mdentity.PriceSeries) string {
	var b strings.Builder
	b.WriteString("Date | Close | Change %\n")
	for _, d := range series.DailyChanges(TrendWindow) {
		fmt.Fprintf(&b, "%s | %s | %s\n",
			d.Time.Format("2006-01-02"),
			strconv.FormatFloat(d.Close, 'f', -1, 64),
			strconv.FormatFloat(d.ChangePct, 'f', 2, 64))
	}
	return b.String()
}
