package di

import (
	"context"
	"fmt"
	"net/http"

	"stock_insights/internal/app/config"
	"stock_insights/internal/feature/narrative/adapters/claude"
	"stock_insights/internal/feature/narrative/adapters/gemini"
	"stock_insights/internal/feature/narrative/adapters/openai"
	"stock_insights/internal/feature/narrative/usecase"
	"stock_insights/internal/platform/cache"
	infrahttp "stock_insights/internal/platform/http"
)

// NewTextGenerator creates the configured LLM adapter wrapped with the text cache.
// "none" returns a nil generator, which the narrative usecase reports as unavailable.
func NewTextGenerator(ctx context.Context, cfg config.Config, store cache.Store) (usecase.TextGenerator, error) {
	var gen usecase.TextGenerator
	switch cfg.LLM.Provider {
	case "none":
		return nil, nil
	case "openai":
		c := openai.LoadConfig()
		if cfg.LLM.Model != "" {
			c.Model = cfg.LLM.Model
		}
		gen = openai.NewOpenAIGenerator(c, NewLLMHTTPClient(cfg.LLM))
	case "claude":
		c := claude.LoadConfig()
		if cfg.LLM.Model != "" {
			c.Model = cfg.LLM.Model
		}
		c.HTTPClient = NewLLMHTTPClient(cfg.LLM)
		gen = claude.NewClaudeGenerator(c)
	case "gemini":
		c := gemini.LoadConfig()
		if cfg.LLM.Model != "" {
			c.Model = cfg.LLM.Model
		}
		c.HTTPClient = NewLLMHTTPClient(cfg.LLM)
		g, err := gemini.NewGeminiGenerator(ctx, c)
		if err != nil {
			return nil, err
		}
		gen = g
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
	return cache.NewCachingTextGenerator(gen, store, cfg.Cache.TextTTL), nil
}

// NewLLMHTTPClient returns the client for LLM calls. Its timeout comes from
// llm.timeout, not from the market data timeout.
func NewLLMHTTPClient(cfg config.LLMConfig) *http.Client {
	return infrahttp.NewHTTPClient(cfg.Timeout)
}
