package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"stock_insights/internal/feature/narrative/usecase"
	"stock_insights/internal/shared/hashkey"
)

// DefaultTextTTL は生成テキストのキャッシュ有効期間です。
const DefaultTextTTL = time.Hour

// CachingTextGenerator memoizes generated text keyed on the prompt hash.
// Failures and empty responses are never stored.
type CachingTextGenerator struct {
	inner usecase.TextGenerator
	store Store
	ttl   time.Duration
	group singleflight.Group
}

var _ usecase.TextGenerator = (*CachingTextGenerator)(nil)

// NewCachingTextGenerator wraps inner. A nil store disables caching.
func NewCachingTextGenerator(inner usecase.TextGenerator, store Store, ttl time.Duration) *CachingTextGenerator {
	if ttl <= 0 {
		ttl = DefaultTextTTL
	}
	return &CachingTextGenerator{inner: inner, store: store, ttl: ttl}
}

func (g *CachingTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.store == nil {
		return g.inner.Generate(ctx, prompt)
	}

	key := "narrative:" + hashkey.Of(prompt)
	if b, err := g.store.Get(ctx, key); err == nil {
		return string(b), nil
	} else if !errors.Is(err, ErrMiss) {
		slog.WarnContext(ctx, "cache read failed", "backend", g.store.Name(), "key", key, "error", err)
	}

	return shareFetch(ctx, &g.group, key, func(ctx context.Context) (string, error) {
		text, err := g.inner.Generate(ctx, prompt)
		if err != nil || strings.TrimSpace(text) == "" {
			return text, err
		}
		if err := g.store.Set(ctx, key, []byte(text), g.ttl); err != nil {
			slog.WarnContext(ctx, "cache write failed", "backend", g.store.Name(), "key", key, "error", err)
		}
		return text, nil
	})
}
