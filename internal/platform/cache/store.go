// Package cache provides TTL caches for market data and generated text.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is a byte-oriented TTL cache. Implementations must be safe for concurrent use.
type Store interface {
	// Name returns the backend name ("redis" or "memory").
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear removes every entry owned by this store.
	Clear(ctx context.Context) error
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
