package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// DefaultMemoryMaxCost bounds the in-process cache at 64MB of values.
const DefaultMemoryMaxCost = 64 << 20

// MemoryStore is an in-process Store used when Redis is unavailable.
type MemoryStore struct {
	c *ristretto.Cache[string, []byte]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore は ristretto を使ったインメモリキャッシュを生成します。
// maxCost が0以下の場合は DefaultMemoryMaxCost を使用します。
func NewMemoryStore(maxCost int64) (*MemoryStore, error) {
	if maxCost <= 0 {
		maxCost = DefaultMemoryMaxCost
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &MemoryStore{c: c}, nil
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

// Set stores val and waits for the write buffer so a following Get sees it.
// ristretto may still reject an item under memory pressure; that is a miss, not an error.
func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	s.c.SetWithTTL(key, val, int64(len(val)), ttl)
	s.c.Wait()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.c.Clear()
	return nil
}

// Close stops the cache's background goroutines.
func (s *MemoryStore) Close() {
	s.c.Close()
}
