package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	text  string
	err   error
	calls atomic.Int32
}

func (g *countingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	return g.text, g.err
}

func TestCachingTextGenerator_CachesByPrompt(t *testing.T) {
	t.Parallel()

	inner := &countingGenerator{text: "Apple makes phones."}
	g := NewCachingTextGenerator(inner, newMemoryStore(t), 0)

	for i := 0; i < 2; i++ {
		text, err := g.Generate(context.Background(), "prompt A")
		require.NoError(t, err)
		assert.Equal(t, "Apple makes phones.", text)
	}
	assert.Equal(t, int32(1), inner.calls.Load())

	_, err := g.Generate(context.Background(), "prompt B")
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

// TestCachingTextGenerator_FailuresNotCached はエラーと空の応答がキャッシュされないことを検証します。
func TestCachingTextGenerator_FailuresNotCached(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		inner *countingGenerator
	}{
		{name: "error", inner: &countingGenerator{err: errors.New("rate limited")}},
		{name: "blank text", inner: &countingGenerator{text: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := NewCachingTextGenerator(tt.inner, newMemoryStore(t), 0)
			for i := 0; i < 2; i++ {
				_, _ = g.Generate(context.Background(), "p")
			}
			assert.Equal(t, int32(2), tt.inner.calls.Load())
		})
	}
}

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (g *blockingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.calls.Add(1) == 1 {
		close(g.started)
	}
	select {
	case <-g.release:
		return "Apple makes phones.", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// TestCachingTextGenerator_LeaderCancelDoesNotFailFollowers は先行リクエストのキャンセル後も
// 同じプロンプトを待つ呼び出しが生成結果を受け取れることを検証します。
func TestCachingTextGenerator_LeaderCancelDoesNotFailFollowers(t *testing.T) {
	t.Parallel()

	inner := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{})}
	g := NewCachingTextGenerator(inner, newMemoryStore(t), 0)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := g.Generate(leaderCtx, "prompt A")
		leaderErr <- err
	}()
	<-inner.started

	followerText := make(chan string, 1)
	followerErr := make(chan error, 1)
	go func() {
		text, err := g.Generate(context.Background(), "prompt A")
		followerText <- text
		followerErr <- err
	}()

	cancel()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Errorf("leader err = %v, want context.Canceled", err)
	}

	time.Sleep(20 * time.Millisecond)
	close(inner.release)

	assert.Equal(t, "Apple makes phones.", <-followerText)
	require.NoError(t, <-followerErr)
	assert.Equal(t, int32(1), inner.calls.Load())
}
