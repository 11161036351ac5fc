package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRateLimiter_AllowsBurst は上限回数までは待機せずに通過することを検証します。
func TestRateLimiter_AllowsBurst(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter("test", 3, time.Minute)
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// TestRateLimiter_BlocksUntilContextDone は上限超過時に ctx の期限でエラーを返すことを検証します。
func TestRateLimiter_BlocksUntilContextDone(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter("test", 1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.Wait(ctx))
}

func TestRateLimiter_ZeroLimitIsUnlimited(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter("test", 0, time.Minute)
	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
}

func TestUnlimited_RespectsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Unlimited{}.Wait(ctx), context.Canceled)
	assert.NoError(t, Unlimited{}.Wait(context.Background()))
}
