// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Limiter は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter は interval あたり limit 回までの呼び出しを許可するトークンバケットです。
type RateLimiter struct {
	name    string
	limiter *rate.Limiter
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は無制限になります。
func NewRateLimiter(name string, limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{name: name, limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	every := rate.Every(interval / time.Duration(limit))
	return &RateLimiter{name: name, limiter: rate.NewLimiter(every, limit)}
}

// Wait はトークンが得られるまで待機します。ctx がキャンセルされた場合は ctx.Err() を返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limiter.Tokens() < 1 {
		slog.Debug("rate limit reached, waiting", "limiter", rl.name)
	}
	return rl.limiter.Wait(ctx)
}

// Unlimited は待機しない Limiter です。テストやレート制限のないプロバイダーで使います。
type Unlimited struct{}

// Wait は ctx がキャンセル済みでなければ即座に戻ります。
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
