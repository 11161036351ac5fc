// Package apiclient は各マーケットデータアダプターが共有する GET ヘルパーです。
// レート制限の待機、タイムアウト時の固定間隔リトライ、HTTPステータスの分類を一か所で行います。
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stock_insights/internal/feature/marketdata/domain"
	"stock_insights/internal/platform/trace"
	"stock_insights/internal/shared/ratelimiter"
)

const (
	// DefaultMaxAttempts is the total number of attempts made when every one times out.
	DefaultMaxAttempts = 2
	// DefaultRetryDelay is the fixed pause between timed-out attempts.
	DefaultRetryDelay = time.Second

	maxBodyBytes = 8 << 20
)

// RetryPolicy bounds the timeout retry loop.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy returns two attempts one second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultRetryDelay}
}

// Client performs JSON GET requests on behalf of one provider.
type Client struct {
	provider string
	http     *http.Client
	limiter  ratelimiter.Limiter
	policy   RetryPolicy
}

// New は指定されたHTTPクライアント、レートリミッター、リトライ方針で Client を生成します。
// limiter が nil の場合は無制限、policy の0値はデフォルトで補完します。
func New(provider string, httpClient *http.Client, limiter ratelimiter.Limiter, policy RetryPolicy) *Client {
	if limiter == nil {
		limiter = ratelimiter.Unlimited{}
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.Delay <= 0 {
		policy.Delay = DefaultRetryDelay
	}
	return &Client{provider: provider, http: httpClient, limiter: limiter, policy: policy}
}

// Provider returns the provider name used in errors and logs.
func (c *Client) Provider() string { return c.provider }

// GetJSON issues a GET and returns the raw JSON body.
//
// Failure mapping:
//   - 429: domain.ErrQuotaExceeded after exactly one request
//   - 404: domain.ErrSymbolNotFound
//   - other non-2xx: domain.ErrDataUnavailable
//   - transport timeout on every attempt: domain.ErrTransportTimeout
//   - other transport failures: domain.ErrDataUnavailable
//   - empty or malformed body: domain.ErrNoDataReturned
//
// Cancellation of ctx by the caller is returned as ctx.Err().
func (c *Client) GetJSON(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	ctx, span := trace.StartSpan(ctx, "apiclient.GetJSON", attribute.String("provider", c.provider))
	defer span.End()

	var (
		body    []byte
		attempt int
	)
	backoff := retry.WithMaxRetries(uint64(c.policy.MaxAttempts-1), retry.NewConstant(c.policy.Delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := c.do(ctx, rawURL, header)
		if err == nil {
			body = b
			return nil
		}
		if errors.Is(err, domain.ErrTransportTimeout) {
			slog.WarnContext(ctx, "provider request timed out", "provider", c.provider, "attempt", attempt, "max_attempts", c.policy.MaxAttempts)
			return retry.RetryableError(err)
		}
		return err
	})
	span.SetAttributes(attribute.Int("attempts", attempt))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s returned a malformed body", domain.ErrNoDataReturned, c.provider)
	}
	return body, nil
}

// do performs exactly one request.
func (c *Client) do(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s rate limiter: %v", domain.ErrDataUnavailable, c.provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: build request: %v", domain.ErrDataUnavailable, c.provider, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, c.classifyTransport(ctx, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "provider", c.provider, "error", err)
		}
	}()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s http %d", domain.ErrQuotaExceeded, c.provider, res.StatusCode)
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s http %d", domain.ErrSymbolNotFound, c.provider, res.StatusCode)
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s http %d", domain.ErrDataUnavailable, c.provider, res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, c.classifyTransport(ctx, err)
	}
	return b, nil
}

// classifyTransport maps a client-side failure onto the error taxonomy.
func (c *Client) classifyTransport(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if IsTimeout(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrTransportTimeout, c.provider, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, c.provider, err)
}

// IsTimeout reports whether err is a network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
