// Package http は外部API（マーケットデータ、LLM）呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stock_insights/internal/platform/trace"
)

// NewHTTPClient は外部API呼び出し用のHTTPクライアントを作成します。
// timeout はリクエスト全体の上限です。http.DefaultClient にはタイムアウトが無いため使用しないこと。
// すべての呼び出しは "http.client" スパンで記録されます。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: &tracingTransport{next: t}}
}

// tracingTransport opens a span per outbound request. Query strings are not
// recorded because some providers carry API keys there.
type tracingTransport struct {
	next http.RoundTripper
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := trace.StartSpan(req.Context(), "http.client",
		attribute.String("http.method", req.Method),
		attribute.String("server.address", req.URL.Host),
		attribute.String("url.path", req.URL.Path),
	)
	defer span.End()

	resp, err := t.next.RoundTrip(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}
