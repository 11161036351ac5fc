// Package middleware はginの共通ミドルウェアを提供します。
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"stock_insights/internal/platform/trace"
)

// RequestLogger returns a middleware that opens a span per request and logs
// method, route, status and latency once the handler chain returns.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 1. リクエスト単位のスパンを開始し、下流にコンテキストを渡す
		ctx, span := trace.StartSpan(c.Request.Context(), "http "+c.Request.Method,
			attribute.String("http.route", c.FullPath()),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		// 2. 後続のハンドラーを実行
		c.Next()

		// 3. 結果をログ出力（5xxはError、4xxはWarn）
		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "http request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// Recovery converts panics into a JSON 500 and logs them with slog.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.ErrorContext(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
