package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insights/internal/feature/marketdata/domain"
	"stock_insights/internal/feature/marketdata/transport/http/dto"
)

// StatusFor maps a market data failure to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTicker), errors.Is(err, domain.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoDataReturned):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrTransportTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// WriteError は失敗の種類に応じたステータスとユーザー向けメッセージを返します。
// 生のエラーテキストはログにのみ出力します。
func WriteError(c *gin.Context, err error) {
	status := StatusFor(err)
	slog.WarnContext(c.Request.Context(), "request failed", "path", c.FullPath(), "status", status, "error", err)
	c.JSON(status, dto.ErrorResponse{Error: domain.UserMessage(err)})
}
