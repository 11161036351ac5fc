// Package handler はsymbollistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insights/internal/feature/symbollist/domain/entity"
	"stock_insights/internal/feature/symbollist/transport/http/dto"
)

// maxQueryLen bounds the autocomplete query.
const maxQueryLen = 32

// SymbolUsecase は入力候補の検索を抽象化します。
type SymbolUsecase interface {
	Suggest(ctx context.Context, q string) ([]entity.Symbol, error)
}

// SymbolHandler serves ticker suggestions for the input box.
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List returns active symbols, optionally narrowed by ?q= (code prefix or name substring).
//
// エンドポイント例:
// GET /v1/symbols?q=app
func (h *SymbolHandler) List(c *gin.Context) {
	q := c.Query("q")
	if len(q) > maxQueryLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The search text is too long."})
		return
	}

	symbols, err := h.uc.Suggest(c.Request.Context(), q)
	if err != nil {
		// 詳細はログのみ
		slog.ErrorContext(c.Request.Context(), "failed to list symbols", "query", q, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggested tickers are unavailable right now."})
		return
	}
	c.JSON(http.StatusOK, dto.NewSymbolItems(symbols))
}
