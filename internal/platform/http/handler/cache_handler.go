package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Clearer removes every cached result.
type Clearer interface {
	Clear(ctx context.Context) error
}

// CacheHandler exposes the manual clear-cache action.
type CacheHandler struct {
	cache Clearer
}

// NewCacheHandler は CacheHandler を生成します。cache が nil の場合、クリアは何もしません。
func NewCacheHandler(cache Clearer) *CacheHandler {
	return &CacheHandler{cache: cache}
}

// Clear はキャッシュ済みの価格・ファンダメンタルズ・解説文をすべて削除します。
//
// エンドポイント例:
// POST /v1/cache/clear
func (h *CacheHandler) Clear(c *gin.Context) {
	if h.cache != nil {
		if err := h.cache.Clear(c.Request.Context()); err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to clear cache", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "The cache could not be cleared. Please try again."})
			return
		}
	}
	slog.InfoContext(c.Request.Context(), "cache cleared")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
