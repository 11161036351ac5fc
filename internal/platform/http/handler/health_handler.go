// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and the active cache backend.
type HealthHandler struct {
	cacheBackend string
	provider     string
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(cacheBackend, provider string) *HealthHandler {
	if cacheBackend == "" {
		cacheBackend = "none"
	}
	return &HealthHandler{cacheBackend: cacheBackend, provider: provider}
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"cache":    h.cacheBackend,
			"provider": h.provider,
		})
	}
}
