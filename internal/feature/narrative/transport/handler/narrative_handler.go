// Package handler はnarrativeフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insights/internal/feature/narrative/domain"
)

// FactUsecase は豆知識生成のユースケースインターフェースを定義します。
type FactUsecase interface {
	RandomFact(ctx context.Context) (string, error)
}

// FactResponse is the body of GET /v1/facts/random.
type FactResponse struct {
	Fact string `json:"fact"`
}

// NarrativeHandler はLLM生成テキストのHTTPリクエストを処理します。
type NarrativeHandler struct {
	uc FactUsecase
}

func NewNarrativeHandler(uc FactUsecase) *NarrativeHandler {
	return &NarrativeHandler{uc: uc}
}

// RandomFact は株式市場の豆知識を1件返します。
//
// エンドポイント例:
// GET /v1/facts/random
func (h *NarrativeHandler) RandomFact(c *gin.Context) {
	fact, err := h.uc.RandomFact(c.Request.Context())
	if err != nil {
		slog.WarnContext(c.Request.Context(), "random fact unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, FactResponse{Fact: fact})
}
