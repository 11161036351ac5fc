// Package handler はinsightsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insights/internal/feature/insights/domain/entity"
	"stock_insights/internal/feature/insights/transport/http/dto"
	mdentity "stock_insights/internal/feature/marketdata/domain/entity"
	mdhandler "stock_insights/internal/feature/marketdata/transport/handler"
)

// InsightsUsecase はレポート生成のユースケースインターフェースを定義します。
type InsightsUsecase interface {
	GetInsights(ctx context.Context, rawTicker string, r mdentity.RangeSpec) (*entity.Report, error)
}

// InsightsHandler はレポートのHTTPリクエストを処理します。
type InsightsHandler struct {
	uc InsightsUsecase
}

func NewInsightsHandler(uc InsightsUsecase) *InsightsHandler {
	return &InsightsHandler{uc: uc}
}

// GetInsights は価格・主要指標・解説文をまとめたレポートをJSONで返します。
// 解説文の生成失敗はセクションごとに error として返し、ステータスは200のままです。
//
// エンドポイント例:
// GET /v1/insights/:ticker?period=1mo&interval=1d
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	r := mdentity.RangeSpec{Period: c.Query("period"), Interval: c.Query("interval")}

	report, err := h.uc.GetInsights(c.Request.Context(), c.Param("ticker"), r)
	if err != nil {
		mdhandler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReportResponse(report))
}
