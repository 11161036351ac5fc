// Package handler はmarketdataフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	kmusecase "stock_insights/internal/feature/keymetrics/usecase"
	"stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/feature/marketdata/transport/http/dto"
)

// MarketDataUsecase はマーケットデータ取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type MarketDataUsecase interface {
	FetchPriceHistory(ctx context.Context, rawTicker string, r entity.RangeSpec) (entity.PriceSeries, error)
	FetchFundamentals(ctx context.Context, rawTicker string) (entity.FundamentalsSnapshot, error)
}

// MarketDataHandler は価格履歴とファンダメンタルズのHTTPリクエストを処理します。
type MarketDataHandler struct {
	uc MarketDataUsecase
}

// NewMarketDataHandler は指定されたusecaseでMarketDataHandlerの新しいインスタンスを生成します。
func NewMarketDataHandler(uc MarketDataUsecase) *MarketDataHandler {
	return &MarketDataHandler{uc: uc}
}

// GetPrices は銘柄コードと期間を受け取り、価格履歴をJSONで返します。
//
// エンドポイント例:
// GET /v1/stocks/:ticker/prices?period=1mo&interval=1d
func (h *MarketDataHandler) GetPrices(c *gin.Context) {
	// 未指定の場合は usecase 側でデフォルト値を補完
	r := entity.RangeSpec{Period: c.Query("period"), Interval: c.Query("interval")}

	series, err := h.uc.FetchPriceHistory(c.Request.Context(), c.Param("ticker"), r)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPriceSeriesResponse(series))
}

// GetFundamentals はファンダメンタルズと抽出済みの主要指標をJSONで返します。
//
// エンドポイント例:
// GET /v1/stocks/:ticker/fundamentals
func (h *MarketDataHandler) GetFundamentals(c *gin.Context) {
	snap, err := h.uc.FetchFundamentals(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewFundamentalsResponse(snap, kmusecase.Extract(snap)))
}
