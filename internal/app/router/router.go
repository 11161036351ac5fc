// Package router はHTTPルーティングを組み立てます。
package router

import (
	"github.com/gin-gonic/gin"

	insightshandler "stock_insights/internal/feature/insights/transport/handler"
	mdhandler "stock_insights/internal/feature/marketdata/transport/handler"
	narrativehandler "stock_insights/internal/feature/narrative/transport/handler"
	symbollisthandler "stock_insights/internal/feature/symbollist/transport/handler"
	platformhandler "stock_insights/internal/platform/http/handler"
	"stock_insights/internal/platform/http/middleware"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health     *platformhandler.HealthHandler
	Cache      *platformhandler.CacheHandler
	Symbols    *symbollisthandler.SymbolHandler
	Market     *mdhandler.MarketDataHandler
	Insights   *insightshandler.InsightsHandler
	Narrative  *narrativehandler.NarrativeHandler
	// CacheGuard は任意。設定時はキャッシュクリアの前に実行される
	CacheGuard gin.HandlerFunc
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger())

	// 導通確認用
	r.GET("/healthz", h.Health.Health)

	v1 := r.Group("/v1")
	{
		v1.GET("/symbols", h.Symbols.List)
		v1.GET("/stocks/:ticker/prices", h.Market.GetPrices)
		v1.GET("/stocks/:ticker/fundamentals", h.Market.GetFundamentals)
		// 価格・指標・解説文をまとめたレポート
		v1.GET("/insights/:ticker", h.Insights.GetInsights)
		v1.GET("/facts/random", h.Narrative.RandomFact)
		// キャッシュの手動クリア
		chain := []gin.HandlerFunc{h.Cache.Clear}
		if h.CacheGuard != nil {
			chain = append([]gin.HandlerFunc{h.CacheGuard}, chain...)
		}
		v1.POST("/cache/clear", chain...)
	}

	return r
}
