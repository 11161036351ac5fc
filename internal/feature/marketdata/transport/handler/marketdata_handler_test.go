package handler_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"stock_insights/internal/feature/marketdata/domain"
	"stock_insights/internal/feature/marketdata/domain/entity"
	"stock_insights/internal/feature/marketdata/transport/handler"
)

// mockMarketDataUsecase はMarketDataUsecaseインターフェースのモック実装です。
type mockMarketDataUsecase struct {
	PriceFunc        func(ctx context.Context, rawTicker string, r entity.RangeSpec) (entity.PriceSeries, error)
	FundamentalsFunc func(ctx context.Context, rawTicker string) (entity.FundamentalsSnapshot, error)
}

func (m *mockMarketDataUsecase) FetchPriceHistory(ctx context.Context, rawTicker string, r entity.RangeSpec) (entity.PriceSeries, error) {
	return m.PriceFunc(ctx, rawTicker, r)
}

func (m *mockMarketDataUsecase) FetchFundamentals(ctx context.Context, rawTicker string) (entity.FundamentalsSnapshot, error) {
	return m.FundamentalsFunc(ctx, rawTicker)
}

func newRouter(uc handler.MarketDataUsecase) *gin.Engine {
	h := handler.NewMarketDataHandler(uc)
	r := gin.New()
	r.GET("/v1/stocks/:ticker/prices", h.GetPrices)
	r.GET("/v1/stocks/:ticker/fundamentals", h.GetFundamentals)
	return r
}

func doGet(t *testing.T, r http.Handler, url string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	body, _ := io.ReadAll(w.Body)
	return w.Code, string(body)
}

// TestMarketDataHandler_GetPrices は価格履歴エンドポイントのリクエスト/レスポンス処理をテストします。
func TestMarketDataHandler_GetPrices(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testTime := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	uc := &mockMarketDataUsecase{
		PriceFunc: func(ctx context.Context, rawTicker string, r entity.RangeSpec) (entity.PriceSeries, error) {
			assert.Equal(t, "aapl", rawTicker)
			assert.Equal(t, "6mo", r.Period)
			assert.Equal(t, "", r.Interval)
			return entity.NewPriceSeries("AAPL", entity.RangeSpec{Period: "6mo", Interval: "1d"}, "mock", []entity.PricePoint{
				{Time: testTime, Open: 100, High: 110, Low: 90, Close: 105, Volume: 1000},
			})
		},
	}

	code, body := doGet(t, newRouter(uc), "/v1/stocks/aapl/prices?period=6mo")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{
		"ticker":"AAPL","period":"6mo","interval":"1d","provider":"mock",
		"points":[{"time":"2023-01-02","open":100,"high":110,"low":90,"close":105,"volume":1000}]
	}`, body)
}

// TestMarketDataHandler_ErrorMapping は失敗の種類ごとのステータスコードとメッセージを検証します。
func TestMarketDataHandler_ErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid ticker", err: domain.ErrInvalidTicker, wantStatus: http.StatusBadRequest},
		{name: "invalid range", err: domain.ErrInvalidRange, wantStatus: http.StatusBadRequest},
		{name: "not found", err: domain.ErrSymbolNotFound, wantStatus: http.StatusNotFound},
		{name: "no data", err: domain.ErrNoDataReturned, wantStatus: http.StatusUnprocessableEntity},
		{name: "quota", err: domain.ErrQuotaExceeded, wantStatus: http.StatusTooManyRequests},
		{name: "timeout", err: domain.ErrTransportTimeout, wantStatus: http.StatusGatewayTimeout},
		{name: "unavailable", err: domain.ErrDataUnavailable, wantStatus: http.StatusBadGateway},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("rapidapi: %w: secret upstream detail", tt.err)
			uc := &mockMarketDataUsecase{
				PriceFunc: func(ctx context.Context, rawTicker string, r entity.RangeSpec) (entity.PriceSeries, error) {
					return entity.PriceSeries{}, wrapped
				},
				FundamentalsFunc: func(ctx context.Context, rawTicker string) (entity.FundamentalsSnapshot, error) {
					return entity.FundamentalsSnapshot{}, wrapped
				},
			}
			r := newRouter(uc)

			for _, url := range []string{"/v1/stocks/AAPL/prices", "/v1/stocks/AAPL/fundamentals"} {
				code, body := doGet(t, r, url)
				assert.Equal(t, tt.wantStatus, code, url)
				assert.Equal(t, domain.UserMessage(tt.err), gjson.Get(body, "error").String(), url)
				assert.NotContains(t, body, "secret upstream detail")
			}
		})
	}
}

// TestMarketDataHandler_GetFundamentals はスナップショットと主要指標が返されることを検証します。
func TestMarketDataHandler_GetFundamentals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := &mockMarketDataUsecase{
		FundamentalsFunc: func(ctx context.Context, rawTicker string) (entity.FundamentalsSnapshot, error) {
			return entity.FundamentalsSnapshot{
				Ticker:   "AAPL",
				Provider: "mock",
				Fields: map[string]entity.Field{
					entity.FieldPreviousClose: entity.Number(150.5),
					entity.FieldMarketCap:     entity.Text("2.5T"),
				},
			}, nil
		},
	}

	code, body := doGet(t, newRouter(uc), "/v1/stocks/AAPL/fundamentals")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "AAPL", gjson.Get(body, "ticker").String())
	assert.Equal(t, 150.5, gjson.Get(body, `metrics.Previous Close`).Float())
	assert.Equal(t, "2.5T", gjson.Get(body, `metrics.Market Cap`).String())
	assert.Equal(t, "N/A", gjson.Get(body, `metrics.Bid`).String())
	assert.Equal(t, 150.5, gjson.Get(body, `fields.price\.regularMarketPreviousClose.raw`).Float())
}

func TestStatusFor_ContextDeadline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusGatewayTimeout, handler.StatusFor(context.DeadlineExceeded))
}
