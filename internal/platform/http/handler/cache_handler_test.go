package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockClearer struct {
	calls int
	err   error
}

func (m *mockClearer) Clear(ctx context.Context) error {
	m.calls++
	return m.err
}

func postClear(h *CacheHandler) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/v1/cache/clear", h.Clear)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/cache/clear", nil))
	return w
}

// TestCacheHandler_Clear はキャッシュクリアの成功・失敗・キャッシュ無効時の応答を検証します。
func TestCacheHandler_Clear(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		c := &mockClearer{}
		w := postClear(NewCacheHandler(c))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"cleared"}`, w.Body.String())
		assert.Equal(t, 1, c.calls)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		w := postClear(NewCacheHandler(&mockClearer{err: errors.New("READONLY")}))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "READONLY")
	})

	t.Run("no cache configured", func(t *testing.T) {
		t.Parallel()

		w := postClear(NewCacheHandler(nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
