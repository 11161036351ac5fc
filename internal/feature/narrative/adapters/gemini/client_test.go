package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, h http.HandlerFunc) *GeminiGenerator {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewGeminiGenerator(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return g
}

// TestGeminiGenerator_Generate はプロンプトがシステム指示として送られ、応答テキストが返ることを検証します。
func TestGeminiGenerator_Generate(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/"+DefaultModel+":generateContent"), r.URL.Path)

		b, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(b, &req))
		assert.Contains(t, string(b), "explain AAPL")
		assert.NotNil(t, req["systemInstruction"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Apple is "},{"text":"a company."}]}}]}`))
	})

	text, err := g.Generate(context.Background(), "explain AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple is a company.", text)
}

func TestGeminiGenerator_ErrorStatus(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini API request failed")
}

func TestNewGeminiGenerator_DefaultModel(t *testing.T) {
	t.Parallel()

	g, err := NewGeminiGenerator(context.Background(), Config{APIKey: "k", Model: "gemini-custom"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-custom", g.model)
}
