// Package gemini はGoogle Gemini APIを使用したテキスト生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"google.golang.org/genai"

	"stock_insights/internal/feature/narrative/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"

	// respondInstruction is the user turn paired with the system prompt.
	respondInstruction = "Respond to the instructions above."
)

// Config holds configuration for the Gemini client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional override, used by tests

	// HTTPClient は任意。タイムアウトが1回の生成の上限になります。
	HTTPClient *http.Client
}

// LoadConfig loads Gemini configuration from environment variables.
func LoadConfig() Config {
	return Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	}
}

// GeminiGenerator はGoogle Gemini APIを使用してテキストを生成します。
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// GeminiGeneratorがTextGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.TextGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator はGeminiGeneratorの新しいインスタンスを生成します。
// APIKey が空の場合は環境変数 GOOGLE_GENAI_USE_VERTEXAI などによるADC設定に従います。
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	cc := &genai.ClientConfig{HTTPClient: cfg.HTTPClient}
	if cfg.APIKey != "" {
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate はプロンプトをシステム指示として送信し、生成されたテキストを返します。
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(respondInstruction), config)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}
