// Package openai provides a text generator backed by the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"stock_insights/internal/feature/narrative/usecase"
	"stock_insights/internal/platform/trace"
)

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "gpt-4"
	// DefaultBaseURL is the public OpenAI endpoint.
	DefaultBaseURL = "https://api.openai.com/v1/"
)

// Config holds configuration for the OpenAI client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// LoadConfig loads OpenAI configuration from environment variables.
func LoadConfig() Config {
	return Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   os.Getenv("OPENAI_MODEL"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	}
}

// completionCreator is the part of the SDK's chat completion service the generator uses.
type completionCreator interface {
	New(ctx context.Context, body openaisdk.ChatCompletionNewParams, opts ...option.RequestOption) (*openaisdk.ChatCompletion, error)
}

// OpenAIGenerator sends each prompt as a single system message.
type OpenAIGenerator struct {
	completions completionCreator
	apiKey      string
	model       string
	baseURL     string
}

var _ usecase.TextGenerator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a generator on the given HTTP client, whose timeout
// bounds a single generation. SDK-level retries are disabled.
func NewOpenAIGenerator(cfg Config, httpClient *http.Client) *OpenAIGenerator {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/") + "/"
	if baseURL == "/" {
		baseURL = DefaultBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := openaisdk.NewClient(opts...)

	return &OpenAIGenerator{
		completions: &client.Chat.Completions,
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     baseURL,
	}
}

// Generate returns the content of the first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if g.apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	resp, err := g.completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(g.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{openaisdk.SystemMessage(prompt)},
	})
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai http %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
