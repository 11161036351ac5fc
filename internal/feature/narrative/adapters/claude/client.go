// Package claude provides a text generator backed by the Anthropic Messages API.
package claude

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"stock_insights/internal/feature/narrative/usecase"
)

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "claude-sonnet-4-5"
	// DefaultMaxTokens bounds one generated narrative.
	DefaultMaxTokens = 1024

	respondInstruction = "Respond to the instructions above."
)

// Config holds configuration for the Claude client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string // optional override, used by tests

	// HTTPClient is optional; its timeout bounds one generation.
	HTTPClient *http.Client
}

// LoadConfig loads Claude configuration from environment variables.
func LoadConfig() Config {
	return Config{
		APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:  os.Getenv("ANTHROPIC_MODEL"),
	}
}

// messageCreator is the part of the SDK's message service the generator uses.
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// ClaudeGenerator sends each prompt as the system block of a fresh conversation.
type ClaudeGenerator struct {
	messages  messageCreator
	model     string
	maxTokens int64
}

var _ usecase.TextGenerator = (*ClaudeGenerator)(nil)

// NewClaudeGenerator builds a generator. SDK-level retries are disabled; a
// failed narrative is reported, not retried.
func NewClaudeGenerator(cfg Config) *ClaudeGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	client := anthropic.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &ClaudeGenerator{messages: &client.Messages, model: model, maxTokens: int64(maxTokens)}
}

// Generate returns the concatenated text blocks of the reply.
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: prompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(respondInstruction)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude API call failed: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}
