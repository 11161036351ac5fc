// Package finnhub provides a market data provider backed by the Finnhub REST API.
package finnhub

import (
	"os"
	"time"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// Config holds configuration for the Finnhub client.
type Config struct {
	APIKey  string        // sent as X-Finnhub-Token
	BaseURL string        // e.g. "https://finnhub.io/api/v1"
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads Finnhub configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("FINNHUB_API_KEY"),
		BaseURL: os.Getenv("FINNHUB_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return cfg
}
