// Package yahoo provides a market data provider backed by the public Yahoo
// Finance chart and quoteSummary endpoints.
package yahoo

import (
	"os"
	"time"
)

const (
	defaultBaseURL   = "https://query2.finance.yahoo.com"
	defaultUserAgent = "Mozilla/5.0 (compatible; stock-insights/1.0)"
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL   string        // e.g. "https://query2.finance.yahoo.com"
	UserAgent string        // Yahoo rejects requests without a browser-like agent
	Timeout   time.Duration // HTTP request timeout
}

// LoadConfig loads Yahoo Finance configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:   os.Getenv("YAHOO_BASE_URL"),
		UserAgent: os.Getenv("YAHOO_USER_AGENT"),
		Timeout:   10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return cfg
}
