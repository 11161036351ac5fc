// Package rapidapi provides a market data provider backed by the
// yahoo-finance15 API on RapidAPI.
package rapidapi

import (
	"os"
	"time"
)

const (
	defaultHost    = "yahoo-finance15.p.rapidapi.com"
	defaultBaseURL = "https://" + defaultHost
)

// Config holds configuration for the RapidAPI client.
type Config struct {
	APIKey  string        // X-RapidAPI-Key
	Host    string        // X-RapidAPI-Host
	BaseURL string        // e.g. "https://yahoo-finance15.p.rapidapi.com"
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads RapidAPI configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("RAPIDAPI_KEY"),
		Host:    os.Getenv("RAPIDAPI_HOST"),
		BaseURL: os.Getenv("RAPIDAPI_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return cfg
}
