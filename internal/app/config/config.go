// Package config はアプリケーション設定の読み込みを提供します。
// 優先順位: 環境変数 > YAMLファイル > デフォルト値。外部APIキーは各アダプターが環境変数から直接読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Trace    TraceConfig    `yaml:"trace"`
	Market   MarketConfig   `yaml:"market"`
	LLM      LLMConfig      `yaml:"llm"`
	Cache    CacheConfig    `yaml:"cache"`
	DB       DBConfig       `yaml:"db"`
	Warmup   WarmupConfig   `yaml:"warmup"`
	Operator OperatorConfig `yaml:"operator"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

type TraceConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MarketConfig selects the market data provider and its transport policy.
type MarketConfig struct {
	Provider     string        `yaml:"provider" validate:"oneof=rapidapi finnhub yahoo twelvedata"`
	StrictTicker bool          `yaml:"strict_ticker"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxAttempts  int           `yaml:"max_attempts" validate:"min=1,max=5"`
	RetryDelay   time.Duration `yaml:"retry_delay" validate:"gt=0"`
	// RateLimit requests per RateInterval; 0 disables the limiter.
	RateLimit    int           `yaml:"rate_limit" validate:"min=0"`
	RateInterval time.Duration `yaml:"rate_interval"`
}

// LLMConfig selects the text generator. "none" disables commentary.
// Timeout bounds one generation and is separate from the market data timeout.
type LLMConfig struct {
	Provider string        `yaml:"provider" validate:"oneof=gemini claude openai none"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`
}

// CacheConfig selects the cache backend. "auto" uses Redis when reachable, otherwise memory.
type CacheConfig struct {
	Backend         string        `yaml:"backend" validate:"oneof=auto redis memory none"`
	Namespace       string        `yaml:"namespace" validate:"required"`
	PriceTTL        time.Duration `yaml:"price_ttl" validate:"gt=0"`
	FundamentalsTTL time.Duration `yaml:"fundamentals_ttl" validate:"gt=0"`
	TextTTL         time.Duration `yaml:"text_ttl" validate:"gt=0"`
	MemoryMaxCost   int64         `yaml:"memory_max_cost" validate:"min=0"`
}

type DBConfig struct {
	Driver         string        `yaml:"driver" validate:"oneof=sqlite postgres"`
	Path           string        `yaml:"path"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" validate:"gt=0"`
}

// WarmupConfig schedules the cache warm-up. An empty Cron disables the in-server job.
type WarmupConfig struct {
	Cron    string        `yaml:"cron"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// OperatorConfig guards operator actions. An empty JWTSecret leaves them open.
type OperatorConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Log:    LogConfig{Level: "info", Format: "json"},
		Market: MarketConfig{
			Provider:     "rapidapi",
			StrictTicker: true,
			Timeout:      10 * time.Second,
			MaxAttempts:  2,
			RetryDelay:   time.Second,
			RateLimit:    5,
			RateInterval: time.Second,
		},
		LLM: LLMConfig{Provider: "openai", Timeout: 60 * time.Second},
		Cache: CacheConfig{
			Backend:         "auto",
			Namespace:       "insights",
			PriceTTL:        time.Hour,
			FundamentalsTTL: 12 * time.Hour,
			TextTTL:         time.Hour,
		},
		DB:     DBConfig{Driver: "sqlite", Path: "stock_insights.db", ConnectTimeout: 60 * time.Second},
		Warmup: WarmupConfig{Timeout: 5 * time.Minute},
	}
}

// Load reads .env (if present), the YAML file at path (if non-empty and present),
// then environment overrides, and validates the result.
func Load(path string) (Config, error) {
	// .env が無い場合は無視（本番は環境変数で注入）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return Config{}, fmt.Errorf("config file %s not found", path)
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct constraints.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "SERVER_ADDR")
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Market.Provider, "MARKET_PROVIDER")
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.Cache.Backend, "CACHE_BACKEND")
	setString(&cfg.DB.Driver, "DB_DRIVER")
	setString(&cfg.DB.Path, "DB_PATH")
	setString(&cfg.Warmup.Cron, "WARMUP_CRON")
	setString(&cfg.Operator.JWTSecret, "OPERATOR_JWT_SECRET")

	if err := setBool(&cfg.Trace.Enabled, "TRACE_ENABLED"); err != nil {
		return err
	}
	if err := setBool(&cfg.Market.StrictTicker, "STRICT_TICKER"); err != nil {
		return err
	}
	if err := setInt(&cfg.Market.MaxAttempts, "MARKET_MAX_ATTEMPTS"); err != nil {
		return err
	}
	if err := setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT"); err != nil {
		return err
	}
	return setInt(&cfg.Market.RateLimit, "MARKET_RATE_LIMIT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
