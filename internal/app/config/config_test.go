package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 環境変数を変更するため、このパッケージのテストは並列実行しません。

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "SERVER_ADDR", "PORT", "LOG_LEVEL", "LOG_FORMAT", "MARKET_PROVIDER",
		"LLM_PROVIDER", "LLM_MODEL", "CACHE_BACKEND", "DB_DRIVER", "DB_PATH", "WARMUP_CRON",
		"TRACE_ENABLED", "STRICT_TICKER", "MARKET_MAX_ATTEMPTS", "MARKET_RATE_LIMIT",
		"LLM_TIMEOUT", "OPERATOR_JWT_SECRET",
	} {
		t.Setenv(k, "")
	}
	// .env の読み込みを避けるため空の作業ディレクトリで実行する
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 2, cfg.Market.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Market.RetryDelay)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Greater(t, cfg.LLM.Timeout, cfg.Market.Timeout, "generation outlasts a market data call")
	assert.Empty(t, cfg.Operator.JWTSecret)
}

// TestLoad_YAMLAndEnv はYAMLの値が環境変数で上書きされることを検証します。
func TestLoad_YAMLAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
market:
  provider: finnhub
  max_attempts: 3
  retry_delay: 250ms
llm:
  provider: claude
  timeout: 90s
cache:
  backend: memory
  price_ttl: 30m
warmup:
  cron: "0 8 * * 1-5"
operator:
  jwt_secret: from-yaml
`), 0o600))

	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("PORT", "7000")
	t.Setenv("STRICT_TICKER", "false")
	t.Setenv("OPERATOR_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "finnhub", cfg.Market.Provider)
	assert.Equal(t, 3, cfg.Market.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Market.RetryDelay)
	assert.False(t, cfg.Market.StrictTicker)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "from-env", cfg.Operator.JWTSecret)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Cache.PriceTTL)
	assert.Equal(t, 12*time.Hour, cfg.Cache.FundamentalsTTL, "unset keys keep defaults")
	assert.Equal(t, "0 8 * * 1-5", cfg.Warmup.Cron)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("MARKET_PROVIDER=yahoo\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("MARKET_PROVIDER") })
	// godotenv は既存の環境変数を上書きしないため、空設定を外す
	require.NoError(t, os.Unsetenv("MARKET_PROVIDER"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "yahoo", cfg.Market.Provider)
}

// TestLoad_OperatorSecretFromDotEnv はオペレーター用シークレットも .env から読み込まれることを検証します。
func TestLoad_OperatorSecretFromDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("OPERATOR_JWT_SECRET=dotenv-secret\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("OPERATOR_JWT_SECRET") })
	require.NoError(t, os.Unsetenv("OPERATOR_JWT_SECRET"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.Operator.JWTSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown provider", env: map[string]string{"MARKET_PROVIDER": "bloomberg"}},
		{name: "unknown llm", env: map[string]string{"LLM_PROVIDER": "llama"}},
		{name: "too many attempts", env: map[string]string{"MARKET_MAX_ATTEMPTS": "10"}},
		{name: "bad bool", env: map[string]string{"TRACE_ENABLED": "maybe"}},
		{name: "bad int", env: map[string]string{"MARKET_RATE_LIMIT": "fast"}},
		{name: "bad duration", env: map[string]string{"LLM_TIMEOUT": "soon"}},
		{name: "non-positive llm timeout", env: map[string]string{"LLM_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "not found")
}
