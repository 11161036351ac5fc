package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type migrated struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

// TestBuildDSN はドライバーごとのDSN文字列が正しく生成されることを検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{name: "sqlite default path", cfg: Config{}, expected: DefaultSQLitePath},
		{name: "sqlite custom path", cfg: Config{Driver: DriverSQLite, Path: "/tmp/x.db"}, expected: "/tmp/x.db"},
		{
			name:     "postgres defaults",
			cfg:      Config{Driver: DriverPostgres, User: "u", Password: "p", Name: "db", Host: "localhost"},
			expected: "host=localhost user=u password=p dbname=db port=5432 sslmode=disable TimeZone=UTC",
		},
		{
			name:     "postgres explicit port and sslmode",
			cfg:      Config{Driver: DriverPostgres, User: "u", Password: "p", Name: "db", Host: "pg", Port: "6543", SSLMode: "require"},
			expected: "host=pg user=u password=p dbname=db port=6543 sslmode=require TimeZone=UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if dsn := BuildDSN(tt.cfg); dsn != tt.expected {
				t.Errorf("expected DSN %q, got %q", tt.expected, dsn)
			}
		})
	}
}

func TestOpenerFor_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := OpenerFor("mysql")
	assert.Error(t, err)
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
// retryInterval を書き換えるため並列実行しません。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	prev := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = prev })

	mockDB := &gorm.DB{}
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	prev := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = prev })

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 50*time.Millisecond, opener)
	if err == nil {
		t.Fatal("expected error after timeout, got nil")
	}
	if attemptCount < 2 {
		t.Errorf("expected at least two attempts, got %d", attemptCount)
	}
}

// TestOpen_SQLiteMigrates はSQLiteファイルへの接続とマイグレーションを検証します。
func TestOpen_SQLiteMigrates(t *testing.T) {
	t.Parallel()

	cfg := Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")}
	db, err := Open(cfg, time.Second, &migrated{})
	require.NoError(t, err)

	require.NoError(t, db.Create(&migrated{Name: "x"}).Error)
	var n int64
	require.NoError(t, db.Model(&migrated{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	_ = sqlDB.Close()
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PATH", "")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_SSLMODE", "require")

	cfg := LoadConfigFromEnv()

	assert.Equal(t, Config{
		Driver: "postgres", User: "envuser", Password: "envpass", Name: "envdb",
		Host: "envhost", Port: "5433", SSLMode: "require",
	}, cfg)
}
