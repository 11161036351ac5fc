// Package db はgormによるデータベース接続を提供します（SQLite / PostgreSQL）。
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultSQLitePath はSQLite使用時のデフォルトファイルです。
	DefaultSQLitePath = "stock_insights.db"
)

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// Config holds database connection settings.
type Config struct {
	Driver   string
	Path     string // sqlite file path
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		Driver:   os.Getenv("DB_DRIVER"),
		Path:     os.Getenv("DB_PATH"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
}

// BuildDSN はドライバーに応じたDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverPostgres {
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, port, sslmode)
	}
	if cfg.Path == "" {
		return DefaultSQLitePath
	}
	return cfg.Path
}

// OpenerFor returns the gorm opener for the configured driver.
func OpenerFor(driver string) (Opener, error) {
	switch driver {
	case "", DriverSQLite:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), &gorm.Config{}) }, nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), &gorm.Config{}) }, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// ConnectWithRetry は接続に成功するか timeout を超えるまで retryInterval 間隔で再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Open connects with retry and auto-migrates the given models.
func Open(cfg Config, timeout time.Duration, models ...any) (*gorm.DB, error) {
	open, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, open)
	if err != nil {
		return nil, err
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	slog.Info("database connected", "driver", cfg.Driver)
	return db, nil
}
