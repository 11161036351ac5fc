package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

// TestNewRedisStore_Defaults はnamespace未指定時にデフォルト値が使われることを検証します。
func TestNewRedisStore_Defaults(t *testing.T) {
	t.Parallel()

	s := NewRedisStore(nil, "")
	if s.namespace != DefaultNamespace {
		t.Errorf("expected namespace %q, got %q", DefaultNamespace, s.namespace)
	}
	if s.Name() != "redis" {
		t.Errorf("expected name redis, got %q", s.Name())
	}
}

// TestRedisStore_Get はキャッシュヒット・ミス・Redisエラーの各ケースを検証します。
func TestRedisStore_Get(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("insights:k1").SetVal("value")
	mock.ExpectGet("insights:k2").RedisNil()
	mock.ExpectGet("insights:k3").SetErr(errors.New("connection reset"))

	s := NewRedisStore(rdb, "insights")

	b, err := s.Get(context.Background(), "k1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "value" {
		t.Errorf("expected value, got %q", b)
	}

	if _, err := s.Get(context.Background(), "k2"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}

	if _, err := s.Get(context.Background(), "k3"); err == nil || errors.Is(err, ErrMiss) {
		t.Errorf("expected redis error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestRedisStore_SetDelete(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectSet("ns:key", []byte("v"), time.Hour).SetVal("OK")
	mock.ExpectDel("ns:key").SetVal(1)

	s := NewRedisStore(rdb, "ns")
	if err := s.Set(context.Background(), "key", []byte("v"), time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete(context.Background(), "key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestRedisStore_Clear はSCANとDELで名前空間配下の全キーが削除されることを検証します。
func TestRedisStore_Clear(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "insights:*", 200).SetVal([]string{"insights:a", "insights:b"}, 7)
	mock.ExpectDel("insights:a", "insights:b").SetVal(2)
	mock.ExpectScan(7, "insights:*", 200).SetVal([]string{"insights:c"}, 0)
	mock.ExpectDel("insights:c").SetVal(1)

	s := NewRedisStore(rdb, "insights")
	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestRedisStore_Clear_ScanError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "insights:*", 200).SetErr(errors.New("scan failed"))

	s := NewRedisStore(rdb, "")
	if err := s.Clear(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"BRK A", "BRK_A"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := safe(tt.input); got != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
