package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key written by this service.
const DefaultNamespace = "insights"

// RedisStore is a Store backed by Redis. All keys live under "{namespace}:".
type RedisStore struct {
	rdb       *redis.Client
	namespace string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps rdb. If namespace is empty, it uses DefaultNamespace.
func NewRedisStore(rdb *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisStore{rdb: rdb, namespace: namespace}
}

func (s *RedisStore) Name() string { return "redis" }

// Get returns ErrMiss when Redis has no value for the key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, ErrMiss
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(key), val, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// Clear deletes every key under the namespace.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.deleteByPattern(ctx, s.namespace+":*")
}

func (s *RedisStore) key(k string) string {
	return s.namespace + ":" + k
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (s *RedisStore) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := s.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
