package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps cache entries in redis. Keys expire after expiration, so
// dead entries do not pile up; freshness is still decided by the Manager.
type RedisStore struct {
	client     *redis.Client
	expiration time.Duration
}

func NewRedisStore(client *redis.Client, expiration time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		expiration: expiration,
	}
}

func (rs *RedisStore) Read(ctx context.Context, key string) ([]byte, error) {
	val, err := rs.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (rs *RedisStore) Write(ctx context.Context, key string, value []byte) error {
	return rs.client.Set(ctx, key, value, rs.expiration).Err()
}
