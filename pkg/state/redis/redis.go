package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"
	intRedis "github.com/retail-ai-inc/storagebridge/internal/db/redis"
	"github.com/retail-ai-inc/storagebridge/pkg/config"
)

// RedisStore keeps each key as a plain Redis string without expiry.
type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func Open(ctx context.Context, cfg config.StorageConfig) (*RedisStore, error) {
	client, err := intRedis.GetRedisClient(ctx, cfg.Connection)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(client), nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
