package credential

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "factorydash:"

// RedisKV keeps tokens in Redis so several dashboard processes can share
// browser sessions.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func redisKey(key string) string {
	return redisPrefix + key
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, redisKey(key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, redisKey(key), value, 0).Err()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisKey(key)).Err()
}
