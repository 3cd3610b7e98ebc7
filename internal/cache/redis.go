package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps client; keys are stored as "<prefix>:<key>".
func NewRedis(client *redis.Client, prefix string) Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) key(k string) string { return c.prefix + ":" + k }

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), val, ttl).Err()
}

func (c *redisCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+":*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
