package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Open connects to Redis when addr is set and falls back to the in-process
// cache otherwise. The returned func releases the connection.
func Open(ctx context.Context, addr, password string, db int) (Cache, func() error, error) {
	if addr == "" {
		return NewMemory(), func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedis(client, DefaultPrefix), client.Close, nil
}
