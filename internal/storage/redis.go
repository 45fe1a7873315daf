package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/redis"
)

// RedisBackend stores documents as redis strings, optionally expiring them.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := r.client.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, string(value), r.ttl); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
