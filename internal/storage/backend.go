package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/redis"
	"gorm.io/gorm"
)

// Backend is a string key-value store holding JSON documents.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Dependencies carries the connections a backend may be built on.
type Dependencies struct {
	Redis *redis.Client
	DB    *gorm.DB
}

// NewBackend selects the backend named by cfg.Driver. The none driver yields a
// nil backend, which the adapter treats as an unavailable store.
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.StorageDriverRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("redis storage driver requires a redis client")
		}
		return NewRedisBackend(deps.Redis, cfg.TTL), nil
	case config.StorageDriverDB:
		if deps.DB == nil {
			return nil, fmt.Errorf("db storage driver requires a database")
		}
		return NewDBBackend(deps.DB), nil
	case config.StorageDriverMemory:
		return NewMemoryBackend(), nil
	case config.StorageDriverNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
