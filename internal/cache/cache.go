// Package cache stores assembled public pages between requests.
package cache

import (
	"carlton/internal/config"
	"context"
	"fmt"
	"time"
)

// Store is a byte cache with per-item expiry. Get returns nil, nil on a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Purger is implemented by stores that must delete expired items themselves.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Purge removes expired items from s. Stores that expire on their own report 0.
func Purge(ctx context.Context, s Store) (int64, error) {
	if p, ok := s.(Purger); ok {
		return p.Purge(ctx)
	}
	return 0, nil
}

// New builds the Store selected by cfg.Backend.
func New(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "sqlite", "":
		return NewSQLite(cfg.FilePath)
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Nop is a Store that never holds anything.
type Nop struct{}

// Nop methods satisfy Store without storing anything.
func (Nop) Get(context.Context, string) ([]byte, error)              { return nil, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Delete(context.Context, ...string) error                  { return nil }
func (Nop) Close() error                                             { return nil }
