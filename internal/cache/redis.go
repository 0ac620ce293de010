package cache

import (
	"carlton/internal/metrics"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "carlton:"

// Redis is a Store backed by a redis server.
type Redis struct {
	c *redis.Client
}

// NewRedis connects to redis and verifies the connection.
func NewRedis(addr, pass string, db int) (*Redis, error) {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
	}
	return &Redis{c: c}, nil
}

// Get returns the value for key, or nil on a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.c.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveCache("redis", "miss")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item from redis: %w", err)
	}
	metrics.ObserveCache("redis", "hit")
	return v, nil
}

// Set stores value under key; redis expires it after ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	metrics.ObserveCache("redis", "set")
	return r.c.Set(ctx, redisPrefix+key, value, ttl).Err()
}

// Delete removes the given keys.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = redisPrefix + k
	}
	metrics.ObserveCache("redis", "del")
	return r.c.Del(ctx, prefixed...).Err()
}

// Close closes the redis client.
func (r *Redis) Close() error {
	return r.c.Close()
}
