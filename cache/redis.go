package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Cache = (*Redis)(nil)

// Redis is a Cache backed by a redis server, sharing it safely with other apps via a key prefix.
type Redis struct {
	client    redis.Cmdable
	keyPrefix string
}

type RedisOption func(*Redis)

// WithKeyPrefix sets the prefix prepended to every key as "<prefix>:<key>"
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.keyPrefix = prefix
	}
}

func NewRedis(client redis.Cmdable, opts ...RedisOption) *Redis {
	r := &Redis{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRedisFromURL parses a redis:// or rediss:// URL and returns the cache together with the
// underlying client so the caller can close it on shutdown.
func NewRedisFromURL(url string, opts ...RedisOption) (*Redis, *redis.Client, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("[cache NewRedisFromURL] %w", err)
	}
	client := redis.NewClient(options)
	return NewRedis(client, opts...), client, nil
}

func (r *Redis) prefixedKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + ":" + key
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefixedKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("[cache Redis.Get] %w", err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.prefixedKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("[cache Redis.Set] %w", err)
	}
	return nil
}

// Ping checks connectivity, used by the health endpoint
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
