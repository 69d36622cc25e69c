// Package cache implements the string key/value stores fitpal persists to.
package cache

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/go-redis/redis/v8"
)

// DefaultPrefix namespaces every key written to Redis.
const DefaultPrefix = "fitpal:"

// Cache is a synchronous string key/value store. Get reports ok=false for a
// missing key rather than an error.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type RedisCache struct {
	conn   *redis.Client
	prefix string
}

func NewRedisCache(ctx context.Context, addr, prefix string) (*RedisCache, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisCache{conn: client, prefix: prefix}, nil
}

func (rc *RedisCache) key(k string) string {
	return rc.prefix + k
}

// Set stores a value in the cache.
func (rc *RedisCache) Set(ctx context.Context, key, value string) error {
	return rc.conn.Set(ctx, rc.key(key), value, 0).Err()
}

// Get retrieves a value from the cache.
func (rc *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := rc.conn.Get(ctx, rc.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Delete removes a single key.
func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	return rc.conn.Del(ctx, rc.key(key)).Err()
}

// Clear removes every key under the prefix, leaving the rest of the database alone.
func (rc *RedisCache) Clear(ctx context.Context) error {
	iter := rc.conn.Scan(ctx, 0, rc.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return rc.conn.Del(ctx, keys...).Err()
}

// Close releases the underlying connection pool.
func (rc *RedisCache) Close() error {
	return rc.conn.Close()
}
