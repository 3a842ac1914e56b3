package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"Bookstore_API/internal/models"
	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 200

// RedisCache implements Service on a Redis database owned by this service.
//
// Values are stored as JSON and returned as json.RawMessage; Redis expires
// keys itself, so every key it still reports counts as valid.
type RedisCache struct {
	client    *redis.Client
	namespace string

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCache creates a new Redis-based cache whose keys are prefixed with namespace
func NewRedisCache(redisURL, namespace string) (Service, error) {
	cache, err := newRedisCache(redisURL, namespace)
	if err != nil {
		return nil, err
	}
	return cache, nil
}

// newRedisCache creates the concrete implementation
func newRedisCache(redisURL, namespace string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{
		client:    client,
		namespace: namespace,
	}, nil
}

func (r *RedisCache) key(key string) string {
	return r.namespace + key
}

// Get retrieves a cached value for the given key
func (r *RedisCache) Get(ctx context.Context, key string) (interface{}, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.misses.Add(1)
			return nil, models.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	r.hits.Add(1)
	return json.RawMessage(data), nil
}

// Set stores a value in Redis with the specified TTL
func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("TTL must be positive, got: %v", ttl)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// Delete removes an entry from Redis and reports whether it existed
func (r *RedisCache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, r.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis delete failed: %w", err)
	}
	return n > 0, nil
}

// ClearByPattern deletes every key in the namespace that matches pattern
func (r *RedisCache) ClearByPattern(ctx context.Context, pattern string) (int, error) {
	if _, err := compilePattern(pattern); err != nil {
		return 0, err
	}

	keys, err := r.scan(ctx, toRedisGlob(r.namespace)+toRedisGlob(pattern))
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	removed := 0
	for start := 0; start < len(keys); start += scanBatchSize {
		end := min(start+scanBatchSize, len(keys))
		n, err := r.client.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return removed, fmt.Errorf("redis delete failed: %w", err)
		}
		removed += int(n)
	}

	return removed, nil
}

// Clear removes every key in the namespace
func (r *RedisCache) Clear(ctx context.Context) error {
	_, err := r.ClearByPattern(ctx, "*")
	return err
}

// SweepExpired is a no-op: Redis never reports an expired key
func (r *RedisCache) SweepExpired(ctx context.Context) (int, error) {
	return 0, nil
}

// Stats counts the keys currently in the namespace
func (r *RedisCache) Stats(ctx context.Context) (Stats, error) {
	keys, err := r.scan(ctx, toRedisGlob(r.namespace)+"*")
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalEntries: len(keys),
		ValidEntries: len(keys),
		Hits:         r.hits.Load(),
		Misses:       r.misses.Load(),
	}, nil
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) scan(ctx context.Context, match string) ([]string, error) {
	// SCAN may return a key more than once
	seen := make(map[string]struct{})
	var keys []string
	iter := r.client.Scan(ctx, 0, match, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		if _, dup := seen[iter.Val()]; dup {
			continue
		}
		seen[iter.Val()] = struct{}{}
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed: %w", err)
	}
	return keys, nil
}
