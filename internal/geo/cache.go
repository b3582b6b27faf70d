package geo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores resolved locations by IP.
type Cache interface {
	Get(ctx context.Context, ip string) (string, bool, error)
	Set(ctx context.Context, ip, location string) error
}

// RedisCache is a Cache backed by Redis string keys with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache that keeps entries for ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisCacheFromURL parses a redis:// URL and returns the cache together
// with the client so the caller can close it.
func NewRedisCacheFromURL(rawURL string, ttl time.Duration) (*RedisCache, *redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	return NewRedisCache(client, ttl), client, nil
}

func cacheKey(ip string) string { return "geo:" + ip }

// Get returns the cached location; ok is false on a miss.
func (c *RedisCache) Get(ctx context.Context, ip string) (string, bool, error) {
	loc, err := c.client.Get(ctx, cacheKey(ip)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return loc, true, nil
}

// Set stores a location. Empty results are cached too so that addresses
// the upstream cannot place are not looked up on every event.
func (c *RedisCache) Set(ctx context.Context, ip, location string) error {
	return c.client.Set(ctx, cacheKey(ip), location, c.ttl).Err()
}
