package geo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/email-tracker/internal/config"
)

// Resolver is anything that can turn an IP into a location string.
type Resolver interface {
	Locate(ctx context.Context, ip string) string
}

// FromConfig builds the resolver described by cfg. The Redis client is
// non-nil only when a cache is configured; the caller owns closing it.
func FromConfig(cfg config.GeoConfig) (Resolver, *redis.Client, error) {
	if cfg.Disabled {
		return Nop{}, nil, nil
	}
	if cfg.RedisURL == "" {
		return NewLocator(cfg), nil, nil
	}
	cache, client, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.CacheTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("geo cache: %w", err)
	}
	return NewLocator(cfg, WithCache(cache)), client, nil
}
