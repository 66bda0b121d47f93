// Package redis opens the shared connection used by the uniqueness index and
// the access history.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trustestate/internal/platform/config"
)

// Client embeds the go-redis client so stores can take *redis.Client directly.
type Client struct {
	*redis.Client
}

// Options turns the pool settings into go-redis options. Zero values leave
// the go-redis defaults in place.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	setIfPositive(&opts.PoolSize, cfg.PoolSize)
	setIfPositive(&opts.MinIdleConns, cfg.MinIdleConns)
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func setIfPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// New connects and pings. An empty URL yields (nil, nil) and callers fall
// back to the in-memory index.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{Client: redis.NewClient(opts)}
	if err := c.Health(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", opts.Addr, err)
	}
	return c, nil
}

// Health backs the /health probe.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
