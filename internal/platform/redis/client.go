// Package redis opens the connection behind the tabular event store.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ahwr/internal/platform/config"
)

// Client is a pinged go-redis client.
type Client struct {
	*redis.Client
}

// New connects using cfg and fails unless the server answers a PING.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{Client: redis.NewClient(opts)}
	if err := c.Health(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("connect to redis %s: %w", opts.Addr, err), c.Close())
	}
	return c, nil
}

// options overlays the configured pool and timeout settings on the URL.
// Zero values keep the go-redis defaults.
func options(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.MinIdleConns = cfg.MinIdleConns
	for _, o := range []struct {
		set bool
		fn  func()
	}{
		{cfg.PoolSize > 0, func() { opts.PoolSize = cfg.PoolSize }},
		{cfg.DialTimeout > 0, func() { opts.DialTimeout = cfg.DialTimeout }},
		{cfg.ReadTimeout > 0, func() { opts.ReadTimeout = cfg.ReadTimeout }},
		{cfg.WriteTimeout > 0, func() { opts.WriteTimeout = cfg.WriteTimeout }},
	} {
		if o.set {
			o.fn()
		}
	}
	return opts, nil
}

// Health pings the server; it backs the /health redis check.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
