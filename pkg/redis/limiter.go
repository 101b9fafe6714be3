package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-inventory-tracker/pkg/config"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace    = "inv"
	rateLimitPrefix = "rate_limit"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Incr(context.Context, string) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	TTL(context.Context, string) *redis.DurationCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client wraps the redis connection used for rate limiting.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// New connects to cfg.URL and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{store: raw, raw: raw}, nil
}

// FixedWindowAllow counts a hit for scope and reports whether it is within limit for the window.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.store == nil {
		return false, 0, errors.New("redis client not initialized")
	}
	key := c.RateLimitKey(scope)
	count, err := c.store.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	allowed := count <= limit
	if window <= 0 {
		return allowed, count, nil
	}
	switch {
	case count == 1:
		if err := c.store.Expire(ctx, key, window).Err(); err != nil {
			return allowed, count, err
		}
	case !allowed:
		// A lost EXPIRE on the first hit would otherwise deny the scope forever.
		ttl, err := c.store.TTL(ctx, key).Result()
		if err != nil {
			return false, count, err
		}
		if ttl < 0 {
			if err := c.store.Expire(ctx, key, window).Err(); err != nil {
				return false, count, err
			}
		}
	}
	return allowed, count, nil
}

// ResetWindow clears the counter for scope.
func (c *Client) ResetWindow(ctx context.Context, scope string) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Del(ctx, c.RateLimitKey(scope)).Err()
}

func (c *Client) RateLimitKey(scope string) string {
	return buildKey(rateLimitPrefix, scope)
}

func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// LoginLimiter throttles sign-in attempts per email.
type LoginLimiter struct {
	client *Client
	limit  int64
	window time.Duration
}

func NewLoginLimiter(client *Client, cfg config.RateLimitConfig) *LoginLimiter {
	return &LoginLimiter{client: client, limit: int64(cfg.LoginLimit), window: cfg.LoginWindow}
}

func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	allowed, _, err := l.client.FixedWindowAllow(ctx, loginScope(email), l.limit, l.window)
	return allowed, err
}

// Reset clears the attempt counter after a successful sign-in.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.ResetWindow(ctx, loginScope(email))
}

func loginScope(email string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(email))
}

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
