package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-inventory-tracker/pkg/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCmdable struct {
	counters    map[string]int64
	ttls        map[string]time.Duration
	expireCalls []string
	expireErr   error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{counters: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.counters[key]++
	return redis.NewIntResult(m.counters[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, key)
	if m.expireErr != nil {
		return redis.NewBoolResult(false, m.expireErr)
	}
	m.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) TTL(ctx context.Context, key string) *redis.DurationCmd {
	if _, ok := m.counters[key]; !ok {
		return redis.NewDurationResult(-2, nil)
	}
	if ttl, ok := m.ttls[key]; ok {
		return redis.NewDurationResult(ttl, nil)
	}
	return redis.NewDurationResult(-1, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := m.counters[key]; ok {
			delete(m.counters, key)
			delete(m.ttls, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "scope", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.EqualValues(t, 1, count)
	assert.Len(t, mock.expireCalls, 1)

	allowed, count, err = client.FixedWindowAllow(ctx, "scope", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.EqualValues(t, 2, count)
	assert.Len(t, mock.expireCalls, 1, "expire is only set on the first hit")

	allowed, _, err = client.FixedWindowAllow(ctx, "scope", 2, time.Second)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Len(t, mock.expireCalls, 1, "a counter with a ttl is left alone")
}

func TestFixedWindowAllow_RestoresMissingExpiry(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.expireErr = errors.New("connection reset")
	client := &Client{store: mock}

	_, count, err := client.FixedWindowAllow(ctx, "scope", 1, time.Minute)
	require.Error(t, err)
	assert.EqualValues(t, 1, count)

	mock.expireErr = nil
	allowed, _, err := client.FixedWindowAllow(ctx, "scope", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, mock.ttls[client.RateLimitKey("scope")])
}

func TestLoginLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewLoginLimiter(&Client{store: newMockCmdable()}, config.RateLimitConfig{LoginLimit: 1, LoginWindow: time.Minute})

	allowed, err := limiter.Allow(ctx, "Owner@Example.com")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, " owner@example.com ")
	require.NoError(t, err)
	assert.False(t, allowed, "emails are normalized into one counter")

	require.NoError(t, limiter.Reset(ctx, "owner@example.com"))
	allowed, err = limiter.Allow(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitKey(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "inv:rate_limit:login:a@b.c", client.RateLimitKey(loginScope("A@B.c")))
}
