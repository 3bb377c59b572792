package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLimiter(client, window), mr
}

func TestAllowUnderLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, remaining, err := limiter.Allow(ctx, "1.2.3.4:booking", 5)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
		assert.Equal(t, 5-i-1, remaining)
	}
}

func TestDenyOverLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(ctx, "1.2.3.4:auth", 3)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, remaining, err := limiter.Allow(ctx, "1.2.3.4:auth", 3)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestIdentifiersIsolated(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute)
	ctx := context.Background()

	allowed, _, err := limiter.Allow(ctx, "1.2.3.4:auth", 1)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = limiter.Allow(ctx, "1.2.3.4:auth", 1)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, _, err = limiter.Allow(ctx, "5.6.7.8:auth", 1)
	require.NoError(t, err)
	assert.True(t, allowed, "a different client keeps its own window")
}

func TestReset(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute)
	ctx := context.Background()

	allowed, _, err := limiter.Allow(ctx, "1.2.3.4:admin", 1)
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "1.2.3.4:admin"))

	allowed, _, err = limiter.Allow(ctx, "1.2.3.4:admin", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
}
