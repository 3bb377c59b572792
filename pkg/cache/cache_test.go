package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewService(client, "test"), mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSetGet(t *testing.T) {
	svc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "showtimes", payload{Name: "evening", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, svc.Get(ctx, "showtimes", &got))
	assert.Equal(t, "evening", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestGetMiss(t *testing.T) {
	svc, _ := newTestCache(t)

	var got payload
	err := svc.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k1", payload{}, time.Minute))
	require.NoError(t, svc.Delete(ctx, "k1"))

	var got payload
	assert.ErrorIs(t, svc.Get(ctx, "k1", &got), ErrCacheMiss)
}

func TestDeletePattern(t *testing.T) {
	svc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "showtimes:1", payload{}, time.Minute))
	require.NoError(t, svc.Set(ctx, "showtimes:2", payload{}, time.Minute))
	require.NoError(t, svc.Set(ctx, "bookings:1", payload{Count: 7}, time.Minute))

	require.NoError(t, svc.DeletePattern(ctx, "showtimes:*"))

	var got payload
	assert.ErrorIs(t, svc.Get(ctx, "showtimes:1", &got), ErrCacheMiss)
	assert.ErrorIs(t, svc.Get(ctx, "showtimes:2", &got), ErrCacheMiss)
	assert.NoError(t, svc.Get(ctx, "bookings:1", &got))
	assert.Equal(t, 7, got.Count)
}

func TestGetOrSet(t *testing.T) {
	svc, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return payload{Name: "fresh", Count: calls}, nil
	}

	var first payload
	require.NoError(t, svc.GetOrSet(ctx, "k", &first, time.Minute, fetch))
	assert.Equal(t, 1, first.Count)

	var second payload
	require.NoError(t, svc.GetOrSet(ctx, "k", &second, time.Minute, fetch))
	assert.Equal(t, 1, second.Count, "second read must come from cache")
	assert.Equal(t, 1, calls)
}

func TestTTLExpiry(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "short", payload{}, time.Second))
	mr.FastForward(2 * time.Second)

	var got payload
	assert.ErrorIs(t, svc.Get(ctx, "short", &got), ErrCacheMiss)
}
