package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims entries outside the window, counts what is left,
// and admits the request by adding its timestamp if the limit allows. Runs
// atomically inside redis.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count < limit then
    redis.call('ZADD', key, now, now .. '-' .. math.random())
    redis.call('PEXPIRE', key, window)
    return {1, limit - count - 1}
end
return {0, 0}
`

// Limiter is a redis backed sliding window rate limiter.
type Limiter struct {
	client *redis.Client
	script *redis.Script
	window time.Duration
}

func NewLimiter(client *redis.Client, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		script: redis.NewScript(slidingWindowScript),
		window: window,
	}
}

// Allow reports whether the identified client may proceed and how many
// requests remain in the current window.
func (l *Limiter) Allow(ctx context.Context, identifier string, limit int) (bool, int, error) {
	key := "ratelimit:" + identifier
	now := time.Now().UnixMilli()

	result, err := l.script.Run(ctx, l.client, []string{key}, now, l.window.Milliseconds(), limit).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected rate limit script result %v", result)
	}
	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	return allowed == 1, int(remaining), nil
}

// Reset clears the window for an identifier. Used by tests and operators.
func (l *Limiter) Reset(ctx context.Context, identifier string) error {
	return l.client.Del(ctx, "ratelimit:"+identifier).Err()
}
