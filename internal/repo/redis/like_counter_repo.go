package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// incrementScript counts and opens the window in one step. A key left without
// a TTL gets one here, so a lost expiry cannot pin the counter forever.
var incrementScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// stateScript reads a window and repairs a key that exists without a TTL.
var stateScript = goredis.NewScript(`
local count = redis.call('GET', KEYS[1])
if not count then
	return {0, 0}
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl == -1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {tonumber(count), ttl}
`)

// releaseScript hands one unit back without touching the window bounds.
var releaseScript = goredis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
if count <= 0 then
	return 0
end
return redis.call('DECR', KEYS[1])
`)

// LikeCounterRepo keeps fixed-window counters. The window opens on the first
// increment and the key expires when it closes.
type LikeCounterRepo struct {
	client *goredis.Client
}

func NewLikeCounterRepo(client *goredis.Client) *LikeCounterRepo {
	return &LikeCounterRepo{client: client}
}

func (r *LikeCounterRepo) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if r.client == nil {
		return 0, 0, fmt.Errorf("redis client is nil")
	}
	if key == "" || window <= 0 {
		return 0, 0, fmt.Errorf("invalid counter window payload")
	}

	vals, err := incrementScript.Run(ctx, r.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("increment counter key: %w", err)
	}
	return scriptWindow(vals)
}

// WindowState reads the counter without counting. window is only used to
// repair a key that lost its expiry.
func (r *LikeCounterRepo) WindowState(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if r.client == nil {
		return 0, 0, fmt.Errorf("redis client is nil")
	}
	if key == "" || window <= 0 {
		return 0, 0, fmt.Errorf("invalid counter window payload")
	}

	vals, err := stateScript.Run(ctx, r.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("get counter key state: %w", err)
	}
	return scriptWindow(vals)
}

// ReleaseWindow takes back one increment. It never goes below zero.
func (r *LikeCounterRepo) ReleaseWindow(ctx context.Context, key string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if key == "" {
		return fmt.Errorf("counter key is required")
	}

	if err := releaseScript.Run(ctx, r.client, []string{key}).Err(); err != nil {
		return fmt.Errorf("release counter key: %w", err)
	}
	return nil
}

func scriptWindow(vals []int64) (int64, time.Duration, error) {
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("unexpected counter script reply: %v", vals)
	}
	ttl := time.Duration(vals[1]) * time.Millisecond
	if ttl < 0 {
		ttl = 0
	}
	return vals[0], ttl, nil
}
