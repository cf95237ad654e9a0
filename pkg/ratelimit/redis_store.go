package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = window in milliseconds
// Returns: [current_count, pttl_remaining]
var incrementScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore shares counters between instances. Keys expire server-side, so
// Sweep has nothing to do.
type RedisStore struct {
	client goredis.UniversalClient
	prefix string
}

func NewRedisStore(client goredis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "rl:form:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	fullKey := s.prefix + key

	var getCmd *goredis.StringCmd
	var ttlCmd *goredis.DurationCmd
	_, err := s.client.Pipelined(ctx, func(p goredis.Pipeliner) error {
		getCmd = p.Get(ctx, fullKey)
		ttlCmd = p.PTTL(ctx, fullKey)
		return nil
	})
	if err != nil && !errors.Is(err, goredis.Nil) {
		return Entry{}, false, fmt.Errorf("redis rate limit get failed: %w", err)
	}

	count, err := getCmd.Int()
	if errors.Is(err, goredis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis rate limit get failed: %w", err)
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = 0
	}
	return Entry{Count: count, ResetAt: time.Now().Add(ttl)}, true, nil
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Entry, error) {
	result, err := incrementScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	// Parse result [count, pttl]
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return Entry{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return Entry{
		Count:   int(count),
		ResetAt: now.Add(time.Duration(ttl) * time.Millisecond),
	}, nil
}

func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
