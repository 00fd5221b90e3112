package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisAllowScript implements the sliding window on a sorted set: prune
// entries older than the window, deny without recording when the pruned
// count is at the limit, otherwise record the attempt and refresh the TTL.
var redisAllowScript = redis.NewScript(`
redis.call("ZREMRANGEBYSCORE", KEYS[1], 0, ARGV[1])
local count = redis.call("ZCARD", KEYS[1])
if count >= tonumber(ARGV[2]) then
  return -1
end
redis.call("ZADD", KEYS[1], ARGV[3], ARGV[4])
redis.call("PEXPIRE", KEYS[1], ARGV[5])
return tonumber(ARGV[2]) - count - 1
`)

// RedisLimiter implements a sliding-window rate limiter backed by Redis, for
// deployments where several instances must share one budget.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter constructs a RedisLimiter.
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: strings.TrimSpace(prefix),
	}
}

// Allow checks whether the attempt fits inside the trailing window.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error) {
	if limit <= 0 || window <= 0 || key == "" || l == nil || l.client == nil {
		return Result{Allowed: true}, nil
	}
	nowMs := now.UnixMilli()
	windowMs := window.Milliseconds()
	cutoff := nowMs - windowMs
	member := strconv.FormatInt(now.UnixNano(), 10)

	res, errEval := redisAllowScript.Run(ctx, l.client, []string{l.buildKey(key)},
		cutoff, limit, nowMs, member, windowMs).Result()
	if errEval != nil {
		return Result{}, errEval
	}
	remaining, ok := res.(int64)
	if !ok {
		return Result{}, errors.New("rate limit redis: unexpected response type")
	}
	reset := time.UnixMilli(nowMs + windowMs).UTC()
	if remaining < 0 {
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	return Result{Allowed: true, Remaining: int(remaining), Reset: reset}, nil
}

func (l *RedisLimiter) buildKey(key string) string {
	prefix := strings.TrimSpace(l.prefix)
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}
