package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implements a sliding-window in-memory rate limiter. Attempt
// timestamps are kept per key and pruned on every check, so every retained
// entry is within the window of "now" at read time.
type MemoryLimiter struct {
	mu       sync.Mutex
	attempts map[string][]int64 // key -> attempt times, milliseconds since epoch
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		attempts: make(map[string][]int64),
	}
}

// Allow checks whether the attempt fits inside the trailing window. Allowed
// attempts are recorded; denied attempts are not.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error) {
	if limit <= 0 || window <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	nowMs := now.UnixMilli()
	windowMs := window.Milliseconds()
	cutoff := nowMs - windowMs

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := pruneBefore(l.attempts[key], cutoff)

	if len(recent) >= limit {
		l.attempts[key] = recent
		reset := time.UnixMilli(recent[0] + windowMs).UTC()
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}

	recent = append(recent, nowMs)
	l.attempts[key] = recent
	reset := time.UnixMilli(recent[0] + windowMs).UTC()
	return Result{Allowed: true, Remaining: limit - len(recent), Reset: reset}, nil
}

// Sweep drops keys whose attempts have all aged past the window and returns
// the number of keys removed. It bounds memory growth from one-off clients.
func (l *MemoryLimiter) Sweep(window time.Duration, now time.Time) int {
	cutoff := now.UnixMilli() - window.Milliseconds()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, stamps := range l.attempts {
		recent := pruneBefore(stamps, cutoff)
		if len(recent) == 0 {
			delete(l.attempts, key)
			removed++
			continue
		}
		l.attempts[key] = recent
	}
	return removed
}

// pruneBefore retains timestamps strictly newer than cutoff. Stamps are
// appended in order, so the retained suffix stays sorted.
func pruneBefore(stamps []int64, cutoff int64) []int64 {
	i := 0
	for i < len(stamps) && stamps[i] <= cutoff {
		i++
	}
	if i == 0 {
		return stamps
	}
	return append([]int64(nil), stamps[i:]...)
}
