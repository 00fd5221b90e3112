package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterAllowsUpToLimit(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	window := 15 * time.Minute

	for i := 0; i < 5; i++ {
		res, errAllow := limiter.Allow(context.Background(), "contact:1.2.3.4", 5, window, now)
		if errAllow != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i+1, errAllow)
		}
		if !res.Allowed {
			t.Fatalf("attempt %d: expected allowed", i+1)
		}
		if res.Remaining != 5-(i+1) {
			t.Fatalf("attempt %d: expected remaining=%d, got %d", i+1, 5-(i+1), res.Remaining)
		}
	}

	res, _ := limiter.Allow(context.Background(), "contact:1.2.3.4", 5, window, now)
	if res.Allowed {
		t.Fatalf("expected 6th attempt to be denied")
	}
}

func TestMemoryLimiterDeniedAttemptNotRecorded(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	if res, _ := limiter.Allow(context.Background(), "k", 1, window, now); !res.Allowed {
		t.Fatalf("expected first attempt allowed")
	}
	// Hammer the denied path; none of these may extend the window.
	for i := 0; i < 10; i++ {
		if res, _ := limiter.Allow(context.Background(), "k", 1, window, now.Add(30*time.Second)); res.Allowed {
			t.Fatalf("expected denial inside window")
		}
	}
	// One window after the single recorded attempt, the budget is back.
	res, _ := limiter.Allow(context.Background(), "k", 1, window, now.Add(window))
	if !res.Allowed {
		t.Fatalf("expected window to decay after %s", window)
	}
}

func TestMemoryLimiterWindowDecay(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	window := 15 * time.Minute

	for i := 0; i < 5; i++ {
		limiter.Allow(context.Background(), "k", 5, window, now)
	}
	if res, _ := limiter.Allow(context.Background(), "k", 5, window, now.Add(window-time.Millisecond)); res.Allowed {
		t.Fatalf("expected denial just inside window")
	}
	if res, _ := limiter.Allow(context.Background(), "k", 5, window, now.Add(window)); !res.Allowed {
		t.Fatalf("expected allowance once window fully decayed")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	for i := 0; i < 3; i++ {
		limiter.Allow(context.Background(), "contact:1.1.1.1", 3, window, now)
	}
	if res, _ := limiter.Allow(context.Background(), "contact:1.1.1.1", 3, window, now); res.Allowed {
		t.Fatalf("expected key A exhausted")
	}
	if res, _ := limiter.Allow(context.Background(), "contact:2.2.2.2", 3, window, now); !res.Allowed {
		t.Fatalf("expected key B unaffected by key A")
	}
	if res, _ := limiter.Allow(context.Background(), "subscribe:1.1.1.1", 3, window, now); !res.Allowed {
		t.Fatalf("expected other endpoint namespace unaffected")
	}
}

func TestMemoryLimiterZeroLimitAllows(t *testing.T) {
	limiter := NewMemoryLimiter()
	res, errAllow := limiter.Allow(context.Background(), "k", 0, time.Minute, time.Now())
	if errAllow != nil {
		t.Fatalf("unexpected error: %v", errAllow)
	}
	if !res.Allowed {
		t.Fatalf("expected zero limit to disable limiting")
	}
}

func TestMemoryLimiterSweep(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	limiter.Allow(context.Background(), "old", 5, window, now)
	limiter.Allow(context.Background(), "fresh", 5, window, now.Add(2*window))

	removed := limiter.Sweep(window, now.Add(2*window))
	if removed != 1 {
		t.Fatalf("expected 1 key swept, got %d", removed)
	}
	if _, ok := limiter.attempts["old"]; ok {
		t.Fatalf("expected decayed key to be removed")
	}
	if _, ok := limiter.attempts["fresh"]; !ok {
		t.Fatalf("expected live key to survive sweep")
	}
}
