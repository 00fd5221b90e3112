package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestManagerMemoryFallbackWithoutRedis(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	manager := NewManager(func() SettingsConfig {
		return SettingsConfig{}
	}, func() time.Time {
		return now
	}, nil)

	for i := 0; i < 2; i++ {
		res, errAllow := manager.Allow(context.Background(), "k", 2, time.Minute)
		if errAllow != nil {
			t.Fatalf("unexpected error: %v", errAllow)
		}
		if !res.Allowed {
			t.Fatalf("attempt %d: expected allowed", i+1)
		}
	}
	res, _ := manager.Allow(context.Background(), "k", 2, time.Minute)
	if res.Allowed {
		t.Fatalf("expected third attempt denied")
	}
}

func TestManagerRedisEnabledButUnreachableFallsBack(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	manager := NewManager(func() SettingsConfig {
		// Enabled but no address configured: ensureRedis fails, breaker trips.
		return SettingsConfig{RedisEnabled: true}
	}, func() time.Time {
		return now
	}, nil)

	res, errAllow := manager.Allow(context.Background(), "k", 1, time.Minute)
	if errAllow != nil {
		t.Fatalf("unexpected error: %v", errAllow)
	}
	if !res.Allowed {
		t.Fatalf("expected memory fallback to allow")
	}
	if res2, _ := manager.Allow(context.Background(), "k", 1, time.Minute); res2.Allowed {
		t.Fatalf("expected memory fallback to enforce the limit")
	}
}

func TestManagerEmptyKeyAllows(t *testing.T) {
	manager := NewManager(func() SettingsConfig { return SettingsConfig{} }, nil, nil)
	res, errAllow := manager.Allow(context.Background(), "", 1, time.Minute)
	if errAllow != nil {
		t.Fatalf("unexpected error: %v", errAllow)
	}
	if !res.Allowed {
		t.Fatalf("expected empty key to bypass limiting")
	}
}

func TestKeyNamespacing(t *testing.T) {
	if got := Key("contact", "1.2.3.4"); got != "contact:1.2.3.4" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := Key("", "1.2.3.4"); got != "" {
		t.Fatalf("expected empty key for missing endpoint, got %q", got)
	}
	if got := Key("contact", ""); got != "" {
		t.Fatalf("expected empty key for missing client, got %q", got)
	}
}
