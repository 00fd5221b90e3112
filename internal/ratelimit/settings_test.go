package ratelimit

import (
	"encoding/json"
	"testing"
	"time"

	internalsettings "github.com/makemikefulleragain/kamunity-10july-sub001/internal/settings"
)

func TestLoadSettingsConfigFromSnapshot(t *testing.T) {
	internalsettings.ReplaceDBConfig(map[string]json.RawMessage{
		internalsettings.RateLimitRedisEnabledKey: json.RawMessage(`true`),
		internalsettings.RateLimitRedisAddrKey:    json.RawMessage(`"localhost:6379"`),
		internalsettings.RateLimitRedisDBKey:      json.RawMessage(`2`),
	})
	t.Cleanup(func() { internalsettings.ReplaceDBConfig(nil) })

	cfg := LoadSettingsConfig()
	if !cfg.RedisEnabled {
		t.Fatalf("expected redis enabled")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("unexpected addr: %q", cfg.RedisAddr)
	}
	if cfg.RedisDB != 2 {
		t.Fatalf("unexpected db: %d", cfg.RedisDB)
	}
	if cfg.RedisPrefix != internalsettings.DefaultRateLimitRedisPrefix {
		t.Fatalf("expected default prefix, got %q", cfg.RedisPrefix)
	}
}

func TestContactLimitsDefaultsAndOverrides(t *testing.T) {
	internalsettings.ReplaceDBConfig(nil)
	limits := ContactLimits()
	if limits.MaxAttempts != internalsettings.DefaultContactRateLimitMax {
		t.Fatalf("expected default max, got %d", limits.MaxAttempts)
	}
	if limits.Window != time.Duration(internalsettings.DefaultContactRateLimitWindowSeconds)*time.Second {
		t.Fatalf("expected default window, got %s", limits.Window)
	}

	internalsettings.ReplaceDBConfig(map[string]json.RawMessage{
		internalsettings.ContactRateLimitMaxKey:           json.RawMessage(`3`),
		internalsettings.ContactRateLimitWindowSecondsKey: json.RawMessage(`"60"`),
	})
	t.Cleanup(func() { internalsettings.ReplaceDBConfig(nil) })

	limits = ContactLimits()
	if limits.MaxAttempts != 3 {
		t.Fatalf("expected overridden max=3, got %d", limits.MaxAttempts)
	}
	if limits.Window != time.Minute {
		t.Fatalf("expected overridden window=1m, got %s", limits.Window)
	}
}
