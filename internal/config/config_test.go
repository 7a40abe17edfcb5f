package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "booker")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "room_booking")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")
	t.Setenv("BCRYPT_COST", "10")

	cfg := Load()
	if cfg.Env != "test" || cfg.Port != "8080" {
		t.Fatalf("unexpected app settings: %+v", cfg)
	}
	if cfg.DBUser != "booker" || cfg.DBHost != "127.0.0.1" || cfg.DBName != "room_booking" {
		t.Fatalf("unexpected db settings: %+v", cfg)
	}
	if cfg.DBPass != "" {
		t.Fatalf("expected empty password to be allowed")
	}
	if cfg.AccessTTLMin != 15 || cfg.RefreshTTLDays != 30 || cfg.BcryptCost != 10 {
		t.Fatalf("unexpected numeric settings: %+v", cfg)
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"CACHE_ENABLED", "CACHE_METHODS", "CACHE_TTL", "CACHE_PREFIX", "CACHE_MAX_BODY_BYTES"} {
			t.Setenv(k, "")
		}
		cfg := LoadCacheConfig()
		if !cfg.Enabled {
			t.Fatalf("expected cache enabled by default")
		}
		if !cfg.Methods["GET"] || len(cfg.Methods) != 1 {
			t.Fatalf("expected GET-only methods, got %v", cfg.Methods)
		}
		if cfg.TTL != 30*time.Second {
			t.Fatalf("expected 30s TTL, got %v", cfg.TTL)
		}
		if cfg.MaxBodyBytes != 1048576 {
			t.Fatalf("expected 1 MiB body cap, got %d", cfg.MaxBodyBytes)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "false")
		t.Setenv("CACHE_METHODS", "get, head")
		t.Setenv("CACHE_TTL", "2m")
		cfg := LoadCacheConfig()
		if cfg.Enabled {
			t.Fatalf("expected cache disabled")
		}
		if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
			t.Fatalf("expected normalized methods, got %v", cfg.Methods)
		}
		if cfg.TTL != 2*time.Minute {
			t.Fatalf("expected 2m TTL, got %v", cfg.TTL)
		}
	})

	t.Run("bad duration falls back", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")
		if cfg := LoadCacheConfig(); cfg.TTL != time.Second {
			t.Fatalf("expected 1s fallback, got %v", cfg.TTL)
		}
	})
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Run("clamps nonsense values", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_CAPACITY", "-5")
		t.Setenv("RATE_LIMIT_REFILL_TOKENS", "0")
		t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "-1s")
		t.Setenv("RATE_LIMIT_TTL", "1s")
		cfg := LoadRateLimitConfig()
		if cfg.Capacity != 1 || cfg.RefillTokens != 1 {
			t.Fatalf("expected clamped capacity/refill, got %+v", cfg)
		}
		if cfg.RefillInterval <= 0 {
			t.Fatalf("expected positive interval, got %v", cfg.RefillInterval)
		}
		if cfg.TTL < 5*cfg.RefillInterval {
			t.Fatalf("expected TTL of at least 5 intervals, got %v", cfg.TTL)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"RATE_LIMIT_ENABLED", "RATE_LIMIT_CAPACITY", "RATE_LIMIT_REFILL_TOKENS", "RATE_LIMIT_REFILL_INTERVAL", "RATE_LIMIT_TTL", "RATE_LIMIT_PREFIX"} {
			t.Setenv(k, "")
		}
		cfg := LoadRateLimitConfig()
		if !cfg.Enabled || cfg.Capacity != 60 || cfg.RefillInterval != time.Second {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.Prefix != "rl" {
			t.Fatalf("unexpected prefix: %q", cfg.Prefix)
		}
	})
}
