package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Port != 8080 {
		t.Fatalf("port = %d; want 8080", cfg.Port)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Fatalf("backend = %q; want memory", cfg.StoreBackend)
	}
	if cfg.GeocodeTimeout != 10*time.Second {
		t.Fatalf("geocode timeout = %v", cfg.GeocodeTimeout)
	}
	if cfg.GeocodeConcurrency != 4 {
		t.Fatalf("geocode concurrency = %d", cfg.GeocodeConcurrency)
	}
}

func TestNewEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("OPENCAGE_API_KEY", "secret")
	t.Setenv("GEOCODE_TIMEOUT", "3s")

	cfg := New()
	if cfg.Port != 9000 {
		t.Fatalf("expected override port")
	}
	if cfg.StoreBackend != BackendRedis {
		t.Fatalf("expected override backend")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.OpenCageAPIKey != "secret" {
		t.Fatalf("expected override api key")
	}
	if cfg.GeocodeTimeout != 3*time.Second {
		t.Fatalf("expected override timeout")
	}
}
