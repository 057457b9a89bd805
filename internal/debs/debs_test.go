package deps

import (
	"testing"

	"github.com/bwise1/viff_planner/config"
	"github.com/bwise1/viff_planner/internal/kv"
)

func TestNewMemoryBackend(t *testing.T) {
	d, err := New(&config.Config{StoreBackend: config.BackendMemory, OpenCageBaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer d.Close()

	if _, ok := d.KV.(*kv.Memory); !ok {
		t.Fatalf("expected memory store, got %T", d.KV)
	}
	if d.Itinerary == nil || d.Journal == nil || d.WebSocket == nil {
		t.Fatalf("expected stores and websocket manager")
	}
}

func TestNewRedisBackend(t *testing.T) {
	d, err := New(&config.Config{StoreBackend: config.BackendRedis, RedisAddr: "localhost:6379"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer d.Close()

	if _, ok := d.KV.(*kv.Redis); !ok {
		t.Fatalf("expected redis store, got %T", d.KV)
	}
}

func TestNewRejectsBadBackends(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.Config
	}{
		{"unknown", config.Config{StoreBackend: "sqlite"}},
		{"redis without addr", config.Config{StoreBackend: config.BackendRedis}},
		{"postgres bad dsn", config.Config{StoreBackend: config.BackendPostgres, Dsn: "invalid-url"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(&tc.cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
