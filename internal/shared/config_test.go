package shared_test

import (
	"testing"
	"time"

	"cinema_catalog/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "MIRROR_STATUS", "EVENTS_SINK", "DB_MAX_OPEN_CONNS", "HTTP_TIMEOUT_SECONDS"} {
		t.Setenv(k, "")
	}
	c := shared.Load()
	if c.HTTPAddr != ":3000" {
		t.Fatalf("HTTPAddr = %q", c.HTTPAddr)
	}
	if !c.MirrorStatus {
		t.Fatalf("MirrorStatus should default to true")
	}
	if c.EventsSink != "none" {
		t.Fatalf("EventsSink = %q", c.EventsSink)
	}
	if c.DBMaxOpen != 25 || c.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected pool/timeout: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("MIRROR_STATUS", "false")
	t.Setenv("EVENTS_SINK", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SEED_WORKERS", "not-a-number")

	c := shared.Load()
	if c.HTTPAddr != ":9999" || c.MirrorStatus {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.EventsSink != "redis" || c.RedisDB != 3 {
		t.Fatalf("events config: %+v", c)
	}
	if c.SeedWorkers != 4 {
		t.Fatalf("bad int should fall back to default, got %d", c.SeedWorkers)
	}
}

func TestLoad_UnknownSinkDisablesEvents(t *testing.T) {
	t.Setenv("EVENTS_SINK", "kafka")
	if c := shared.Load(); c.EventsSink != "none" {
		t.Fatalf("EventsSink = %q, want none", c.EventsSink)
	}
}
