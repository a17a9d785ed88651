package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("TICK_MS", "")
	t.Setenv("CARD_DATA", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DEV_MODE", "")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("addr default wrong: %q", cfg.Addr)
	}
	if cfg.TickInterval != 500*time.Millisecond {
		t.Fatalf("tick default wrong: %v", cfg.TickInterval)
	}
	if cfg.Dev {
		t.Fatalf("dev should default off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("TICK_MS", "250")
	t.Setenv("DEV_MODE", "1")

	cfg := Load()
	if cfg.Addr != ":9999" || cfg.TickInterval != 250*time.Millisecond || !cfg.Dev {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestBadTickFallsBack(t *testing.T) {
	t.Setenv("TICK_MS", "not-a-number")
	if cfg := Load(); cfg.TickInterval != 500*time.Millisecond {
		t.Fatalf("bad TICK_MS should fall back, got %v", cfg.TickInterval)
	}
}
