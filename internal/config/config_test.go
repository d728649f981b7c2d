package config

import (
	"testing"
	"time"
)

func TestLoadAPIFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/magnate")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("PORT", "")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr=%q want :8080", cfg.Addr)
	}
	if cfg.SupabaseURL != "https://proj.supabase.co" {
		t.Fatalf("supabase url=%q, trailing slash should be trimmed", cfg.SupabaseURL)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 2 {
		t.Fatalf("pool conns=%d/%d want 20/2", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.DBConnLifetime != 30*time.Minute || cfg.DBConnIdleTime != 10*time.Minute {
		t.Fatalf("pool lifetimes=%s/%s want 30m/10m", cfg.DBConnLifetime, cfg.DBConnIdleTime)
	}
}

func TestLoadAPIFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/magnate")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("PORT", "9090")
	t.Setenv("MAGNATE_DB_MAX_CONNS", "50")
	t.Setenv("MAGNATE_DB_MIN_CONNS", "5")
	t.Setenv("MAGNATE_DB_CONN_LIFETIME", "1h")
	t.Setenv("MAGNATE_DB_CONN_IDLE", "5m")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr=%q want :9090", cfg.Addr)
	}
	if cfg.DBMaxConns != 50 || cfg.DBMinConns != 5 {
		t.Fatalf("pool conns=%d/%d want 50/5", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.DBConnLifetime != time.Hour || cfg.DBConnIdleTime != 5*time.Minute {
		t.Fatalf("pool lifetimes=%s/%s want 1h/5m", cfg.DBConnLifetime, cfg.DBConnIdleTime)
	}
}

func TestLoadAPIFromEnvBadIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/magnate")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("MAGNATE_DB_MAX_CONNS", "lots")
	t.Setenv("MAGNATE_DB_MIN_CONNS", "-1")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 2 {
		t.Fatalf("pool conns=%d/%d want fallback 20/2", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadAPIFromEnvRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	if _, err := LoadAPIFromEnv(); err == nil {
		t.Fatalf("expected an error without DATABASE_URL")
	}
}
