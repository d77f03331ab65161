package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithNoFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Dir != ".polyidx/cache" {
		t.Fatalf("expected default cache dir, got %q", cfg.Cache.Dir)
	}
	if cfg.Server.ResyncIntervalSeconds != 5 {
		t.Fatalf("expected default resync interval, got %d", cfg.Server.ResyncIntervalSeconds)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "cache:\n  dir: custom-cache\nbuild:\n  max_workers: 4\n"
	if err := os.WriteFile(filepath.Join(dir, ".polyidx.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Dir != "custom-cache" {
		t.Fatalf("expected cache dir from file, got %q", cfg.Cache.Dir)
	}
	if cfg.Build.MaxWorkers != 4 {
		t.Fatalf("expected max_workers from file, got %d", cfg.Build.MaxWorkers)
	}
	// Untouched knobs keep their defaults.
	if cfg.Server.ResyncIntervalSeconds != 5 {
		t.Fatalf("expected resync interval to keep its default, got %d", cfg.Server.ResyncIntervalSeconds)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POLYIDX_CACHE_DIR", "/tmp/envcache")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Dir != "/tmp/envcache" {
		t.Fatalf("expected env override to win, got %q", cfg.Cache.Dir)
	}
}

func TestValidateRejectsNegativeWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Build.MaxWorkers = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative max_workers to fail validation")
	}
}
