package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Analysis.Symbol != "ES" {
		t.Errorf("Expected default symbol ES, got %s", cfg.Analysis.Symbol)
	}
	if cfg.Feed.BatchSize != 100 {
		t.Errorf("Expected default batch size 100, got %d", cfg.Feed.BatchSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	content := `
postgres:
  dsn: postgres://test:test@db:5432/lab
analysis:
  symbol: NQ
feed:
  url: ws://localhost:8080/bars
  batch_size: 50
  flush_interval: 2s
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/lab" {
		t.Errorf("Postgres DSN not loaded: %s", cfg.Postgres.DSN)
	}
	if cfg.Analysis.Symbol != "NQ" {
		t.Errorf("Expected symbol NQ, got %s", cfg.Analysis.Symbol)
	}
	if cfg.Feed.FlushInterval != 2*time.Second {
		t.Errorf("Expected flush interval 2s, got %v", cfg.Feed.FlushInterval)
	}

	// Unset sections keep their defaults.
	if cfg.Graphics.OutputDir != "scenario_graphics" {
		t.Errorf("Expected default output dir, got %s", cfg.Graphics.OutputDir)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	content := "postgres:\n  dsn: postgres://file/db\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	t.Setenv("POSTGRES_DSN", "postgres://env/db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Postgres.DSN != "postgres://env/db" {
		t.Errorf("Expected env DSN to win, got %s", cfg.Postgres.DSN)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.Symbol = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty symbol")
	}

	cfg = DefaultConfig()
	cfg.Feed.BatchSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero batch size")
	}
}
