package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "insider" {
		t.Errorf("expected Name=insider, got %s", cfg.Name)
	}
	if cfg.API.BaseURL == "" {
		t.Error("expected default API base URL")
	}
	if cfg.GetAPITimeout() != 30*time.Second {
		t.Errorf("expected 30s API timeout, got %v", cfg.GetAPITimeout())
	}
	if cfg.GetCacheTTL() != 24*time.Hour {
		t.Errorf("expected 24h cache TTL, got %v", cfg.GetCacheTTL())
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("INSIDER_API_URL", "")
	t.Setenv("INSIDER_STATE_DIR", "")
	t.Setenv("INSIDER_DEBUG", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://localhost:8000"
	cfg.API.Timeout = "5s"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.API.BaseURL != "http://localhost:8000" {
		t.Errorf("expected BaseURL=http://localhost:8000, got %s", loaded.API.BaseURL)
	}
	if loaded.GetAPITimeout() != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", loaded.GetAPITimeout())
	}
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("INSIDER_API_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != DefaultConfig().API.BaseURL {
		t.Errorf("expected default base URL, got %s", cfg.API.BaseURL)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("INSIDER_API_URL", "http://staging.example.edu")
	t.Setenv("INSIDER_STATE_DIR", "/tmp/insider-test")
	t.Setenv("INSIDER_DEBUG", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "http://staging.example.edu" {
		t.Errorf("expected env base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.StateDir() != "/tmp/insider-test" {
		t.Errorf("expected env state dir, got %s", cfg.StateDir())
	}
	if !cfg.Logging.DebugMode {
		t.Error("expected debug mode from INSIDER_DEBUG=1")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level=debug, got %s", cfg.Logging.Level)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.API.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty base URL")
	}

	cfg = DefaultConfig()
	cfg.API.Timeout = "not-a-duration"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad timeout")
	}
}
