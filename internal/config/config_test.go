package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Backend.URL = "http://backend.internal:9000"
	cfg.Search.PacingDelayMS = 250

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.Backend.URL != "http://backend.internal:9000" {
		t.Errorf("Backend.URL: got %q, want %q", loaded.Backend.URL, "http://backend.internal:9000")
	}
	if loaded.Search.PacingDelayMS != 250 {
		t.Errorf("Search.PacingDelayMS: got %d, want 250", loaded.Search.PacingDelayMS)
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := ReadConfig(tmpDir); err == nil {
		t.Fatal("ReadConfig should fail when config.yaml does not exist")
	}
}

func TestDefaultConfigBackendURL(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("default Backend.URL: got %q, want %q", cfg.Backend.URL, "http://localhost:8000")
	}
	if cfg.Search.PacingDelayMS != 500 {
		t.Errorf("default PacingDelayMS: got %d, want 500", cfg.Search.PacingDelayMS)
	}
}

func TestBackwardCompatibility(t *testing.T) {
	// Simulate an older config file without the catalog section.
	tmpDir := t.TempDir()
	oldConfig := `version: 1
backend:
  url: http://localhost:8000
  timeout: 60
search:
  pacing_delay_ms: 500
`
	configPath := filepath.Join(tmpDir, ".veridoc")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte(oldConfig), 0644); err != nil {
		t.Fatalf("failed to write old config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed on old config: %v", err)
	}
	if cfg.Backend.Timeout != 60 {
		t.Errorf("Backend.Timeout: got %d, want 60", cfg.Backend.Timeout)
	}
	if cfg.Catalog.CacheTTLSeconds != 0 {
		t.Errorf("missing section should zero-value, got %d", cfg.Catalog.CacheTTLSeconds)
	}
}
