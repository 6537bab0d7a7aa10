package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCoreConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadCoreConfigFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("loadCoreConfigFromPath returned error: %v", err)
	}
	if cfg.DaemonAddress() != "127.0.0.1:7474" {
		t.Fatalf("unexpected default address %q", cfg.DaemonAddress())
	}
	if cfg.StorageBackend() != "bbolt" {
		t.Fatalf("unexpected default backend %q", cfg.StorageBackend())
	}
	if cfg.LogLevel() != "info" {
		t.Fatalf("unexpected default log level %q", cfg.LogLevel())
	}
	if cfg.AutosaveDebounce() != 500*time.Millisecond {
		t.Fatalf("unexpected default debounce %v", cfg.AutosaveDebounce())
	}
}

func TestLoadCoreConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[daemon]
address = "http://localhost:9000/"

[storage]
backend = "file"

[logging]
level = "debug"

[editor]
autosave_debounce_ms = 250
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadCoreConfigFromPath(path)
	if err != nil {
		t.Fatalf("loadCoreConfigFromPath returned error: %v", err)
	}
	if cfg.DaemonAddress() != "localhost:9000" {
		t.Fatalf("expected scheme and slash stripped, got %q", cfg.DaemonAddress())
	}
	if cfg.DaemonBaseURL() != "http://localhost:9000" {
		t.Fatalf("unexpected base url %q", cfg.DaemonBaseURL())
	}
	if cfg.StorageBackend() != "file" {
		t.Fatalf("unexpected backend %q", cfg.StorageBackend())
	}
	if cfg.LogLevel() != "debug" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel())
	}
	if cfg.AutosaveDebounce() != 250*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.AutosaveDebounce())
	}
}

func TestAutosaveDebounceFloor(t *testing.T) {
	cfg := DefaultCoreConfig()
	cfg.Editor.AutosaveDebounceMS = -10
	if cfg.AutosaveDebounce() != 500*time.Millisecond {
		t.Fatalf("expected fallback debounce, got %v", cfg.AutosaveDebounce())
	}
}
