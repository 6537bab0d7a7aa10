package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultDaemonAddress = "127.0.0.1:7474"

const defaultAutosaveDebounce = 500 * time.Millisecond

type CoreConfig struct {
	Daemon  CoreDaemonConfig  `toml:"daemon"`
	Storage CoreStorageConfig `toml:"storage"`
	Logging CoreLoggingConfig `toml:"logging"`
	Editor  CoreEditorConfig  `toml:"editor"`
}

type CoreDaemonConfig struct {
	Address string `toml:"address"`
}

type CoreStorageConfig struct {
	Backend string `toml:"backend"`
}

type CoreLoggingConfig struct {
	Level string `toml:"level"`
}

type CoreEditorConfig struct {
	AutosaveDebounceMS int `toml:"autosave_debounce_ms"`
}

func DefaultCoreConfig() CoreConfig {
	return CoreConfig{
		Daemon: CoreDaemonConfig{
			Address: defaultDaemonAddress,
		},
		Storage: CoreStorageConfig{
			Backend: "bbolt",
		},
		Logging: CoreLoggingConfig{
			Level: "info",
		},
	}
}

func LoadCoreConfig() (CoreConfig, error) {
	path, err := CoreConfigPath()
	if err != nil {
		return CoreConfig{}, err
	}
	return loadCoreConfigFromPath(path)
}

func (c CoreConfig) DaemonAddress() string {
	addr := strings.TrimSpace(c.Daemon.Address)
	if addr == "" {
		return defaultDaemonAddress
	}
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultDaemonAddress
	}
	return addr
}

func (c CoreConfig) DaemonBaseURL() string {
	return "http://" + c.DaemonAddress()
}

func (c CoreConfig) StorageBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if backend == "" {
		return "bbolt"
	}
	return backend
}

func (c CoreConfig) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

// AutosaveDebounce returns the editor autosave quiet period. Values at or
// below zero fall back to the default.
func (c CoreConfig) AutosaveDebounce() time.Duration {
	if c.Editor.AutosaveDebounceMS <= 0 {
		return defaultAutosaveDebounce
	}
	return time.Duration(c.Editor.AutosaveDebounceMS) * time.Millisecond
}

func loadCoreConfigFromPath(path string) (CoreConfig, error) {
	cfg := DefaultCoreConfig()
	if err := readTOML(path, &cfg); err != nil {
		return CoreConfig{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
