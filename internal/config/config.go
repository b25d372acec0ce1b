package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration surface described in spec.md §6
// ("Configuration keys recognized"). It is unmarshalled from YAML with
// environment-variable overrides layered on top, following the teacher's
// Load/LoadWithEnv split.
type Config struct {
	Providers      []ProviderConfig `yaml:"providers"`
	LevelZeroOrder []string         `yaml:"level_zero_order"`
	ListOrderMode  string           `yaml:"list_order_mode"`
	CreateRootMenu bool             `yaml:"create_root_menu"`
	AddAboutItem   bool             `yaml:"add_about_item"`
	LoadDisabled   bool             `yaml:"load_disabled"`
	LoadInvalid    bool             `yaml:"load_invalid"`
	BurstWindow    time.Duration    `yaml:"burst_window"`
	ProbeTimeout   time.Duration    `yaml:"probe_timeout"`
	Log            LogConfig        `yaml:"log"`
}

// ProviderConfig names one storage provider in read order (spec.md §4.2:
// "registered providers... stable within a provider"). Slice order IS
// read order — user-scoped providers precede system-scoped ones simply
// by being listed first.
type ProviderConfig struct {
	ID       string `yaml:"id"`
	Kind     string `yaml:"kind"` // "yaml", "sqlite", "mem"
	Path     string `yaml:"path"`
	Enabled  bool   `yaml:"enabled"`
	Writable bool   `yaml:"writable"`
}

type LogConfig struct {
	Level         string `yaml:"level"`
	File          string `yaml:"file"`
	VerboseProbes bool   `yaml:"verbose_probes"`
}

func DefaultConfig() *Config {
	return &Config{
		ListOrderMode: "ascending-label",
		BurstWindow:   100 * time.Millisecond,
		ProbeTimeout:  500 * time.Millisecond,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration using the real environment.
func Load() (*Config, error) {
	return LoadWithEnv(os.Getenv)
}

// LoadWithEnv loads configuration using the provided environment lookup
// function. This allows tests to provide isolated environment values.
func LoadWithEnv(getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPathWithEnv(getenv)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment variables override the config file.
	if level := getenv("FMA_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if timeout := getenv("FMA_PROBE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.ProbeTimeout = d
		}
	}

	return cfg, nil
}

func getConfigPath() string {
	return getConfigPathWithEnv(os.Getenv)
}

func getConfigPathWithEnv(getenv func(string) string) string {
	// Check XDG_CONFIG_HOME first.
	if xdgConfig := getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "fma", "config.yaml")
	}

	// Fall back to ~/.config.
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fma", "config.yaml")
}
