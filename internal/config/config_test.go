package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// mockEnv creates an environment lookup function from a map.
func mockEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.ListOrderMode != "ascending-label" {
		t.Errorf("DefaultConfig() ListOrderMode = %q, want %q", cfg.ListOrderMode, "ascending-label")
	}
	if cfg.BurstWindow != 100*time.Millisecond {
		t.Errorf("DefaultConfig() BurstWindow = %v, want %v", cfg.BurstWindow, 100*time.Millisecond)
	}
	if cfg.ProbeTimeout != 500*time.Millisecond {
		t.Errorf("DefaultConfig() ProbeTimeout = %v, want %v", cfg.ProbeTimeout, 500*time.Millisecond)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("DefaultConfig() Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if len(cfg.Providers) != 0 {
		t.Errorf("DefaultConfig() Providers should be empty, got %v", cfg.Providers)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "fma")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	configContent := `
providers:
  - id: user
    kind: yaml
    path: ~/.config/fma/actions
    enabled: true
    writable: true
  - id: system
    kind: yaml
    path: /etc/fma/actions
    enabled: true
    writable: false
level_zero_order: ["user-menu", "system-menu"]
list_order_mode: descending-label
create_root_menu: true
add_about_item: true
load_disabled: true
load_invalid: false
burst_window: 250ms
probe_timeout: 2s
log:
  level: debug
  file: /var/log/fma.log
  verbose_probes: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	env := mockEnv(map[string]string{
		"XDG_CONFIG_HOME": tmpDir,
	})

	cfg, err := LoadWithEnv(env)
	if err != nil {
		t.Fatalf("LoadWithEnv() error: %v", err)
	}

	if len(cfg.Providers) != 2 || cfg.Providers[0].ID != "user" || cfg.Providers[1].ID != "system" {
		t.Errorf("LoadWithEnv() Providers = %+v, want user then system", cfg.Providers)
	}
	if !cfg.Providers[0].Writable || cfg.Providers[1].Writable {
		t.Errorf("LoadWithEnv() Providers writable flags = %+v", cfg.Providers)
	}
	if cfg.ListOrderMode != "descending-label" {
		t.Errorf("LoadWithEnv() ListOrderMode = %q, want %q", cfg.ListOrderMode, "descending-label")
	}
	if !cfg.CreateRootMenu || !cfg.AddAboutItem {
		t.Error("LoadWithEnv() CreateRootMenu/AddAboutItem should both be true")
	}
	if !cfg.LoadDisabled || cfg.LoadInvalid {
		t.Errorf("LoadWithEnv() LoadDisabled=%v LoadInvalid=%v", cfg.LoadDisabled, cfg.LoadInvalid)
	}
	if cfg.BurstWindow != 250*time.Millisecond {
		t.Errorf("LoadWithEnv() BurstWindow = %v, want %v", cfg.BurstWindow, 250*time.Millisecond)
	}
	if cfg.ProbeTimeout != 2*time.Second {
		t.Errorf("LoadWithEnv() ProbeTimeout = %v, want %v", cfg.ProbeTimeout, 2*time.Second)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/var/log/fma.log" || !cfg.Log.VerboseProbes {
		t.Errorf("LoadWithEnv() Log = %+v", cfg.Log)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "fma")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	configContent := "log:\n  level: debug\nprobe_timeout: 1s\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	env := mockEnv(map[string]string{
		"XDG_CONFIG_HOME":   tmpDir,
		"FMA_LOG_LEVEL":     "warn",
		"FMA_PROBE_TIMEOUT": "3s",
	})

	cfg, err := LoadWithEnv(env)
	if err != nil {
		t.Fatalf("LoadWithEnv() error: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("LoadWithEnv() Log.Level = %q, want %q (env override)", cfg.Log.Level, "warn")
	}
	if cfg.ProbeTimeout != 3*time.Second {
		t.Errorf("LoadWithEnv() ProbeTimeout = %v, want %v (env override)", cfg.ProbeTimeout, 3*time.Second)
	}
}

func TestLoadEnvIgnoresUnparsableDuration(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	env := mockEnv(map[string]string{
		"XDG_CONFIG_HOME":   tmpDir,
		"FMA_PROBE_TIMEOUT": "not-a-duration",
	})

	cfg, err := LoadWithEnv(env)
	if err != nil {
		t.Fatalf("LoadWithEnv() error: %v", err)
	}
	if cfg.ProbeTimeout != 500*time.Millisecond {
		t.Errorf("LoadWithEnv() ProbeTimeout = %v, want default to survive an unparsable override", cfg.ProbeTimeout)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	env := mockEnv(map[string]string{
		"XDG_CONFIG_HOME": tmpDir,
	})

	cfg, err := LoadWithEnv(env)
	if err != nil {
		t.Fatalf("LoadWithEnv() error: %v", err)
	}

	if cfg.ListOrderMode != "ascending-label" {
		t.Errorf("LoadWithEnv() without file should use default ListOrderMode, got %q", cfg.ListOrderMode)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("LoadWithEnv() without file should use default Log.Level, got %q", cfg.Log.Level)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "fma")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	invalidContent := `
providers: [this is invalid yaml
log:
  level: not a scalar: oops
`
	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	env := mockEnv(map[string]string{
		"XDG_CONFIG_HOME": tmpDir,
	})

	_, err := LoadWithEnv(env)
	if err == nil {
		t.Error("LoadWithEnv() with invalid YAML should return error")
	}
}

func TestGetConfigPathXDG(t *testing.T) {
	t.Parallel()
	tmpDir := "/custom/config/path"

	env := mockEnv(map[string]string{
		"XDG_CONFIG_HOME": tmpDir,
	})

	path := getConfigPathWithEnv(env)
	expected := filepath.Join(tmpDir, "fma", "config.yaml")
	if path != expected {
		t.Errorf("getConfigPathWithEnv() = %q, want %q", path, expected)
	}
}

func TestGetConfigPathFallback(t *testing.T) {
	t.Parallel()
	env := mockEnv(map[string]string{})

	path := getConfigPathWithEnv(env)
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", "fma", "config.yaml")
	if path != expected {
		t.Errorf("getConfigPathWithEnv() = %q, want %q", path, expected)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	t.Parallel()
	// A file that only sets one field should merge with defaults rather
	// than zeroing out everything else.
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "fma")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	configContent := "create_root_menu: true\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	env := mockEnv(map[string]string{
		"XDG_CONFIG_HOME": tmpDir,
	})

	cfg, err := LoadWithEnv(env)
	if err != nil {
		t.Fatalf("LoadWithEnv() error: %v", err)
	}

	if !cfg.CreateRootMenu {
		t.Error("LoadWithEnv() CreateRootMenu should be true (explicitly set)")
	}
	if cfg.ListOrderMode != "ascending-label" {
		t.Errorf("LoadWithEnv() ListOrderMode = %q, want default %q", cfg.ListOrderMode, "ascending-label")
	}
	if cfg.BurstWindow != 100*time.Millisecond {
		t.Errorf("LoadWithEnv() BurstWindow = %v, want default %v", cfg.BurstWindow, 100*time.Millisecond)
	}
}
