package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Game.Mode != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[game]
mode = "battle"
seed = 42
sound = false
avatar = "chog"

[timing]
highlight-ms = 400

[tables]
path = "/tmp/tables.yaml"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg.Game.Mode != "battle" || *cfg.Game.Seed != 42 || *cfg.Game.Sound || *cfg.Game.Avatar != "chog" {
		t.Fatalf("unexpected game config: %+v", cfg.Game)
	}
	if *cfg.Timing.HighlightMs != 400 || cfg.Timing.GapMs != nil {
		t.Fatalf("unexpected timing config: %+v", cfg.Timing)
	}
	if *cfg.Tables.Path != "/tmp/tables.yaml" {
		t.Fatalf("unexpected tables path")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nlevel = 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "memomu", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "memomu", "memomu.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
