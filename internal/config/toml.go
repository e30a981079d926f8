// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game   GameConfig   `toml:"game"`
	Timing TimingConfig `toml:"timing"`
	Tables TablesConfig `toml:"tables"`
}

// GameConfig maps session settings.
type GameConfig struct {
	Mode   *string `toml:"mode"`
	Seed   *int64  `toml:"seed"`
	Sound  *bool   `toml:"sound"`
	Avatar *string `toml:"avatar"`
}

// TimingConfig overrides playback timing in milliseconds.
type TimingConfig struct {
	HighlightMs *int `toml:"highlight-ms"`
	GapMs       *int `toml:"gap-ms"`
}

// TablesConfig points at a difficulty table override file.
type TablesConfig struct {
	Path *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
