package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "tonearm"

type Config struct {
	MediaDir     string `koanf:"media_dir"`     // managed copies of added tracks
	DatabasePath string `koanf:"database_path"` // playlist snapshot database
	Autoplay     *bool  `koanf:"autoplay"`      // start audible on play (default: true)

	Log LogConfig `koanf:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error"
	File  string `koanf:"file"`  // empty disables file logging
}

// Load reads configuration from the XDG config file and ./config.toml
// (last wins), then fills unset paths with XDG data defaults.
func Load() (*Config, error) {
	return loadFrom(getConfigPaths())
}

func loadFrom(configPaths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.MediaDir = expandPath(cfg.MediaDir)
	cfg.DatabasePath = expandPath(cfg.DatabasePath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if cfg.MediaDir == "" {
		cfg.MediaDir = filepath.Join(xdg.DataHome, appName, "media")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(xdg.DataHome, appName, appName+".db")
	}

	return cfg, nil
}

// AutoplayEnabled returns the autoplay setting, defaulting to true.
func (c *Config) AutoplayEnabled() bool {
	return c.Autoplay == nil || *c.Autoplay
}

func getConfigPaths() []string {
	paths := []string{
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
	}

	// ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
