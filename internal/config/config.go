// Package config loads reelplayer settings from TOML files.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultLoadTimeout bounds clip readiness when the config is silent.
	DefaultLoadTimeout = 15 * time.Second
	minLoadTimeout     = 100 * time.Millisecond
)

type Config struct {
	// Binaries used by the media pipeline. Empty values resolve from PATH.
	FFprobe string `koanf:"ffprobe"`
	FFplay  string `koanf:"ffplay"`

	// LoadTimeoutMS is the clip readiness deadline in milliseconds.
	LoadTimeoutMS int `koanf:"load_timeout_ms"`

	// AutoPlay starts playback as soon as a clip becomes ready.
	AutoPlay *bool `koanf:"auto_play"`

	// History controls the local load-attempt journal.
	History HistoryConfig `koanf:"history"`

	// LogFile receives structured logs (empty disables file logging).
	LogFile string `koanf:"log_file"`
}

// HistoryConfig holds playback-history settings.
type HistoryConfig struct {
	Disabled    bool `koanf:"disabled"`
	MaxRecent   int  `koanf:"max_recent"`   // recent clips kept (default: 20)
	MaxAttempts int  `koanf:"max_attempts"` // journal rows kept (default: 500)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
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

	cfg.LogFile = expandPath(cfg.LogFile)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/reelplayer/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "reelplayer", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
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

// LoadTimeout returns the configured readiness deadline, clamped to a sane
// floor, or the default when unset.
func (c *Config) LoadTimeout() time.Duration {
	if c.LoadTimeoutMS <= 0 {
		return DefaultLoadTimeout
	}
	d := time.Duration(c.LoadTimeoutMS) * time.Millisecond
	if d < minLoadTimeout {
		return minLoadTimeout
	}
	return d
}

// AutoPlayEnabled returns the autoplay setting (default: true).
func (c *Config) AutoPlayEnabled() bool {
	if c.AutoPlay == nil {
		return true
	}
	return *c.AutoPlay
}

// GetHistoryConfig returns the history configuration with defaults applied.
func (c *Config) GetHistoryConfig() HistoryConfig {
	cfg := c.History

	// Apply defaults
	if cfg.MaxRecent <= 0 {
		cfg.MaxRecent = 20
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 500
	}

	return cfg
}
