// Package config loads janela's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BackendKind selects a Manager implementation.
type BackendKind string

const (
	BackendAuto   BackendKind = "auto"   // pick per platform at startup
	BackendX11    BackendKind = "x11"    // native X11 (xgb)
	BackendWmctrl BackendKind = "wmctrl" // wmctrl/xdotool/xrandr shell-outs
	BackendMac    BackendKind = "mac"    // osascript System Events
)

// Tools holds helper executable locations. Empty values are resolved
// from PATH when the backend is constructed.
type Tools struct {
	Wmctrl    string `yaml:"wmctrl"`
	Xdotool   string `yaml:"xdotool"`
	Xrandr    string `yaml:"xrandr"`
	Osascript string `yaml:"osascript"`
}

// Logging configures the zerolog output.
type Logging struct {
	Level string `yaml:"level"` // trace|debug|info|warn|error
	File  string `yaml:"file"`  // optional log file path
}

// Config is the effective configuration.
type Config struct {
	Backend BackendKind `yaml:"backend"`

	// MoveTolerance is the pixel slack used when verifying window moves.
	MoveTolerance int `yaml:"move_tolerance"`

	// ExcludeTitlePrefixes lists window-title prefixes the shell-out
	// backends drop from listings (desktop chrome such as Plasma shells).
	ExcludeTitlePrefixes []string `yaml:"exclude_title_prefixes"`

	Tools   Tools   `yaml:"tools"`
	Logging Logging `yaml:"logging"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Backend:       BackendAuto,
		MoveTolerance: 10,
		ExcludeTitlePrefixes: []string{
			"Desktop — Plasma",
			"Plasma",
		},
		Logging: Logging{Level: "info"},
	}
}

// DefaultConfigPath returns ~/.config/janela/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "janela", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing
// file yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates a config file, applying defaults for
// absent fields. A missing file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendAuto
	}
	if c.MoveTolerance == 0 {
		c.MoveTolerance = Default().MoveTolerance
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate rejects values no backend can work with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendX11, BackendWmctrl, BackendMac:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.MoveTolerance < 0 {
		return fmt.Errorf("move_tolerance must not be negative, got %d", c.MoveTolerance)
	}
	return nil
}
