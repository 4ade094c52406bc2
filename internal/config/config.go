package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/fx"
)

// Config is the presets file: timing bounds, effect parameter overrides, and
// the shell settings of the conform and serve commands.
type Config struct {
	Timing  TimingConfig              `yaml:"timing"`
	Effects map[string]map[string]any `yaml:"effects,omitempty"`
	Conform ConformConfig             `yaml:"conform"`
	Server  ServerConfig              `yaml:"server"`
}

type TimingConfig struct {
	MinDurationSec float64 `yaml:"min_duration_s"`
	MaxDurationSec float64 `yaml:"max_duration_s"`
	ToleranceSec   float64 `yaml:"tolerance_s"`
}

type ConformConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Timing: TimingConfig{
			MinDurationSec: 3.0,
			MaxDurationSec: 6.0,
			ToleranceSec:   0.05,
		},
		Conform: ConformConfig{
			Concurrency: 4,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures fields fall back to sensible defaults when the YAML
// omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Timing.MinDurationSec == 0 {
		c.Timing.MinDurationSec = defaults.Timing.MinDurationSec
	}
	if c.Timing.MaxDurationSec == 0 {
		c.Timing.MaxDurationSec = defaults.Timing.MaxDurationSec
	}
	if c.Timing.ToleranceSec == 0 {
		c.Timing.ToleranceSec = defaults.Timing.ToleranceSec
	}
	if c.Conform.Concurrency <= 0 {
		c.Conform.Concurrency = defaults.Conform.Concurrency
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = defaults.Server.Addr
	}
}

// Validate rejects configurations the planner or effect generator would
// refuse at request time.
func (c Config) Validate() error {
	if c.Timing.MinDurationSec <= 0 {
		return fmt.Errorf("timing: min_duration_s must be positive, got %v", c.Timing.MinDurationSec)
	}
	if c.Timing.MaxDurationSec < c.Timing.MinDurationSec {
		return fmt.Errorf("timing: max_duration_s %v is below min_duration_s %v",
			c.Timing.MaxDurationSec, c.Timing.MinDurationSec)
	}
	if c.Timing.ToleranceSec < 0 {
		return fmt.Errorf("timing: tolerance_s must not be negative, got %v", c.Timing.ToleranceSec)
	}
	for name, params := range c.Effects {
		if _, err := fx.ParseSpec(name, params); err != nil {
			return fmt.Errorf("effects: %w", err)
		}
	}
	return nil
}

// EffectParams merges the preset parameters for filterType under the
// request's own parameters. Request values win.
func (c Config) EffectParams(filterType string, params map[string]any) map[string]any {
	preset, ok := c.Effects[filterType]
	if !ok {
		return params
	}
	merged := make(map[string]any, len(preset)+len(params))
	for k, v := range preset {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
