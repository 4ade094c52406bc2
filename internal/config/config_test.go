package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timing.MinDurationSec != 3.0 || cfg.Timing.MaxDurationSec != 6.0 {
		t.Fatalf("unexpected default bounds: %+v", cfg.Timing)
	}
	if cfg.Timing.ToleranceSec != 0.05 {
		t.Fatalf("unexpected default tolerance: %v", cfg.Timing.ToleranceSec)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %q", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "presets.yaml")
	body := []byte("timing:\n  max_duration_s: 8\neffects:\n  flash:\n    intensity: 0.5\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write presets: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timing.MaxDurationSec != 8 {
		t.Fatalf("file value not applied: %+v", cfg.Timing)
	}
	if cfg.Timing.MinDurationSec != 3.0 {
		t.Fatalf("omitted field should keep its default: %+v", cfg.Timing)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "negative min",
			mutate: func(c *Config) { c.Timing.MinDurationSec = -1 },
		},
		{
			name:   "max below min",
			mutate: func(c *Config) { c.Timing.MaxDurationSec = 2 },
		},
		{
			name:   "negative tolerance",
			mutate: func(c *Config) { c.Timing.ToleranceSec = -0.1 },
		},
		{
			name:   "unknown effect",
			mutate: func(c *Config) { c.Effects = map[string]map[string]any{"sparkle": nil} },
		},
		{
			name: "effect param out of range",
			mutate: func(c *Config) {
				c.Effects = map[string]map[string]any{"flash": {"intensity": 2.0}}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestEffectParams_RequestWins(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Effects = map[string]map[string]any{
		"flash": {"intensity": 0.5, "color": "red"},
	}

	merged := cfg.EffectParams("flash", map[string]any{"intensity": 0.9})
	if merged["intensity"] != 0.9 {
		t.Fatalf("request param should win, got %v", merged["intensity"])
	}
	if merged["color"] != "red" {
		t.Fatalf("preset param should survive, got %v", merged["color"])
	}

	passthrough := map[string]any{"zoom": 1.2}
	if got := cfg.EffectParams("zoom_pulse", passthrough); len(got) != 1 || got["zoom"] != 1.2 {
		t.Fatalf("no preset should pass params through, got %v", got)
	}
}
