package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config must validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	content := `
[window]
title = "test"
width = 80
height = 24

[engine]
target_frame_rate = 30
world_bounds = 500.0

[audio]
enabled = false

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Window.Title != "test" || cfg.Window.Width != 80 || cfg.Window.Height != 24 {
		t.Errorf("Window overrides not applied: %+v", cfg.Window)
	}
	if cfg.Engine.TargetFrameRate != 30 || cfg.Engine.WorldBounds != 500 {
		t.Errorf("Engine overrides not applied: %+v", cfg.Engine)
	}
	if cfg.Audio.Enabled {
		t.Error("Audio override not applied")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging overrides not applied: %+v", cfg.Logging)
	}

	// Untouched sections keep their defaults.
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Expected default sample rate, got %d", cfg.Audio.SampleRate)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[window\nwidth="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Defaults pass", func(*Config) {}, false},
		{"Zero width", func(c *Config) { c.Window.Width = 0 }, true},
		{"Negative height", func(c *Config) { c.Window.Height = -1 }, true},
		{"Frame rate too high", func(c *Config) { c.Engine.TargetFrameRate = 500 }, true},
		{"Uncapped frame rate allowed", func(c *Config) { c.Engine.TargetFrameRate = 0 }, false},
		{"Negative frame rate", func(c *Config) { c.Engine.TargetFrameRate = -1 }, true},
		{"Zero bounds", func(c *Config) { c.Engine.WorldBounds = 0 }, true},
		{"Zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, true},
		{"Volume above one", func(c *Config) { c.Audio.MasterVolume = 1.5 }, true},
		{"Negative volume", func(c *Config) { c.Audio.MasterVolume = -0.1 }, true},
		{"Unknown log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"JSON log format", func(c *Config) { c.Logging.Format = "json" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}
