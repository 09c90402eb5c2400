package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the immutable engine configuration, supplied once at engine
// construction. The core never reads environment variables or flags.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Render  RenderConfig  `toml:"render"`
	Audio   AudioConfig   `toml:"audio"`
	Engine  EngineConfig  `toml:"engine"`
	Logging LoggingConfig `toml:"logging"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type RenderConfig struct {
	ShowFPS bool `toml:"show_fps"`
}

type AudioConfig struct {
	Enabled      bool    `toml:"enabled"`
	SampleRate   int     `toml:"sample_rate"`
	BufferMillis int     `toml:"buffer_millis"`
	MasterVolume float64 `toml:"master_volume"`
}

type EngineConfig struct {
	TargetFrameRate   int     `toml:"target_frame_rate"`
	FrameLimitEnabled bool    `toml:"frame_limit_enabled"`
	WorldBounds       float64 `toml:"world_bounds"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "game-engine",
			Width:  120,
			Height: 40,
		},
		Audio: AudioConfig{
			Enabled:      true,
			SampleRate:   44100,
			BufferMillis: 100,
			MasterVolume: 1.0,
		},
		Engine: EngineConfig{
			TargetFrameRate:   60,
			FrameLimitEnabled: true,
			WorldBounds:       1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a TOML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges the engine relies on.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Engine.TargetFrameRate < 0 || c.Engine.TargetFrameRate > 300 {
		return fmt.Errorf("config: target_frame_rate must be in [0,300], got %d", c.Engine.TargetFrameRate)
	}
	if c.Engine.WorldBounds <= 0 {
		return fmt.Errorf("config: world_bounds must be positive, got %g", c.Engine.WorldBounds)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("config: sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		return fmt.Errorf("config: master_volume must be in [0,1], got %g", c.Audio.MasterVolume)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: logging format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
