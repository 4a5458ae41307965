// Package config loads the application configuration from TOML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "SIGNSTRIKE_CONFIG"

type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Engine  EngineConfig  `toml:"engine"`
	TUI     TUIConfig     `toml:"tui"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type EngineConfig struct {
	Seed         int64 `toml:"seed"`           // 0 = derive from the clock
	Strict       bool  `toml:"strict"`         // panic on binding invariant violations
	StepsPerLine int   `toml:"steps_per_line"` // scheduler steps per CLI input line
}

type TUIConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
}

// Path returns the config path to use: the environment override when set,
// otherwise flagPath.
func Path(flagPath string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return flagPath
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Engine.StepsPerLine < 1 {
		return fmt.Errorf("engine.steps_per_line must be at least 1, got %d", c.Engine.StepsPerLine)
	}
	if c.TUI.TickRate <= 0 {
		return fmt.Errorf("tui.tick_rate must be positive, got %s", c.TUI.TickRate)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Engine: EngineConfig{
			StepsPerLine: 1,
		},
		TUI: TUIConfig{
			TickRate: 250 * time.Millisecond,
		},
	}
}
