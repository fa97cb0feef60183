package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	World   WorldConfig   `toml:"world"`
	Data    DataConfig    `toml:"data"`
	Scripts ScriptsConfig `toml:"scripts"`
	Logging LoggingConfig `toml:"logging"`
	Arena   ArenaConfig   `toml:"arena"`
}

type SimConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks uint64        `toml:"max_ticks"` // 0 = run until interrupted
	Seed     int64         `toml:"seed"`      // 0 = derive from clock at boot
}

type WorldConfig struct {
	Capacity int     `toml:"capacity"` // pre-sized entity bookkeeping
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
}

type DataConfig struct {
	ActorTable string `toml:"actor_table"`
	SpawnList  string `toml:"spawn_list"`
}

type ScriptsConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ArenaConfig struct {
	RenderRate time.Duration `toml:"render_rate"`
	ShowHud    bool          `toml:"show_hud"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Sim.Seed == 0 {
		cfg.Sim.Seed = time.Now().UnixNano()
	}
	return cfg, nil
}

// LoadOrDefault loads the config at path, falling back to the built-in
// defaults when no file exists there. Other load failures still error.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default returns the built-in configuration, used when no config file is
// given. The seed is derived from the clock.
func Default() *Config {
	cfg := defaults()
	cfg.Sim.Seed = time.Now().UnixNano()
	return cfg
}

func defaults() *Config {
	return &Config{
		Sim: SimConfig{
			TickRate: 100 * time.Millisecond,
			MaxTicks: 0,
		},
		World: WorldConfig{
			Capacity: 1024,
			Width:    120,
			Height:   40,
		},
		Data: DataConfig{
			ActorTable: "data/actors.yaml",
			SpawnList:  "data/spawns.yaml",
		},
		Scripts: ScriptsConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Arena: ArenaConfig{
			RenderRate: 50 * time.Millisecond,
			ShowHud:    true,
		},
	}
}
