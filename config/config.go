package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/milk9111/lumen/common"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Window    WindowConfig   `yaml:"window"`
	World     WorldConfig    `yaml:"world"`
	Logic     LogicConfig    `yaml:"logic"`
	Script    ScriptConfig   `yaml:"script"`
	Particles ParticleConfig `yaml:"particles"`
	Clock     ClockConfig    `yaml:"clock"`
	Log       LogConfig      `yaml:"log"`

	// Prefab is an optional seed file with initial entities.
	Prefab string `yaml:"prefab"`
	// Graph is an optional logic graph file.
	Graph string `yaml:"graph"`
	// Watch reloads the graph and script files when they change on disk.
	Watch bool `yaml:"watch"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type WorldConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	FloorY   float64 `yaml:"floor_y"`
	Gravity  float64 `yaml:"gravity"`
	Ambience string  `yaml:"ambience"`
	Grid     bool    `yaml:"grid"`
	Bloom    bool    `yaml:"bloom"`
}

type LogicConfig struct {
	MoveSpeed        float64 `yaml:"move_speed"`
	ChaseSpeed       float64 `yaml:"chase_speed"`
	ChaseMinDistance float64 `yaml:"chase_min_distance"`
}

type ScriptConfig struct {
	Budget    time.Duration `yaml:"budget"`
	MaxAllocs int64         `yaml:"max_allocs"`
}

type ParticleConfig struct {
	Max  int    `yaml:"max"`
	Seed uint64 `yaml:"seed"`
}

type ClockConfig struct {
	MaxDT float64 `yaml:"max_dt"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the reference world configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: common.BaseWidth, Height: common.BaseHeight, Title: "lumen"},
		World: WorldConfig{
			Width:    common.BaseWidth,
			Height:   common.BaseHeight,
			FloorY:   common.FloorY,
			Gravity:  0.5,
			Ambience: "#030303",
			Grid:     true,
			Bloom:    true,
		},
		Logic: LogicConfig{
			MoveSpeed:        400,
			ChaseSpeed:       200,
			ChaseMinDistance: 5,
		},
		Script: ScriptConfig{
			Budget:    4 * time.Millisecond,
			MaxAllocs: 50000,
		},
		Particles: ParticleConfig{Max: 2048, Seed: 1},
		Clock:     ClockConfig{MaxDT: 0.1},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads a YAML config file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world size must be positive", ErrInvalidConfig)
	}
	if c.World.FloorY <= 0 {
		return fmt.Errorf("%w: floor_y must be positive", ErrInvalidConfig)
	}
	if _, err := common.ParseHexColor(c.World.Ambience); err != nil {
		return fmt.Errorf("%w: ambience: %v", ErrInvalidConfig, err)
	}
	if c.Clock.MaxDT <= 0 {
		return fmt.Errorf("%w: max_dt must be positive", ErrInvalidConfig)
	}
	if c.Logic.ChaseMinDistance < 0 {
		return fmt.Errorf("%w: chase_min_distance must not be negative", ErrInvalidConfig)
	}
	if c.Script.Budget < 0 || c.Script.MaxAllocs < 0 {
		return fmt.Errorf("%w: script limits must not be negative", ErrInvalidConfig)
	}
	if c.Particles.Max <= 0 {
		return fmt.Errorf("%w: particles.max must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}
