// Package config loads blend's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the root configuration.
type Config struct {
	Store    Store    `mapstructure:"store" yaml:"store"`
	Registry Registry `mapstructure:"registry" yaml:"registry"`
	Session  Session  `mapstructure:"session" yaml:"session"`
	Suggest  Suggest  `mapstructure:"suggest" yaml:"suggest"`
	HTTP     HTTP     `mapstructure:"http" yaml:"http"`
	Log      Log      `mapstructure:"log" yaml:"log"`
}

type Store struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
	Redis  Redis  `mapstructure:"redis" yaml:"redis"`
}

type Redis struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type Registry struct {
	// Path of the inputs file (YAML or JSON). Empty means an empty registry.
	Path string `mapstructure:"path" yaml:"path"`
}

type Session struct {
	BlurGrace   time.Duration `mapstructure:"blur_grace" yaml:"blur_grace"`
	ExcludeUsed bool          `mapstructure:"exclude_used" yaml:"exclude_used"`
}

type Suggest struct {
	Limit int `mapstructure:"limit" yaml:"limit"`
}

type HTTP struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Store: Store{
			Driver: DriverFile,
			Path:   ".blend/combinations",
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "blend:combination:",
			},
		},
		Registry: Registry{Path: "inputs.yaml"},
		Session:  Session{BlurGrace: 150 * time.Millisecond},
		Suggest:  Suggest{Limit: 6},
		HTTP:     HTTP{Addr: ":8080"},
		Log:      Log{Level: "info"},
	}
}

// Load reads the file at path over the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode merges YAML data into cfg. Keys absent from data keep their current value.
// Durations accept Go syntax ("150ms", "1h").
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config yaml: %w", err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Session.BlurGrace < 0 {
		return fmt.Errorf("session.blur_grace must not be negative")
	}
	return nil
}
