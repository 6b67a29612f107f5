// Package config loads service settings from configs/config.yml, an optional
// .env file and SURAKSHA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix         = "SURAKSHA"
	DefaultConfigDir  = "configs"
	DefaultConfigName = "config"
)

type Config struct {
	Port      string          `mapstructure:"port"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Narrator  NarratorConfig  `mapstructure:"narrator"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Batch     BatchConfig     `mapstructure:"batch"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type NarratorConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type SimulatorConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Tick    time.Duration     `mapstructure:"tick"`
	Seed    int64             `mapstructure:"seed"`
	Workers []SimulatedWorker `mapstructure:"workers"`
}

type SimulatedWorker struct {
	ID   string `mapstructure:"id"`
	Zone string `mapstructure:"zone"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// placeholderKeys are sample signing keys that must never sign real tokens.
var placeholderKeys = map[string]bool{"change-me": true, "changeme": true}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "suraksha.db")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("narrator.api_key", "")
	v.SetDefault("narrator.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("narrator.model", "openai/gpt-4o-mini")
	v.SetDefault("narrator.max_tokens", 512)
	v.SetDefault("narrator.timeout", 20*time.Second)
	v.SetDefault("simulator.enabled", true)
	v.SetDefault("simulator.tick", time.Second)
	v.SetDefault("simulator.seed", 0)
	v.SetDefault("simulator.workers", []map[string]string{
		{"id": "W-101", "zone": "Furnace_A"},
		{"id": "W-102", "zone": "Furnace_B"},
		{"id": "W-103", "zone": "Zone_C"},
	})
	v.SetDefault("batch.workers", 4)
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

// Load reads the config file at path, or configs/config.yml when path is
// empty, and applies environment overrides. A missing default file falls
// back to built-in defaults; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("narrator.api_key", EnvPrefix+"_NARRATOR_API_KEY", "OPENROUTER_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind narrator.api_key: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultConfigDir)
		v.SetConfigName(DefaultConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	return &cfg, nil
}

// Validate reports the first setting the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port is required")
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if strings.TrimSpace(c.DB.Path) == "" {
		return errors.New("db.path is required")
	}
	key := strings.TrimSpace(c.Auth.SigningKey)
	if key == "" {
		return errors.New("auth.signing_key is required")
	}
	if placeholderKeys[strings.ToLower(key)] {
		return fmt.Errorf("auth.signing_key %q is a placeholder, set SURAKSHA_AUTH_SIGNING_KEY", key)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Narrator.MaxTokens <= 0 {
		return fmt.Errorf("narrator.max_tokens must be positive, got %d", c.Narrator.MaxTokens)
	}
	if c.Narrator.Timeout <= 0 {
		return fmt.Errorf("narrator.timeout must be positive, got %s", c.Narrator.Timeout)
	}
	if c.Simulator.Enabled {
		if c.Simulator.Tick <= 0 {
			return fmt.Errorf("simulator.tick must be positive, got %s", c.Simulator.Tick)
		}
		seen := make(map[string]bool, len(c.Simulator.Workers))
		for i, w := range c.Simulator.Workers {
			id := strings.TrimSpace(w.ID)
			if id == "" {
				return fmt.Errorf("simulator.workers[%d].id is required", i)
			}
			if seen[id] {
				return fmt.Errorf("simulator.workers[%d].id %q is duplicated", i, id)
			}
			seen[id] = true
		}
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	return nil
}
