package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration. Values are
// layered: built-in defaults, then the optional YAML config file, then
// MINTEL_* environment variables. Each layer only touches the keys it
// actually sets.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
	Dataset  DatasetConfig  `yaml:"dataset"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" split_words:"true"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Output      string `yaml:"output"`
	FilePath    string `yaml:"file_path" split_words:"true"`
	Development bool   `yaml:"development"`
}

// DatasetConfig locates the dataset JSON produced by the external workbook
// loader.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// defaultConfig returns the built-in defaults the file and environment layers
// are applied over.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:       "info",
			Output:      "console",
			FilePath:    "logs/app.log",
			Development: true,
		},
		Dataset: DatasetConfig{
			Path: "data/dataset.json",
		},
	}
}

// Load assembles the configuration: defaults, then the config file when
// present, then environment variables. Only MINTEL_-prefixed variables are
// read; ambient variables like PATH never leak in.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("MINTEL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays values from a YAML file onto cfg. Keys absent from
// the file leave the existing values untouched.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the config file location, overridable via env.
func getConfigFilePath() string {
	if path := os.Getenv("MINTEL_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Security.RateLimit.Enabled {
		if c.Security.RateLimit.RPS <= 0 {
			return fmt.Errorf("rate limit RPS must be positive, got %f", c.Security.RateLimit.RPS)
		}
		if c.Security.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive, got %d", c.Security.RateLimit.Burst)
		}
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path must not be empty")
	}
	return nil
}
