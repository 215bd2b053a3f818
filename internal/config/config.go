package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Auth     AuthConfig     `yaml:"auth"`
	Rubric   RubricConfig   `yaml:"rubric"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// RubricConfig points at an optional YAML rubric definition. When Path is
// empty the built-in rubric is used; either way the rubric must pass
// validation before the process serves traffic.
type RubricConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VENDOREVAL_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("VENDOREVAL_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("VENDOREVAL_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("VENDOREVAL_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("VENDOREVAL_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("VENDOREVAL_RUBRIC_PATH"); v != "" {
		cfg.Rubric.Path = v
	}
	if v := os.Getenv("VENDOREVAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VENDOREVAL_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
