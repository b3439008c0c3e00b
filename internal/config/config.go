// Package config loads storefront configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Composer     ComposerConfig     `yaml:"composer"`
	Configurator ConfiguratorConfig `yaml:"configurator"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig configures the PostgreSQL store. An empty DSN selects the
// in-memory store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig configures the catalog read-through cache. An empty address
// disables caching.
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	CacheTTLms int    `yaml:"cache_ttl_ms"`
}

// ComposerConfig selects the price composition backend. An empty URL keeps
// composition local.
type ComposerConfig struct {
	URL string `yaml:"url"`
}

// ConfiguratorConfig tunes the formulation wizard.
type ConfiguratorConfig struct {
	BasePrice float64 `yaml:"base_price"`
	Category  string  `yaml:"category"`
	SizeLabel string  `yaml:"size_label"`
}

// CatalogConfig tunes catalog loading.
type CatalogConfig struct {
	RefreshSchedule string `yaml:"refresh_schedule"`
	Seed            bool   `yaml:"seed"`
}

// LoggingConfig tunes log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:       ServerConfig{Addr: ":8080"},
		Configurator: ConfiguratorConfig{BasePrice: 25.00, Category: "Face Cream", SizeLabel: "50ml"},
		Catalog:      CatalogConfig{RefreshSchedule: "@every 1h", Seed: true},
		Logging:      LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration file at path, falling back to defaults when
// the file does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Configurator.BasePrice <= 0 {
		return Config{}, fmt.Errorf("configurator.base_price must be positive")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STOREFRONT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STOREFRONT_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("STOREFRONT_COMPOSER_URL"); v != "" {
		cfg.Composer.URL = v
	}
	if v := os.Getenv("STOREFRONT_BASE_PRICE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Configurator.BasePrice = parsed
		}
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
