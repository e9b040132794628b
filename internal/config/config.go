// Package config loads service settings from a YAML file, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"restoplus/internal/database"
	"restoplus/internal/models"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Storage  database.Config `yaml:"storage"`
	LogLevel string          `yaml:"log_level"`
	Seed     bool            `yaml:"seed"`
	Currency string          `yaml:"currency"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 9090
	cfg.Metrics.Path = "/metrics"
	cfg.Storage.Driver = database.DriverSQLite
	cfg.Storage.DSN = "restoplus.db"
	cfg.LogLevel = "info"
	cfg.Seed = true
	cfg.Currency = models.DefaultCurrency
	return cfg
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	var err error
	if c.Server.Port, err = envInt("RESTOPLUS_PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Metrics.Port, err = envInt("RESTOPLUS_METRICS_PORT", c.Metrics.Port); err != nil {
		return err
	}
	if c.Metrics.Enabled, err = envBool("RESTOPLUS_METRICS_ENABLED", c.Metrics.Enabled); err != nil {
		return err
	}
	if c.Seed, err = envBool("RESTOPLUS_SEED", c.Seed); err != nil {
		return err
	}
	c.Storage.Driver = getEnv("RESTOPLUS_DB_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getEnv("DATABASE_URL", c.Storage.DSN)
	c.Storage.DSN = getEnv("RESTOPLUS_DB_DSN", c.Storage.DSN)
	c.LogLevel = getEnv("RESTOPLUS_LOG_LEVEL", c.LogLevel)
	c.Currency = strings.ToUpper(getEnv("RESTOPLUS_CURRENCY", c.Currency))
	return nil
}

// Validate checks that the settings can be used to start the service.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case database.DriverSQLite, database.DriverPostgres, database.DriverMemory:
	default:
		return fmt.Errorf("config: unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Metrics.Enabled && c.Metrics.Port <= 0 {
		return fmt.Errorf("config: invalid metrics port %d", c.Metrics.Port)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	return nil
}

// NewLogger builds the production zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	return zc.Build()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
