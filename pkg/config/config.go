// Package config loads runtime settings from, in increasing precedence, built-in defaults,
// a YAML file, a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
)

// DefaultPath is read when no config file is named; it may be absent.
const DefaultPath = "config/cashflow.yaml"

type StoreConfig struct {
	Backend string `yaml:"backend" env:"CASHFLOW_STORE"`
	Path    string `yaml:"path" env:"CASHFLOW_STORE_PATH"`
	DSN     string `yaml:"dsn" env:"DATABASE_URL"`
}

type APIConfig struct {
	Addr        string `yaml:"addr" env:"CASHFLOW_API_ADDR"`
	AllowOrigin string `yaml:"allow_origin" env:"CASHFLOW_ALLOW_ORIGIN"`
}

type ValuationConfig struct {
	AnnualDiscountRate float64 `yaml:"annual_discount_rate" env:"CASHFLOW_DISCOUNT_RATE"`
}

// Config is the full runtime configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	API       APIConfig       `yaml:"api"`
	Valuation ValuationConfig `yaml:"valuation"`

	// Project overrides the built-in reference project used when a request omits parameters.
	Project *cashflow.ProjectParameters `yaml:"project,omitempty"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Store:     StoreConfig{Backend: store.BackendFile, Path: ".cache/snapshots"},
		API:       APIConfig{Addr: ":8080", AllowOrigin: "*"},
		Valuation: ValuationConfig{AnnualDiscountRate: 0.08},
	}
}

// Load builds the configuration. An empty path reads DefaultPath if it exists.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	file := path
	if file == "" {
		file = DefaultPath
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", file, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == "":
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "", store.BackendFile, store.BackendSQLite:
	case store.BackendPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store backend postgres needs DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Valuation.AnnualDiscountRate <= -1 {
		return fmt.Errorf("annual discount rate %v must be above -100%%", c.Valuation.AnnualDiscountRate)
	}
	if c.Project != nil {
		if err := c.Project.Validate(); err != nil {
			return fmt.Errorf("project defaults: %w", err)
		}
	}
	return nil
}

// StoreOptions maps the settings onto the store package.
func (c Config) StoreOptions() store.Config {
	return store.Config{Backend: c.Store.Backend, Path: c.Store.Path, DSN: c.Store.DSN}
}

// ProjectDefaults returns the configured reference project, or the built-in one starting at start.
func (c Config) ProjectDefaults(start calendar.Month) cashflow.ProjectParameters {
	if c.Project != nil {
		return *c.Project
	}
	return cashflow.DefaultParameters(start)
}
