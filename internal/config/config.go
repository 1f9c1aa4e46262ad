// Package config loads and validates the shopplan service configuration from
// a YAML file, .env files, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Planner   PlannerConfig   `yaml:"planner"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// HTTPConfig holds listener and CORS settings.
type HTTPConfig struct {
	APIPort   int `yaml:"api_port"`
	AdminPort int `yaml:"admin_port"`

	// CORSOrigins lists allowed origins. A single "*" allows any origin.
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig locates the SQLite database. Path is a directory; the
// database file is named after Name.
type DatabaseConfig struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

// DSN returns the SQLite datasource for the configured database.
func (d DatabaseConfig) DSN() string {
	if d.Path == ":memory:" {
		return ":memory:"
	}
	return filepath.Join(d.Path, d.Name+".db")
}

// LoggingConfig holds log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PlannerConfig tunes suggestion generation.
type PlannerConfig struct {
	// DefaultDurationMinutes is used when preferences omit a shopping duration.
	DefaultDurationMinutes int `yaml:"default_duration_minutes"`
	// TravelTimeMinutes is the flat travel estimate applied to suggestions.
	TravelTimeMinutes int `yaml:"travel_time_minutes"`
	// MaxSuggestions caps the suggestions kept per weekly schedule.
	MaxSuggestions int `yaml:"max_suggestions"`
	// NearbyStores is how many catalog stores count as "nearby".
	NearbyStores int `yaml:"nearby_stores"`
	// HomeLat/HomeLng, when set, enable store distance computation.
	HomeLat float64 `yaml:"home_lat"`
	HomeLng float64 `yaml:"home_lng"`
}

// SchedulerConfig controls the periodic regeneration of weekly schedules.
type SchedulerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// NotifyConfig controls the optional NATS notification publisher.
type NotifyConfig struct {
	Enabled       bool   `yaml:"enabled"`
	NATSURL       string `yaml:"nats_url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Load reads the configuration file at path, loads .env files, applies
// environment overrides, fills defaults, and validates the result. A missing
// config file is not an error: defaults plus environment apply.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults + env only
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefault writes a default configuration file to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	cfg := &Config{}
	applyDefaults(cfg)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
