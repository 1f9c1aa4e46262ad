package config

import "time"

const (
	// DefaultAPIPort matches the container contract: HTTP on 8000.
	DefaultAPIPort   = 8000
	DefaultAdminPort = 8001

	DefaultDatabasePath = "./data"
	DefaultDatabaseName = "shopplan"

	DefaultDurationMinutes   = 60
	DefaultTravelTimeMinutes = 15
	DefaultMaxSuggestions    = 5
	DefaultNearbyStores      = 2

	DefaultSchedulerInterval = 24 * time.Hour
)

// Default returns a configuration with every default applied and no file or
// environment input.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills zero values with service defaults.
func applyDefaults(cfg *Config) {
	if cfg.HTTP.APIPort == 0 {
		cfg.HTTP.APIPort = DefaultAPIPort
	}
	if cfg.HTTP.AdminPort == 0 {
		cfg.HTTP.AdminPort = DefaultAdminPort
	}
	if len(cfg.HTTP.CORSOrigins) == 0 {
		cfg.HTTP.CORSOrigins = []string{"*"}
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = DefaultDatabaseName
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	}
	if cfg.Planner.DefaultDurationMinutes == 0 {
		cfg.Planner.DefaultDurationMinutes = DefaultDurationMinutes
	}
	if cfg.Planner.TravelTimeMinutes == 0 {
		cfg.Planner.TravelTimeMinutes = DefaultTravelTimeMinutes
	}
	if cfg.Planner.MaxSuggestions == 0 {
		cfg.Planner.MaxSuggestions = DefaultMaxSuggestions
	}
	if cfg.Planner.NearbyStores == 0 {
		cfg.Planner.NearbyStores = DefaultNearbyStores
	}
	if cfg.Scheduler.Interval == 0 {
		cfg.Scheduler.Interval = DefaultSchedulerInterval
	}
	if cfg.Notify.SubjectPrefix == "" {
		cfg.Notify.SubjectPrefix = "shopplan"
	}
}
