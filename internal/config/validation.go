package config

import (
	"git.home.luguber.info/inful/shopplan/internal/errors"
)

// Validate checks configuration invariants. It returns a classified config
// error naming the offending field.
func (c *Config) Validate() error {
	if c.HTTP.APIPort < 1 || c.HTTP.APIPort > 65535 {
		return errors.ConfigError("api port out of range").
			WithContext("field", "http.api_port").
			WithContext("value", c.HTTP.APIPort).
			Build()
	}
	if c.HTTP.AdminPort < 1 || c.HTTP.AdminPort > 65535 {
		return errors.ConfigError("admin port out of range").
			WithContext("field", "http.admin_port").
			WithContext("value", c.HTTP.AdminPort).
			Build()
	}
	if c.HTTP.APIPort == c.HTTP.AdminPort {
		return errors.ConfigError("api and admin ports must differ").
			WithContext("port", c.HTTP.APIPort).
			Build()
	}
	if c.Database.Name == "" {
		return errors.ConfigError("database name is required").
			WithContext("field", "database.name").
			Build()
	}
	if c.Planner.MaxSuggestions < 1 {
		return errors.ConfigError("max suggestions must be positive").
			WithContext("field", "planner.max_suggestions").
			Build()
	}
	if c.Planner.NearbyStores < 1 {
		return errors.ConfigError("nearby stores must be positive").
			WithContext("field", "planner.nearby_stores").
			Build()
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		return errors.ConfigError("scheduler interval must be positive").
			WithContext("field", "scheduler.interval").
			Build()
	}
	if c.Notify.Enabled && c.Notify.NATSURL == "" {
		return errors.ConfigError("nats url required when notifications enabled").
			WithContext("field", "notify.nats_url").
			Build()
	}
	return nil
}
