package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads environment variables from .env/.env.local. Existing
// process environment variables are never overwritten, and a missing file is
// not an error.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		_ = godotenv.Load(envPath)
	}
}

// applyEnvOverrides maps deployment environment variables onto the config.
// These mirror the container runtime contract: database location and name,
// CORS origins, and listener ports.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.HTTP.CORSOrigins = origins
	}
	if v := os.Getenv("SHOPPLAN_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.APIPort = port
		}
	}
	if v := os.Getenv("SHOPPLAN_ADMIN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.AdminPort = port
		}
	}
	if v := os.Getenv("SHOPPLAN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SHOPPLAN_NATS_URL"); v != "" {
		cfg.Notify.NATSURL = v
		cfg.Notify.Enabled = true
	}
}
