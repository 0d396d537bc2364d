package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the storefront's process configuration. The commerce API
// address is the only external contract; everything else has defaults.
type Config struct {
	// APIBase is the commerce API origin, e.g. https://ec-api.example.com
	APIBase string
	// APIPath is the per-store path segment under /api/
	APIPath string
	// ListenAddr is the state gateway's listen address
	ListenAddr string
}

// Load reads configuration from the environment. When APP_ENV is "local",
// .env.local is loaded first so developers can keep credentials out of
// their shell profile.
func Load() (Config, error) {
	if getEnv("APP_ENV", "development") == "local" {
		if err := godotenv.Load(".env.local"); err != nil {
			log.WithError(err).Warn("Could not load .env.local, relying on system environment")
		}
	}

	cfg := Config{
		APIBase:    os.Getenv("API_BASE"),
		APIPath:    os.Getenv("API_PATH"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
	}

	if cfg.APIBase == "" {
		return Config{}, fmt.Errorf("API_BASE environment variable not set")
	}
	if cfg.APIPath == "" {
		return Config{}, fmt.Errorf("API_PATH environment variable not set")
	}

	return cfg, nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
