// Package config provides configuration management for the application.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
)

const defaultDatabasePath = "./cache.db"

// Config holds process-level configuration loaded from the environment.
// Per-request filtering lives in AggregationConfig.
type Config struct {
	Port         string
	DatabasePath string
	CacheSize    int
	CacheTTL     time.Duration

	// Server-side debrid defaults, overridable per request
	DebridService string
	DebridToken   string
}

// Load reads configuration from environment variables, applying defaults
// for anything unset.
func Load() *Config {
	return &Config{
		Port:          getEnvOrDefault("PORT", constants.DefaultPort),
		DatabasePath:  getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		CacheSize:     constants.DefaultCacheSize,
		CacheTTL:      time.Duration(constants.DefaultCacheTTL) * time.Hour,
		DebridService: strings.ToLower(os.Getenv("DEBRID_SERVICE")),
		DebridToken:   os.Getenv("DEBRID_TOKEN"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
