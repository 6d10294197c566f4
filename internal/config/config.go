// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir      string // Base directory for the history database and seed data (always absolute)
	Port         int
	LogLevel     string
	DevMode      bool
	SyncSymbols  []string // Underlyings refreshed by the nightly sync job
	SyncSchedule string   // Cron expression for the sync job
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic:
	// 1. Check AUTOCALL_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path and ensure the directory exists
	dataDir := getEnv("AUTOCALL_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:      absDataDir,
		Port:         getEnvAsInt("AUTOCALL_PORT", 8001),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		SyncSymbols:  getEnvAsList("SYNC_SYMBOLS", []string{"STOXX50E", "GSPC"}),
		SyncSchedule: getEnv("SYNC_SCHEDULE", "0 18 * * MON-FRI"),
	}

	return cfg, nil
}

// HistoryDBPath returns the path of the price history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
