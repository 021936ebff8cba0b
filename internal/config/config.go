// Package config centralises configuration parsing for the HRMS terminal client.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures runtime configuration values for the client.
type Config struct {
	APIBaseURL      string
	HTTPTimeout     time.Duration
	RefreshInterval time.Duration // Interval between background today-status fetches.
	TickInterval    time.Duration // Interval between timer display updates.
	DatabasePath    string
	Notifications   string
	HistoryPageSize int
	MetricsAddress  string // Empty disables the metrics listener.
	LogFile         string
}

// Load reads environment variables into Config, applying defaults for local dev.
// Callers merge a .env file first with godotenv.
func Load() Config {
	return Config{
		APIBaseURL:      getEnv("HRMS_API_URL", "http://localhost:8000"),
		HTTPTimeout:     getDurationEnv("HRMS_HTTP_TIMEOUT", 10*time.Second),
		RefreshInterval: getDurationEnv("HRMS_REFRESH_INTERVAL", 30*time.Second),
		TickInterval:    getDurationEnv("HRMS_TICK_INTERVAL", time.Second),
		DatabasePath:    getEnv("HRMS_DB_PATH", "hrms_tui.db"),
		Notifications:   getEnv("HRMS_NOTIFICATIONS", "default"),
		HistoryPageSize: getIntEnv("HRMS_HISTORY_PAGE_SIZE", 10),
		MetricsAddress:  getEnv("HRMS_METRICS_ADDR", ""),
		LogFile:         getEnv("HRMS_LOG_FILE", "hrms_tui.log"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
