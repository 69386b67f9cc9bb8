// Package config reads dashboard settings from the environment and the
// optional YAML dashboard file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/octofit/dashboard/go/clients/octofit_client"
)

// Config holds runtime settings for the dashboard server and CLI.
type Config struct {
	APIBaseURL         string
	Port               string
	APITimeout         time.Duration // zero means requests never time out
	SaveCloseDelay     time.Duration
	LogLevel           string
	LogFormat          string
	DashboardFile      string
	NATSURL            string
	NATSSubjectPrefix  string
	CSRFKey            string
	CORSAllowedOrigins []string
	Dashboard          Dashboard
}

// NewConfigFromEnv reads environment variables (with defaults).
func NewConfigFromEnv() Config {
	return Config{
		APIBaseURL:         octofit_client.ResolveBaseURL(getEnv("API_BASE_URL", ""), getEnv("CODESPACE_NAME", "")),
		Port:               getEnv("PORT", "3000"),
		APITimeout:         getEnvAsDuration("API_TIMEOUT", 0),
		SaveCloseDelay:     getEnvAsDuration("SAVE_CLOSE_DELAY", 1500*time.Millisecond),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		DashboardFile:      getEnv("DASHBOARD_CONFIG", ""),
		NATSURL:            getEnv("NATS_URL", ""),
		NATSSubjectPrefix:  getEnv("NATS_SUBJECT_PREFIX", "octofit"),
		CSRFKey:            getEnv("CSRF_KEY", ""),
		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// Load reads the environment and, when configured, the dashboard file.
func Load() (Config, error) {
	cfg := NewConfigFromEnv()

	cfg.Dashboard = DefaultDashboard()
	if cfg.DashboardFile != "" {
		dashboard, err := LoadDashboard(cfg.DashboardFile)
		if err != nil {
			return cfg, fmt.Errorf("failed to load dashboard config: %w", err)
		}
		cfg.Dashboard = dashboard
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(v); err == nil {
		return parsed
	}
	// bare integers are milliseconds
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
