package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "CODESPACE_NAME", "PORT", "API_TIMEOUT", "SAVE_CLOSE_DELAY", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := NewConfigFromEnv()
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Zero(t, cfg.APITimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.SaveCloseDelay)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestNewConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("CODESPACE_NAME", "octo-space")
	t.Setenv("SAVE_CLOSE_DELAY", "250")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg := NewConfigFromEnv()
	assert.Equal(t, "https://octo-space-8000.app.github.dev", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.SaveCloseDelay)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadDashboardMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Hero Fitness
cards:
  - title: Leaderboard
    description: Who is winning
    icon: "🏆"
    path: /leaderboard
    color: warning
`), 0o644))

	dashboard, err := LoadDashboard(path)
	require.NoError(t, err)
	assert.Equal(t, "Hero Fitness", dashboard.Title)
	assert.Equal(t, DefaultDashboard().Tagline, dashboard.Tagline)
	require.Len(t, dashboard.Cards, 1)
	assert.Equal(t, "/leaderboard", dashboard.Cards[0].Path)
}

func TestLoadWithMissingDashboardFile(t *testing.T) {
	t.Setenv("DASHBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load dashboard config")
}
