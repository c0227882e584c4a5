package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2*time.Second, cfg.RenderWait)
	assert.Equal(t, StoreMemory, cfg.PageStore)
	assert.Equal(t, 30*time.Minute, cfg.PageTTL)
	assert.Equal(t, 30, cfg.PageLoadRateLimit)
	assert.False(t, cfg.ShowPanelErrors)
	assert.Equal(t, "@every 1m", cfg.ProbeSpec)
	assert.Equal(t, ":9091", cfg.MetricsAddr)
	assert.Equal(t, "Wayne Enterprises", cfg.DashboardTitle)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_BASE_URL", "https://bi.wayne.example/api")
	t.Setenv("PAGE_STORE", "redis")
	t.Setenv("SHOW_PANEL_ERRORS", "true")
	t.Setenv("RENDER_WAIT", "0s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://bi.wayne.example/api", cfg.APIBaseURL)
	assert.Equal(t, StoreRedis, cfg.PageStore)
	assert.True(t, cfg.ShowPanelErrors)
	assert.Zero(t, cfg.RenderWait)
}

func TestLoadConfigDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DASHBOARD_TITLE=From File\nFETCH_TIMEOUT=3s\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("DASHBOARD_TITLE", "From Env")
	// Registered with t.Setenv so the value godotenv sets is restored afterwards.
	t.Setenv("FETCH_TIMEOUT", "")
	require.NoError(t, os.Unsetenv("FETCH_TIMEOUT"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.DashboardTitle)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"store":   {"PAGE_STORE", "memcached"},
		"url":     {"API_BASE_URL", "not a url"},
		"timeout": {"FETCH_TIMEOUT", "0s"},
		"format":  {"LOG_FORMAT", "xml"},
		"limit":   {"PAGELOAD_RATE_LIMIT", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
