package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"COVIDSTAT_API_URL", "HTTPS_PROXY", "COVIDSTAT_OUTPUT_DIR", "DASHBOARD_ADDR",
		"CRON_REFRESH", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "LOG_LEVEL", "CONFIG_PATH",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://disease.sh/v3/covid-19", cfg.API.BaseURL)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.True(t, cfg.ShouldOpenChart())
	assert.Equal(t, ":8501", cfg.Dashboard.Addr)
	assert.Equal(t, "Nepal", cfg.Dashboard.DefaultCountry)
	assert.Equal(t, 10, cfg.Dashboard.PreviewRows)
	assert.Equal(t, "Nepal", cfg.Schedule.Country)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.TelegramEnabled())
	require.NoError(t, cfg.Validate())

	d, err := cfg.Timeout()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
api:
  base_url: http://localhost:3000/v3/covid-19
  timeout: 15s
output:
  dir: exports
  open_chart: false
dashboard:
  default_country: India
  preview_rows: 20
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("DASHBOARD_ADDR", "127.0.0.1:9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:3000/v3/covid-19", cfg.API.BaseURL)
	assert.Equal(t, "exports", cfg.Output.Dir)
	assert.False(t, cfg.ShouldOpenChart())
	assert.Equal(t, "127.0.0.1:9000", cfg.Dashboard.Addr)
	assert.Equal(t, "India", cfg.Dashboard.DefaultCountry)
	assert.Equal(t, "India", cfg.Schedule.Country)
	assert.Equal(t, 20, cfg.Dashboard.PreviewRows)
	assert.Equal(t, "debug", cfg.Log.Level)

	d, err := cfg.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://disease.sh" }},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = "-1s" }},
		{"negative preview", func(c *Config) { c.Dashboard.PreviewRows = -1 }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "123:abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestResolvePath(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, "explicit.yaml", ResolvePath("explicit.yaml"))

	t.Setenv("CONFIG_PATH", "/etc/covidstat.yaml")
	assert.Equal(t, "/etc/covidstat.yaml", ResolvePath(""))

	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath(), ResolvePath(""))
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
}
