package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"` // Go duration; empty or "0" means no client timeout
	} `yaml:"api"`
	Output struct {
		Dir       string `yaml:"dir"`
		OpenChart *bool  `yaml:"open_chart"`
	} `yaml:"output"`
	Dashboard struct {
		Addr           string `yaml:"addr"`
		DefaultCountry string `yaml:"default_country"`
		PreviewRows    int    `yaml:"preview_rows"`
	} `yaml:"dashboard"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		Country     string `yaml:"country"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "covidstat", "config.yaml")
}

// ResolvePath picks the explicit path, then CONFIG_PATH, then DefaultPath.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath()
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("COVIDSTAT_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("COVIDSTAT_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		cfg.Dashboard.Addr = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://disease.sh/v3/covid-19"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.Output.OpenChart == nil {
		open := true
		cfg.Output.OpenChart = &open
	}
	if cfg.Dashboard.Addr == "" {
		cfg.Dashboard.Addr = ":8501"
	}
	if cfg.Dashboard.DefaultCountry == "" {
		cfg.Dashboard.DefaultCountry = "Nepal"
	}
	if cfg.Dashboard.PreviewRows == 0 {
		cfg.Dashboard.PreviewRows = 10
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 0 6 * * *"
	}
	if cfg.Schedule.Country == "" {
		cfg.Schedule.Country = cfg.Dashboard.DefaultCountry
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme must be http or https, got %q", u.Scheme)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.Dashboard.PreviewRows < 0 {
		return fmt.Errorf("dashboard.preview_rows must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Timeout parses api.timeout. Empty means no timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.API.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("api.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("api.timeout must not be negative")
	}
	return d, nil
}

// ShouldOpenChart reports whether the CLI opens the rendered chart in a browser.
func (c *Config) ShouldOpenChart() bool {
	return c.Output.OpenChart == nil || *c.Output.OpenChart
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
