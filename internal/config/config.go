package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/StaryMuz/elektrina-monitor/internal/calculator"
	"github.com/StaryMuz/elektrina-monitor/internal/collector"
)

// DefaultPath is read when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// DefaultLimitEUR is the price limit used when none is configured.
const DefaultLimitEUR = 12.0

// channelUsername matches a public channel handle such as @elektrina_kanal.
var channelUsername = regexp.MustCompile(`^@[A-Za-z][A-Za-z0-9_]{4,}$`)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Webhook struct {
		URL    string `yaml:"url"`
		Secret string `yaml:"secret"`
	} `yaml:"webhook"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		File    string `yaml:"file"`
	} `yaml:"data_source"`
	Threshold struct {
		LimitEUR float64 `yaml:"limit_eur"`
	} `yaml:"threshold"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
		DayOffset int    `yaml:"day_offset"`
		Timezone  string `yaml:"timezone"`
	} `yaml:"schedule"`
	Chart struct {
		Path   string `yaml:"path"`
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
		Theme  string `yaml:"theme"`
	} `yaml:"chart"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
	Logging struct {
		Debug bool `yaml:"debug"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// 0 is a valid limit, so this default is set before parsing.
	cfg.Threshold.LimitEUR = DefaultLimitEUR

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = collector.DefaultOTEBaseURL
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 14 * * *"
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "Europe/Prague"
	}
	if cfg.Chart.Path == "" {
		cfg.Chart.Path = "graf.png"
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1000
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 500
	}
	if cfg.Chart.Theme == "" {
		cfg.Chart.Theme = "light"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/elektrina.db"
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		c.Webhook.URL = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		c.Webhook.Secret = v
	}
	if v := os.Getenv("OTE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("PRICE_LIMIT_EUR"); v != "" {
		limit, ok := calculator.ParsePrice(v)
		if !ok {
			return fmt.Errorf("PRICE_LIMIT_EUR: invalid number %q", v)
		}
		c.Threshold.LimitEUR = limit
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		c.Schedule.DailyCron = v
	}
	if v := os.Getenv("CHART_PATH"); v != "" {
		c.Chart.Path = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_LISTEN"); v != "" {
		c.Metrics.Listen = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEBUG: %w", err)
		}
		c.Logging.Debug = debug
	}
	return nil
}

// RebaseRelative moves the relative chart and database paths under dir.
// Absolute paths are left alone. Used where the working directory is
// read-only, as on Lambda where only /tmp is writable.
func (c *Config) RebaseRelative(dir string) {
	if !filepath.IsAbs(c.Chart.Path) {
		c.Chart.Path = filepath.Join(dir, c.Chart.Path)
	}
	if !filepath.IsAbs(c.Database.SQLitePath) {
		c.Database.SQLitePath = filepath.Join(dir, c.Database.SQLitePath)
	}
}

// TelegramEnabled reports whether Telegram credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Location returns the schedule time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Schedule.Timezone)
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		errs = append(errs, "telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Telegram.ChatID != "" {
		if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil && !channelUsername.MatchString(c.Telegram.ChatID) {
			errs = append(errs, "telegram.chat_id must be a numeric chat id or a @channelusername")
		}
	}

	if c.Webhook.URL != "" && !isHTTPURL(c.Webhook.URL) {
		errs = append(errs, "webhook.url must be an http(s) URL")
	}
	if c.DataSource.File == "" && !isHTTPURL(c.DataSource.BaseURL) {
		errs = append(errs, "data_source.base_url must be an http(s) URL")
	}

	if math.IsNaN(c.Threshold.LimitEUR) || math.IsInf(c.Threshold.LimitEUR, 0) {
		errs = append(errs, "threshold.limit_eur must be a finite number")
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule.DailyCron); err != nil {
		errs = append(errs, fmt.Sprintf("schedule.daily_cron is invalid: %v", err))
	}
	if c.Schedule.DayOffset < 0 || c.Schedule.DayOffset > 1 {
		errs = append(errs, "schedule.day_offset must be 0 (today) or 1 (tomorrow)")
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("schedule.timezone is invalid: %v", err))
	}

	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		errs = append(errs, "chart.width and chart.height must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
