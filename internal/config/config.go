package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL     string `mapstructure:"base_url"`
	APIToken    string `mapstructure:"api_token"`
	APIEmail    string `mapstructure:"api_email"`
	APIPassword string `mapstructure:"api_password"`

	ChecksFile    string `mapstructure:"checks_file"`
	ReportersFile string `mapstructure:"reporters_file"`
	ProbeDocs     bool   `mapstructure:"probe_docs"`

	RequestTimeoutSeconds int64         `mapstructure:"request_timeout"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	CheckIntervalSeconds  int64         `mapstructure:"check_interval"`
	CheckInterval         time.Duration `mapstructure:"-"`

	HistoryType            string        `mapstructure:"history_type"`
	HistoryPath            string        `mapstructure:"history_path"`
	HistoryTTLSeconds      int64         `mapstructure:"history_ttl_seconds"`
	HistoryCleanupSeconds  int64         `mapstructure:"history_cleanup_interval_seconds"`
	HistoryTTL             time.Duration `mapstructure:"-"`
	HistoryCleanupInterval time.Duration `mapstructure:"-"`
}

// MarshalLogObject renders the config for startup logs. api_token and
// api_password are masked so credentials never reach the log stream.
func (c *Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("app_name", c.AppName)
	enc.AddString("app_env", c.Env)
	enc.AddString("log_level", c.LogLevel)
	enc.AddString("base_url", c.BaseURL)
	enc.AddString("api_token", maskSecret(c.APIToken))
	enc.AddString("api_email", c.APIEmail)
	enc.AddString("api_password", maskSecret(c.APIPassword))
	enc.AddString("checks_file", c.ChecksFile)
	enc.AddString("reporters_file", c.ReportersFile)
	enc.AddBool("probe_docs", c.ProbeDocs)
	enc.AddDuration("request_timeout", c.RequestTimeout)
	enc.AddDuration("check_interval", c.CheckInterval)
	enc.AddString("history_type", c.HistoryType)
	enc.AddString("history_path", c.HistoryPath)
	enc.AddDuration("history_ttl", c.HistoryTTL)
	enc.AddDuration("history_cleanup_interval", c.HistoryCleanupInterval)
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "agrismart-smoketest")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("api_token", "")
	v.SetDefault("api_email", "")
	v.SetDefault("api_password", "")
	v.SetDefault("checks_file", "./configs/checks.yaml")
	v.SetDefault("reporters_file", "./configs/reporters.yaml")
	v.SetDefault("probe_docs", false)
	v.SetDefault("request_timeout", 15) // seconds
	v.SetDefault("check_interval", 300) // seconds
	v.SetDefault("history_type", "none")
	v.SetDefault("history_path", "./data/history.db")
	v.SetDefault("history_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("history_cleanup_interval_seconds", int64((time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base_url must not be empty")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.CheckIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid check_interval (must be positive seconds)")
	}
	cfg.CheckInterval = time.Duration(cfg.CheckIntervalSeconds) * time.Second

	if cfg.HistoryTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid history_ttl_seconds (must be positive seconds)")
	}
	if cfg.HistoryCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid history_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.HistoryTTL = time.Duration(cfg.HistoryTTLSeconds) * time.Second
	cfg.HistoryCleanupInterval = time.Duration(cfg.HistoryCleanupSeconds) * time.Second

	return &cfg, nil
}
