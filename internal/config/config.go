// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port    int    `yaml:"port"`
		Version string `yaml:"version"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	Symbols struct {
		File     string        `yaml:"file"`      // JSON universe file; empty uses the embedded default list
		CacheTTL time.Duration `yaml:"cache_ttl"` // universe cache time-to-live
	} `yaml:"symbols"`
	Scanner struct {
		Workers      int           `yaml:"workers"`       // concurrent symbol fetches
		ScanTimeout  time.Duration `yaml:"scan_timeout"`  // per-scan wall clock budget
		LookbackDays int           `yaml:"lookback_days"` // daily bars fetched per symbol
	} `yaml:"scanner"`
	Alerts struct {
		Enabled         bool    `yaml:"enabled"`
		ScanCron        string  `yaml:"scan_cron"`         // background scan schedule
		RefreshCron     string  `yaml:"refresh_cron"`      // universe refresh schedule
		MinScore        float64 `yaml:"min_score"`         // notify matches at or above this score
		FirebaseCreds   string  `yaml:"firebase_creds"`    // service account file path
		CooldownMinutes int     `yaml:"cooldown_minutes"`  // per-symbol notification cooldown
	} `yaml:"alerts"`
	Development bool `yaml:"development"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SYMBOLS_FILE"); v != "" {
		cfg.Symbols.File = v
	}
	if v := os.Getenv("SYMBOL_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Symbols.CacheTTL = d
		}
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scanner.Workers = n
		}
	}
	if v := os.Getenv("SCAN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Scanner.ScanTimeout = d
		}
	}
	if v := os.Getenv("FIREBASE_CREDENTIALS_PATH"); v != "" {
		cfg.Alerts.FirebaseCreds = v
	}
	if v := os.Getenv("ALERTS_ENABLED"); v == "true" || v == "1" {
		cfg.Alerts.Enabled = true
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.0.0"
	}
	if cfg.Symbols.CacheTTL == 0 {
		cfg.Symbols.CacheTTL = 24 * time.Hour
	}
	if cfg.Scanner.Workers == 0 {
		cfg.Scanner.Workers = 8
	}
	if cfg.Scanner.ScanTimeout == 0 {
		cfg.Scanner.ScanTimeout = 2 * time.Minute
	}
	if cfg.Scanner.LookbackDays == 0 {
		cfg.Scanner.LookbackDays = 90
	}
	if cfg.Alerts.ScanCron == "" {
		cfg.Alerts.ScanCron = "@every 15m"
	}
	if cfg.Alerts.RefreshCron == "" {
		cfg.Alerts.RefreshCron = "0 6 * * *"
	}
	if cfg.Alerts.MinScore == 0 {
		cfg.Alerts.MinScore = 7.0
	}
	if cfg.Alerts.CooldownMinutes == 0 {
		cfg.Alerts.CooldownMinutes = 60
	}

	return cfg, nil
}

// Validate checks invariants the rest of the app relies on.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Scanner.Workers <= 0 {
		return fmt.Errorf("scanner.workers must be positive")
	}
	if c.Scanner.LookbackDays < 30 {
		return fmt.Errorf("scanner.lookback_days must cover the indicator lookback (>= 30)")
	}
	if c.Symbols.CacheTTL <= 0 {
		return fmt.Errorf("symbols.cache_ttl must be positive")
	}
	return nil
}
