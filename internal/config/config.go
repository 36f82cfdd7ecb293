package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Data providers.
const (
	ProviderYahoo = "yahoo"
	ProviderMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		Provider          string        `yaml:"provider"`
		BaseURL           string        `yaml:"base_url"`
		Proxy             string        `yaml:"proxy"`
		Workers           int           `yaml:"workers"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		Timeout           time.Duration `yaml:"timeout"`
		Retries           int           `yaml:"retries"`
	} `yaml:"data_source"`
	Universe struct {
		SP500URL string `yaml:"sp500_url"`
	} `yaml:"universe"`
	Economic struct {
		DebtURL string `yaml:"debt_url"`
	} `yaml:"economic"`
	Cache struct {
		ConstituentsTTL time.Duration `yaml:"constituents_ttl"`
		CapsTTL         time.Duration `yaml:"caps_ttl"`
		PricesTTL       time.Duration `yaml:"prices_ttl"`
		HistoryPeriod   string        `yaml:"history_period"`
	} `yaml:"cache"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		PurgeCron   string `yaml:"purge_cron"`
		WarmOnStart bool   `yaml:"warm_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// LoadDotEnv loads .env files into the environment. Missing files are
// ignored; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("FETCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.Workers = n
		}
	}
	if v := os.Getenv("SP500_URL"); v != "" {
		cfg.Universe.SP500URL = v
	}
	if v := os.Getenv("DEBT_URL"); v != "" {
		cfg.Economic.DebtURL = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("CRON_PURGE"); v != "" {
		cfg.Schedule.PurgeCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
	}
	if cfg.DataSource.Workers == 0 {
		cfg.DataSource.Workers = 16
	}
	if cfg.DataSource.RequestsPerSecond == 0 {
		cfg.DataSource.RequestsPerSecond = 10
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.Cache.ConstituentsTTL == 0 {
		cfg.Cache.ConstituentsTTL = 24 * time.Hour
	}
	if cfg.Cache.CapsTTL == 0 {
		cfg.Cache.CapsTTL = 24 * time.Hour
	}
	if cfg.Cache.PricesTTL == 0 {
		cfg.Cache.PricesTTL = 6 * time.Hour
	}
	if cfg.Cache.HistoryPeriod == "" {
		cfg.Cache.HistoryPeriod = "1y"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 0 */6 * * *"
	}
	if cfg.Schedule.PurgeCron == "" {
		cfg.Schedule.PurgeCron = "0 */10 * * * *"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.DataSource.Provider != ProviderYahoo && c.DataSource.Provider != ProviderMock {
		return fmt.Errorf("data_source.provider must be %q or %q, got %q", ProviderYahoo, ProviderMock, c.DataSource.Provider)
	}
	if c.DataSource.Workers <= 0 {
		return fmt.Errorf("data_source.workers must be positive")
	}
	if c.DataSource.RequestsPerSecond <= 0 {
		return fmt.Errorf("data_source.requests_per_second must be positive")
	}
	if c.DataSource.Retries < 0 {
		return fmt.Errorf("data_source.retries must not be negative")
	}
	if c.Cache.ConstituentsTTL <= 0 || c.Cache.CapsTTL <= 0 || c.Cache.PricesTTL <= 0 {
		return fmt.Errorf("cache ttls must be positive")
	}
	if _, err := cronParser.Parse(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("schedule.refresh_cron: %w", err)
	}
	if _, err := cronParser.Parse(c.Schedule.PurgeCron); err != nil {
		return fmt.Errorf("schedule.purge_cron: %w", err)
	}
	return nil
}
