package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.DataSource.Provider != ProviderYahoo {
		t.Errorf("addr=%q provider=%q", cfg.Server.Addr, cfg.DataSource.Provider)
	}
	if cfg.Cache.PricesTTL != 6*time.Hour || cfg.Cache.ConstituentsTTL != 24*time.Hour {
		t.Errorf("ttls = %v / %v", cfg.Cache.PricesTTL, cfg.Cache.ConstituentsTTL)
	}
	if cfg.Schedule.RefreshCron != "0 0 */6 * * *" {
		t.Errorf("refresh cron = %q", cfg.Schedule.RefreshCron)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  addr: ":9000"
data_source:
  provider: mock
  workers: 4
  timeout: 5s
cache:
  prices_ttl: 30m
schedule:
  refresh_cron: "@every 1h"
database:
  sqlite_path: /tmp/x.db
`)
	t.Setenv("SQLITE_PATH", "/var/lib/marketlens.db")
	t.Setenv("FETCH_WORKERS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"addr", cfg.Server.Addr, ":9000"},
		{"provider", cfg.DataSource.Provider, ProviderMock},
		{"workers env override", cfg.DataSource.Workers, 8},
		{"timeout", cfg.DataSource.Timeout, 5 * time.Second},
		{"prices ttl", cfg.Cache.PricesTTL, 30 * time.Minute},
		{"refresh cron", cfg.Schedule.RefreshCron, "@every 1h"},
		{"sqlite env override", cfg.Database.SQLitePath, "/var/lib/marketlens.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"zero workers", func(c *Config) { c.DataSource.Workers = -1 }},
		{"negative retries", func(c *Config) { c.DataSource.Retries = -1 }},
		{"bad refresh cron", func(c *Config) { c.Schedule.RefreshCron = "every six hours" }},
		{"bad purge cron", func(c *Config) { c.Schedule.PurgeCron = "* * *" }},
		{"negative ttl", func(c *Config) { c.Cache.CapsTTL = -time.Minute }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	if _, ok := os.LookupEnv("CRON_PURGE"); ok {
		t.Skip("CRON_PURGE already set in environment")
	}
	t.Cleanup(func() { os.Unsetenv("CRON_PURGE") })

	env := writeFile(t, ".env", "CRON_PURGE=\"0 */5 * * * *\"\n")
	if err := LoadDotEnv(env, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Schedule.PurgeCron != "0 */5 * * * *" {
		t.Errorf("purge cron = %q", cfg.Schedule.PurgeCron)
	}
}
