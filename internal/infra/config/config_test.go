package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "file", cfg.Model.Source)
	require.Equal(t, "csv", cfg.PredictionLog.Driver)
	require.Equal(t, "flight_data.csv", cfg.PredictionLog.CSVPath)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
model:
  source: s3
  s3:
    endpoint: https://acct.r2.cloudflarestorage.com
    bucket: models
    key: flight_rf.json
predictionLog:
  driver: postgres
  postgres:
    dsn: postgres://localhost/fares
cache:
  enabled: true
  addr: localhost:6379
  ttl: 30m
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PRICING_CURRENCY", "USD")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "s3", cfg.Model.Source)
	require.Equal(t, "models", cfg.Model.S3.Bucket)
	require.Equal(t, "postgres", cfg.PredictionLog.Driver)
	require.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	require.Equal(t, "USD", cfg.Pricing.Currency)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.HTTP.Address = "" }},
		{"unknown model source", func(c *Config) { c.Model.Source = "ftp" }},
		{"file source without path", func(c *Config) { c.Model.Path = " " }},
		{"s3 without bucket", func(c *Config) { c.Model.Source = "s3"; c.Model.S3.Endpoint = "localhost:9000" }},
		{"unknown log driver", func(c *Config) { c.PredictionLog.Driver = "kafka" }},
		{"csv without path", func(c *Config) { c.PredictionLog.CSVPath = "" }},
		{"cache without addr", func(c *Config) { c.Cache.Enabled = true }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"rate limit burst", func(c *Config) { c.HTTP.RateLimit.Burst = 0 }},
		{"empty currency", func(c *Config) { c.Pricing.Currency = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
