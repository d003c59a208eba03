package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Model         ModelConfig         `yaml:"model"`
	PredictionLog PredictionLogConfig `yaml:"predictionLog"`
	Cache         CacheConfig         `yaml:"cache"`
	Pricing       PricingConfig       `yaml:"pricing"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// ModelConfig says where the regression model artefact lives.
type ModelConfig struct {
	Source string   `yaml:"source"` // file | s3
	Path   string   `yaml:"path"`
	S3     S3Config `yaml:"s3"`
}

// S3Config locates the artefact in S3-compatible storage.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
}

// PredictionLogConfig selects where quotes are recorded.
type PredictionLogConfig struct {
	Driver   string         `yaml:"driver"` // csv | postgres | memory
	CSVPath  string         `yaml:"csvPath"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// CacheConfig controls the price cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	TTL     time.Duration `yaml:"ttl"`
}

// PricingConfig holds presentation settings for quotes.
type PricingConfig struct {
	Currency string `yaml:"currency"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("MODEL_SOURCE"); v != "" {
		cfg.Model.Source = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("MODEL_S3_ENDPOINT"); v != "" {
		cfg.Model.S3.Endpoint = v
	}
	if v := os.Getenv("MODEL_S3_ACCESS_KEY"); v != "" {
		cfg.Model.S3.AccessKey = v
	}
	if v := os.Getenv("MODEL_S3_SECRET_KEY"); v != "" {
		cfg.Model.S3.SecretKey = v
	}
	if v := os.Getenv("MODEL_S3_REGION"); v != "" {
		cfg.Model.S3.Region = v
	}
	if v := os.Getenv("MODEL_S3_BUCKET"); v != "" {
		cfg.Model.S3.Bucket = v
	}
	if v := os.Getenv("MODEL_S3_KEY"); v != "" {
		cfg.Model.S3.Key = v
	}
	if v := os.Getenv("PREDICTION_LOG_DRIVER"); v != "" {
		cfg.PredictionLog.Driver = v
	}
	if v := os.Getenv("PREDICTION_LOG_CSV_PATH"); v != "" {
		cfg.PredictionLog.CSVPath = v
	}
	if v := os.Getenv("PREDICTION_LOG_POSTGRES_DSN"); v != "" {
		cfg.PredictionLog.Postgres.DSN = v
	}
	if v := os.Getenv("PREDICTION_LOG_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.PredictionLog.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("PREDICTION_LOG_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.PredictionLog.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("PRICING_CURRENCY"); v != "" {
		cfg.Pricing.Currency = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Model: ModelConfig{
			Source: "file",
			Path:   "models/flight_rf.json",
		},
		PredictionLog: PredictionLogConfig{
			Driver:  "csv",
			CSVPath: "flight_data.csv",
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     24 * time.Hour,
		},
		Pricing: PricingConfig{
			Currency: "INR",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch strings.ToLower(c.Model.Source) {
	case "file":
		if strings.TrimSpace(c.Model.Path) == "" {
			return errors.New("model.path cannot be empty when model.source is file")
		}
	case "s3":
		if strings.TrimSpace(c.Model.S3.Endpoint) == "" || strings.TrimSpace(c.Model.S3.Bucket) == "" || strings.TrimSpace(c.Model.S3.Key) == "" {
			return errors.New("model.s3.endpoint, bucket and key are required when model.source is s3")
		}
	default:
		return fmt.Errorf("model.source %q is not supported", c.Model.Source)
	}
	switch strings.ToLower(c.PredictionLog.Driver) {
	case "csv":
		if strings.TrimSpace(c.PredictionLog.CSVPath) == "" {
			return errors.New("predictionLog.csvPath cannot be empty when driver is csv")
		}
	case "postgres", "memory":
	default:
		return fmt.Errorf("predictionLog.driver %q is not supported", c.PredictionLog.Driver)
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr cannot be empty when cache is enabled")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if strings.TrimSpace(c.Pricing.Currency) == "" {
		return errors.New("pricing.currency cannot be empty")
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
