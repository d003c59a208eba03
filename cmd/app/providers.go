package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/flight-fare/internal/domain/fare"
	"github.com/yanqian/flight-fare/internal/infra/config"
	"github.com/yanqian/flight-fare/internal/infra/farecache"
	"github.com/yanqian/flight-fare/internal/infra/model/source"
	"github.com/yanqian/flight-fare/internal/infra/predictionlog"
)

const modelLoadTimeout = 30 * time.Second

func provideFareConfig(cfg *config.Config) fare.Config {
	return fare.Config{
		Currency: cfg.Pricing.Currency,
		CacheTTL: cfg.Cache.TTL,
	}
}

func provideModelSource(cfg *config.Config) (source.Source, error) {
	if strings.EqualFold(cfg.Model.Source, "s3") {
		return source.NewObjectSource(source.S3Config{
			Endpoint:  cfg.Model.S3.Endpoint,
			AccessKey: cfg.Model.S3.AccessKey,
			SecretKey: cfg.Model.S3.SecretKey,
			Region:    cfg.Model.S3.Region,
			Bucket:    cfg.Model.S3.Bucket,
			Key:       cfg.Model.S3.Key,
		})
	}
	return source.NewFileSource(cfg.Model.Path), nil
}

// provideRegressor loads the model once at start-up. A missing or invalid
// artefact stops the process; quotes cannot be served without it.
func provideRegressor(src source.Source, logger *slog.Logger) (fare.Regressor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), modelLoadTimeout)
	defer cancel()
	model, err := source.Load(ctx, src, logger.With("component", "model.loader"))
	if err != nil {
		return nil, err
	}
	return model, nil
}

func providePredictionLog(cfg *config.Config, logger *slog.Logger) (fare.PredictionLog, func(), error) {
	noop := func() {}
	switch strings.ToLower(cfg.PredictionLog.Driver) {
	case "memory":
		logger.Info("prediction log kept in memory")
		return predictionlog.NewMemoryLog(), noop, nil
	case "postgres":
		return providePostgresLog(cfg, logger)
	default:
		csvLog, err := predictionlog.NewCSVLog(cfg.PredictionLog.CSVPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("prediction log writing csv", "path", cfg.PredictionLog.CSVPath)
		return csvLog, noop, nil
	}
}

func providePostgresLog(cfg *config.Config, logger *slog.Logger) (fare.PredictionLog, func(), error) {
	noop := func() {}
	fallback := predictionlog.NewMemoryLog()
	dsn := strings.TrimSpace(cfg.PredictionLog.Postgres.DSN)
	if dsn == "" {
		logger.Info("prediction log postgres dsn not set, using memory log")
		return fallback, noop, nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory log", "error", err)
		return fallback, noop, nil
	}
	if cfg.PredictionLog.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.PredictionLog.Postgres.MaxConns
	}
	if cfg.PredictionLog.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.PredictionLog.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory log", "error", err)
		return fallback, noop, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory log", "error", err)
		pool.Close()
		return fallback, noop, nil
	}
	pgLog := predictionlog.NewPostgresLog(pool)
	if err := pgLog.EnsureSchema(ctx); err != nil {
		logger.Error("prediction schema migration failed, using memory log", "error", err)
		pool.Close()
		return fallback, noop, nil
	}
	logger.Info("prediction log postgres enabled")
	return pgLog, pool.Close, nil
}

func providePriceCache(cfg *config.Config, logger *slog.Logger) (fare.PriceCache, func()) {
	noop := func() {}
	if !cfg.Cache.Enabled {
		return nil, noop
	}
	opt, err := buildValkeyOptions(cfg.Cache.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return farecache.NewMemoryCache(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return farecache.NewMemoryCache(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return farecache.NewMemoryCache(), noop
	}
	logger.Info("price cache valkey enabled", "addr", cfg.Cache.Addr)
	return farecache.NewValkeyCache(client, "fare"), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
