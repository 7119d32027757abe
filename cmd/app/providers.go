package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/aquasutra/internal/domain/advisor"
	"github.com/yanqian/aquasutra/internal/domain/auth"
	"github.com/yanqian/aquasutra/internal/domain/catalog"
	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/watercost"
	"github.com/yanqian/aquasutra/internal/infra/catalogfile"
	"github.com/yanqian/aquasutra/internal/infra/config"
	gwinfra "github.com/yanqian/aquasutra/internal/infra/groundwater"
	"github.com/yanqian/aquasutra/internal/infra/market/agmarknet"
	"github.com/yanqian/aquasutra/internal/infra/pincode"
	"github.com/yanqian/aquasutra/internal/infra/pricecache"
	"github.com/yanqian/aquasutra/pkg/metrics"
)

func provideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func provideMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func provideCatalog(cfg *config.Config, logger *slog.Logger) (catalog.Catalog, error) {
	cat, err := catalogfile.Load(cfg.Catalog.Path)
	if err != nil {
		return catalog.Catalog{}, err
	}
	logger.Info("crop catalog loaded", "crops", cat.Len(), "path", cfg.Catalog.Path)
	return cat, nil
}

func provideEngineConfig(cfg *config.Config) advisor.Config {
	pump, _ := watercost.ParsePumpType(cfg.Engine.PumpType)
	return advisor.Config{
		SeasonalRainfallMm:      cfg.Engine.SeasonalRainfallMm,
		DefaultWaterTableDepthM: cfg.Engine.DefaultWaterTableDepthM,
		DefaultRegion:           cfg.Market.DefaultRegion,
		ProfitTieBand:           cfg.Engine.ProfitTieBand,
		PumpType:                pump,
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret: cfg.HTTP.Auth.JWTSecret,
		Issuer: cfg.HTTP.Auth.Issuer,
	}
}

// providePostgresPool returns nil when no DSN is set or the database is unreachable.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using built-in reference data")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using built-in reference data", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using built-in reference data", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using built-in reference data", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres reference data enabled")
	return pool
}

func provideLocationDirectory(pool *pgxpool.Pool, logger *slog.Logger) *pincode.Directory {
	var repo pincode.Repository
	if pool != nil {
		repo = pincode.NewPostgresDirectory(pool)
	}
	return pincode.NewDirectory(pincode.DefaultRecords(), repo, logger)
}

func provideGroundwaterSource(cfg *config.Config, pool *pgxpool.Pool, m *metrics.Metrics, logger *slog.Logger) *gwinfra.Source {
	var client *gwinfra.Client
	if base := strings.TrimSpace(cfg.Groundwater.APIBaseURL); base != "" {
		client = gwinfra.NewClient(base, cfg.Groundwater.Timeout)
	} else {
		logger.Info("groundwater api not configured, using regional estimates")
	}
	var repo gwinfra.BlockRepository
	if pool != nil {
		repo = gwinfra.NewPostgresBlockRepository(pool)
	}
	return gwinfra.NewSource(client, repo, gwinfra.DefaultBlocks(), cfg.Groundwater.CacheSize, m, logger)
}

func providePriceStore(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) pricecache.Store {
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return pricecache.NewMemoryStore(clock)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return pricecache.NewMemoryStore(clock)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("price snapshot valkey store enabled", "addr", cfg.Cache.Valkey.Addr)
			return pricecache.NewValkeyStore(client, "prices")
		}
	}
	return pricecache.NewMemoryStore(clock)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Cache.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}, nil
}

// provideMarketSource returns nil without an API key so the resolver serves catalog baselines.
func provideMarketSource(cfg *config.Config, store pricecache.Store, clock clockwork.Clock, m *metrics.Metrics, logger *slog.Logger) market.Source {
	if strings.TrimSpace(cfg.Market.APIKey) == "" {
		logger.Info("agmarknet api key not set, using catalog baseline prices")
		return nil
	}
	client := agmarknet.NewClient(agmarknet.Config{
		BaseURL:    cfg.Market.APIBaseURL,
		APIKey:     cfg.Market.APIKey,
		ResourceID: cfg.Market.ResourceID,
		Timeout:    cfg.Market.Timeout,
		Recorder:   m,
	})
	return pricecache.NewCachedSource(client, store, cfg.Market.CacheTTL, clock, m, logger)
}

func provideEngine(cfg advisor.Config, cat catalog.Catalog, prices *market.Resolver, locations *pincode.Directory, groundwater *gwinfra.Source) *advisor.Engine {
	return advisor.NewEngine(cfg, cat, prices, locations, groundwater)
}
