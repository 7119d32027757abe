package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/aquasutra/internal/domain/watercost"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Market      MarketConfig      `yaml:"market"`
	Cache       CacheConfig       `yaml:"cache"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Groundwater GroundwaterConfig `yaml:"groundwater"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Engine      EngineConfig      `yaml:"engine"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
	CORS         CORSConfig      `yaml:"cors"`
	Auth         AuthConfig      `yaml:"auth"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// AuthConfig enables HS256 bearer tokens for partner apps. Empty secret disables auth.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
}

// MarketConfig points at the Agmarknet mandi price feed.
type MarketConfig struct {
	APIBaseURL    string        `yaml:"apiBaseUrl"`
	APIKey        string        `yaml:"apiKey"`
	ResourceID    string        `yaml:"resourceId"`
	Timeout       time.Duration `yaml:"timeout"`
	CacheTTL      time.Duration `yaml:"cacheTtl"`
	DefaultRegion string        `yaml:"defaultRegion"`
}

// CacheConfig selects the price snapshot store.
type CacheConfig struct {
	Valkey ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// GroundwaterConfig points at the groundwater level service.
type GroundwaterConfig struct {
	APIBaseURL string        `yaml:"apiBaseUrl"`
	Timeout    time.Duration `yaml:"timeout"`
	CacheSize  int           `yaml:"cacheSize"`
}

// CatalogConfig optionally replaces the built-in crop catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// EngineConfig tunes the recommendation engine.
type EngineConfig struct {
	SeasonalRainfallMm      float64 `yaml:"seasonalRainfallMm"`
	DefaultWaterTableDepthM float64 `yaml:"defaultWaterTableDepthM"`
	ProfitTieBand           float64 `yaml:"profitTieBand"`
	PumpType                string  `yaml:"pumpType"`
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
	if v := os.Getenv("HTTP_CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_JWT_SECRET"); v != "" {
		cfg.HTTP.Auth.JWTSecret = v
	}
	if v := os.Getenv("HTTP_JWT_ISSUER"); v != "" {
		cfg.HTTP.Auth.Issuer = v
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
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("MARKET_API_BASE_URL"); v != "" {
		cfg.Market.APIBaseURL = v
	}
	if v := os.Getenv("MARKET_API_KEY"); v != "" {
		cfg.Market.APIKey = v
	}
	if v := os.Getenv("MARKET_RESOURCE_ID"); v != "" {
		cfg.Market.ResourceID = v
	}
	if v := os.Getenv("MARKET_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Market.Timeout = parsed
		}
	}
	if v := os.Getenv("MARKET_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Market.CacheTTL = parsed
		}
	}
	if v := os.Getenv("MARKET_DEFAULT_REGION"); v != "" {
		cfg.Market.DefaultRegion = v
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("GROUNDWATER_API_BASE_URL"); v != "" {
		cfg.Groundwater.APIBaseURL = v
	}
	if v := os.Getenv("GROUNDWATER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Groundwater.Timeout = parsed
		}
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("ENGINE_SEASONAL_RAINFALL_MM"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.SeasonalRainfallMm = parsed
		}
	}
	if v := os.Getenv("ENGINE_PROFIT_TIE_BAND"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.ProfitTieBand = parsed
		}
	}
	if v := os.Getenv("ENGINE_PUMP_TYPE"); v != "" {
		cfg.Engine.PumpType = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/metrics",
				},
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			},
		},
		Market: MarketConfig{
			APIBaseURL:    "https://api.data.gov.in/resource",
			ResourceID:    "9ef84268-d588-465a-a308-a864a43d0070",
			Timeout:       8 * time.Second,
			CacheTTL:      6 * time.Hour,
			DefaultRegion: "Uttar Pradesh",
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Groundwater: GroundwaterConfig{
			Timeout:   3 * time.Second,
			CacheSize: 512,
		},
		Engine: EngineConfig{
			SeasonalRainfallMm:      500,
			DefaultWaterTableDepthM: watercost.DefaultWaterTableDepthM,
			ProfitTieBand:           10,
			PumpType:                string(watercost.Electric),
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
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.Market.CacheTTL < 0 {
		return errors.New("market.cacheTtl cannot be negative")
	}
	if c.Market.Timeout <= 0 {
		return errors.New("market.timeout must be positive")
	}
	if strings.TrimSpace(c.Market.APIKey) != "" && strings.TrimSpace(c.Market.ResourceID) == "" {
		return errors.New("market.resourceId cannot be empty when an api key is set")
	}
	if strings.TrimSpace(c.Market.DefaultRegion) == "" {
		return errors.New("market.defaultRegion cannot be empty")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	if c.Postgres.MinConns < 0 || c.Postgres.MaxConns < 0 {
		return errors.New("postgres connection limits cannot be negative")
	}
	if c.Groundwater.Timeout <= 0 {
		return errors.New("groundwater.timeout must be positive")
	}
	if c.Groundwater.CacheSize < 0 {
		return errors.New("groundwater.cacheSize cannot be negative")
	}
	if c.Engine.SeasonalRainfallMm < 0 {
		return errors.New("engine.seasonalRainfallMm cannot be negative")
	}
	if c.Engine.DefaultWaterTableDepthM <= 0 {
		return errors.New("engine.defaultWaterTableDepthM must be positive")
	}
	if c.Engine.ProfitTieBand < 0 {
		return errors.New("engine.profitTieBand cannot be negative")
	}
	if _, ok := watercost.ParsePumpType(c.Engine.PumpType); !ok {
		return fmt.Errorf("engine.pumpType %q is not one of ELECTRIC, DIESEL, HYBRID, SOLAR", c.Engine.PumpType)
	}
	return nil
}
