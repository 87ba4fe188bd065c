package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "STITCHMARKET"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Gateway      GatewayConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DB.DSN == "" && !cfg.FeatureFlags.UseSQLite {
		return nil, fmt.Errorf("STITCHMARKET_DB_DSN is required")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STITCHMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"STITCHMARKET_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STITCHMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STITCHMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STITCHMARKET_DB_DSN"`
	Driver string `envconfig:"STITCHMARKET_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"STITCHMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STITCHMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STITCHMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STITCHMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STITCHMARKET_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"STITCHMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STITCHMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STITCHMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STITCHMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STITCHMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STITCHMARKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STITCHMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STITCHMARKET_JWT_EXPIRATION_MINUTES" default:"60"`
}

// GatewayConfig describes the remote payment provider integration.
type GatewayConfig struct {
	BaseURL        string        `envconfig:"STITCHMARKET_GATEWAY_BASE_URL" required:"true"`
	StoreID        string        `envconfig:"STITCHMARKET_GATEWAY_STORE_ID" required:"true"`
	SigningSecret  string        `envconfig:"STITCHMARKET_GATEWAY_SIGNING_SECRET" required:"true"`
	RequestTimeout time.Duration `envconfig:"STITCHMARKET_GATEWAY_REQUEST_TIMEOUT" default:"10s"`
	IdempotencyTTL time.Duration `envconfig:"STITCHMARKET_GATEWAY_IDEMPOTENCY_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STITCHMARKET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STITCHMARKET_AUTO_MIGRATE" default:"false"`
}
