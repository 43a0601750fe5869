package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace for every gateway setting.
const EnvPrefix = "grocerlane"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv  = "GROCERLANE_APP_ENV"
	EnvAppPort = "GROCERLANE_APP_PORT"
)

type Config struct {
	App           AppConfig
	Upstream      UpstreamConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Session       SessionConfig
	Toast         ToastConfig
	Catalog       CatalogConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GROCERLANE_APP_ENV" required:"true"`
	Port         string `envconfig:"GROCERLANE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GROCERLANE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GROCERLANE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

const (
	// UpstreamModeHTTP talks to the remote catalog/order API over HTTP.
	UpstreamModeHTTP = "http"
	// UpstreamModeMemory serves from the seeded in-memory backend.
	UpstreamModeMemory = "memory"
)

type UpstreamConfig struct {
	Mode    string        `envconfig:"GROCERLANE_UPSTREAM_MODE" default:"http"`
	BaseURL string        `envconfig:"GROCERLANE_UPSTREAM_BASE_URL"`
	Timeout time.Duration `envconfig:"GROCERLANE_UPSTREAM_TIMEOUT" default:"10s"`
}

func (u UpstreamConfig) IsMemory() bool {
	return strings.EqualFold(u.Mode, UpstreamModeMemory)
}

func (u *UpstreamConfig) validate() error {
	mode := strings.ToLower(strings.TrimSpace(u.Mode))
	switch mode {
	case "", UpstreamModeHTTP:
		u.Mode = UpstreamModeHTTP
		if strings.TrimSpace(u.BaseURL) == "" {
			return fmt.Errorf("GROCERLANE_UPSTREAM_BASE_URL is required when upstream mode is %q", UpstreamModeHTTP)
		}
	case UpstreamModeMemory:
		u.Mode = UpstreamModeMemory
	default:
		return fmt.Errorf("unknown upstream mode %q", u.Mode)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"GROCERLANE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GROCERLANE_REDIS_ADDR"`
	Password     string        `envconfig:"GROCERLANE_REDIS_PASSWORD"`
	DB           int           `envconfig:"GROCERLANE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GROCERLANE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GROCERLANE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GROCERLANE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GROCERLANE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GROCERLANE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GROCERLANE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GROCERLANE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GROCERLANE_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the configured token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type SessionConfig struct {
	TTLMinutes int `envconfig:"GROCERLANE_SESSION_TTL_MINUTES" default:"720"`
}

// TTL returns the session record lifetime in redis.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type ToastConfig struct {
	TTL time.Duration `envconfig:"GROCERLANE_TOAST_TTL" default:"30s"`
}

type CatalogConfig struct {
	CacheTTL     time.Duration `envconfig:"GROCERLANE_CATALOG_CACHE_TTL" default:"30s"`
	PriceCeiling int64         `envconfig:"GROCERLANE_CATALOG_PRICE_CEILING" default:"10000"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GROCERLANE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GROCERLANE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GROCERLANE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GROCERLANE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GROCERLANE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GROCERLANE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"GROCERLANE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"GROCERLANE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"GROCERLANE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"GROCERLANE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"GROCERLANE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}
