package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Bootstrap BootstrapConfig
	MintLimit MintRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CUSTODY_APP_ENV" required:"true"`
	Port         string `envconfig:"CUSTODY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CUSTODY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CUSTODY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type JWTConfig struct {
	Secret            string `envconfig:"CUSTODY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CUSTODY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CUSTODY_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type RedisConfig struct {
	URL          string        `envconfig:"CUSTODY_REDIS_URL"`
	Address      string        `envconfig:"CUSTODY_REDIS_ADDR"`
	Password     string        `envconfig:"CUSTODY_REDIS_PASSWORD"`
	DB           int           `envconfig:"CUSTODY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CUSTODY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CUSTODY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CUSTODY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CUSTODY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CUSTODY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// BootstrapConfig seeds the initial admin principal. Every other role and
// verification flag is granted at runtime by an admin.
type BootstrapConfig struct {
	AdminAddress string `envconfig:"CUSTODY_BOOTSTRAP_ADMIN" required:"true"`
}

type MintRateLimitConfig struct {
	Window  time.Duration `envconfig:"CUSTODY_MINT_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"CUSTODY_MINT_RATE_LIMIT_IP_LIMIT" default:"10"`
}
