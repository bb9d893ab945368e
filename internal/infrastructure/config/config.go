package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	SessionTTL      time.Duration `env:"SESSION_TTL,          default=24h"`
	IdentityPolicy  string        `env:"IDENTITY_POLICY,      default=fail-closed"`
	RedirectDelay   time.Duration `env:"REDIRECT_DELAY,       default=0s"`
	LoginRatePerMin int           `env:"LOGIN_RATE_PER_MIN,   default=30"`
	LoginBurst      int           `env:"LOGIN_BURST,          default=10"`
	LockoutAttempts int           `env:"LOCKOUT_MAX_ATTEMPTS, default=0"`
	LockoutDuration time.Duration `env:"LOCKOUT_DURATION,     default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=gatekeeper"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// RabbitMQConfig is optional. When URL is empty audit events go to the log.
type RabbitMQConfig struct {
	URL          string `env:"RABBITMQ_URL"`
	AuditQueue   string `env:"AUDIT_QUEUE,   default=gatekeeper.audit"`
	AuditWorkers int    `env:"AUDIT_WORKERS, default=4"`
}

// Load reads a .env file when one is present, then processes the environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper processes configuration from an arbitrary source.
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.Auth.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 bytes in production")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.Auth.LockoutAttempts < 0 {
		return errors.New("config: LOCKOUT_MAX_ATTEMPTS cannot be negative")
	}
	return nil
}
