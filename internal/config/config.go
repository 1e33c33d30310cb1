package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"4000"`
	Env        string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"simpleblog.db"`
	MySQLDSN   string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"`
	ResetDB    bool   `env:"RESET_DB"`

	// RedisAddr left empty disables caching.
	RedisAddr string `env:"REDIS_ADDR"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret     string        `env:"JWT_SECRET"`
	SessionCookie string        `env:"SESSION_COOKIE" envDefault:"simpleblog_session"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`

	CronSecret    string `env:"CRON_SECRET"`
	CronTargetURL string `env:"CRON_TARGET_URL"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load reads an optional .env file and builds Config from the environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no safe default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// Production reports whether cookies must carry the Secure flag.
func (c *Config) Production() bool {
	return c.Env == "production"
}
