package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
)

// SQL drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the process configuration read from the environment
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`

	// RevealSalt adds the salt to revealed rolls so anyone can check the hash
	RevealSalt bool `env:"REVEAL_SALT" envDefault:"false"`

	// TrustProxy reads the client address from X-Forwarded-For and X-Real-IP
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	Redis     RedisConfig     `envPrefix:"REDIS_"`
	SQL       SQLConfig       `envPrefix:"SQL_"`
	AMQP      AMQPConfig      `envPrefix:"AMQP_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Discord   DiscordConfig
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type SQLConfig struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"file:sealedroll.db"`
}

// AMQPConfig enables event publishing when URL is set
type AMQPConfig struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"sealedroll.events"`
}

// RateLimitConfig applies to roll creation and needs the redis backend
type RateLimitConfig struct {
	Enabled        bool          `env:"ENABLED" envDefault:"true"`
	Capacity       int           `env:"CAPACITY" envDefault:"20"`
	RefillTokens   int           `env:"REFILL_TOKENS" envDefault:"1"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"3s"`
	TTL            time.Duration `env:"TTL" envDefault:"10m"`
}

type DiscordConfig struct {
	Token         string `env:"DISCORD_TOKEN"`
	ApplicationID string `env:"APPLICATION_ID"`
	GuildID       string `env:"GUILD_ID"`
}

// Load reads .env files if present, then the environment
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis:
	case BackendSQL:
		if c.SQL.Driver != DriverSQLite && c.SQL.Driver != DriverPostgres {
			return fmt.Errorf("unsupported SQL_DRIVER %q", c.SQL.Driver)
		}
		if c.SQL.DSN == "" {
			return errors.New("SQL_DSN cannot be empty")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// RateLimited reports whether roll creation should be throttled
func (c *Config) RateLimited() bool {
	return c.RateLimit.Enabled && c.StoreBackend == BackendRedis
}
