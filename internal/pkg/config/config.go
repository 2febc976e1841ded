package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// SessionConfig covers session tokens and the in-memory registries. IdleTTL
// bounds how long an unused session or cart stays in memory; evicted
// sessions are hydrated again from durable storage.
type SessionConfig struct {
	Secret         string        `env:"SESSION_SECRET, required"`
	TTL            time.Duration `env:"SESSION_TTL,    default=720h"`
	PasswordPepper string        `env:"PASSWORD_PEPPER"`
	PersistWorkers int           `env:"PERSIST_WORKERS, default=4"`
	IdleTTL        time.Duration `env:"SESSION_IDLE_TTL,       default=2h"`
	SweepInterval  time.Duration `env:"SESSION_SWEEP_INTERVAL, default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=rental"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// ToolConfig is the subset of the environment the admin CLIs need. It does
// not require SESSION_SECRET.
type ToolConfig struct {
	LogLevel       string `env:"LOG_LEVEL, default=info"`
	PasswordPepper string `env:"PASSWORD_PEPPER"`

	Mongo MongoConfig
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// LoadTool reads the CLI configuration from environment variables.
func LoadTool(ctx context.Context) (*ToolConfig, error) {
	return process[ToolConfig](ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	return process[Config](ctx, lookuper)
}

func process[T any](ctx context.Context, lookuper envconfig.Lookuper) (*T, error) {
	var cfg T
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
