package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	MySQL     MySQLConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type MySQLConfig struct {
	DSN             string        `env:"MYSQL_DSN, default=user:password@tcp(localhost:3306)/accounts?charset=utf8mb4&parseTime=True&loc=Local"`
	MaxOpenConns    int           `env:"MYSQL_MAX_OPEN_CONNS,    default=10"`
	MaxIdleConns    int           `env:"MYSQL_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"MYSQL_CONN_MAX_LIFETIME, default=30m"`
	// QueryTimeout bounds how long a call waits for a pooled connection plus
	// the query itself.
	QueryTimeout time.Duration `env:"MYSQL_QUERY_TIMEOUT, default=5s"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	LoginWindow time.Duration `env:"RATE_LOGIN_WINDOW, default=15m"`
	LoginMax    int           `env:"RATE_LOGIN_MAX,    default=5"`
	APIWindow   time.Duration `env:"RATE_API_WINDOW,   default=1m"`
	APIMax      int           `env:"RATE_API_MAX,      default=100"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
