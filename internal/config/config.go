package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/joho/godotenv"
)

var ErrMissingSignKey = errors.New("config: SIGN_KEY is required")

type Config struct {
	IsDev     bool
	Addr      string
	Port      string
	DBPath    string
	SignKey   []byte
	TokenTTL  time.Duration
	TokenAuth *jwtauth.JWTAuth
	AdminUser string
	AdminPass string
	SentryDSN string
	LogLevel  slog.Level
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		IsDev:     getenv("GO_ENV") == "development",
		Addr:      getenv("SERVER_ADDR"),
		Port:      fmt.Sprintf(":%s", orDefault(getenv("SERVER_PORT"), "8080")),
		DBPath:    orDefault(getenv("DB_PATH"), "./db.sqlite"),
		SignKey:   []byte(getenv("SIGN_KEY")),
		AdminUser: getenv("ADMIN_USER"),
		AdminPass: getenv("ADMIN_PASS"),
		SentryDSN: getenv("SENTRY_DSN"),
	}

	if len(cfg.SignKey) == 0 {
		return nil, ErrMissingSignKey
	}

	ttl, err := time.ParseDuration(orDefault(getenv("TOKEN_TTL"), "24h"))
	if err != nil {
		return nil, fmt.Errorf("config: parse TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("config: TOKEN_TTL must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	if err := cfg.LogLevel.UnmarshalText([]byte(orDefault(getenv("LOG_LEVEL"), "info"))); err != nil {
		return nil, fmt.Errorf("config: parse LOG_LEVEL: %w", err)
	}

	cfg.TokenAuth = jwtauth.New("HS256", cfg.SignKey, nil)
	return cfg, nil
}

// ListenAddr is the address passed to http.Server.
func (c *Config) ListenAddr() string {
	return c.Addr + c.Port
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
