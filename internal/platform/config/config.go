// Package config は環境変数からサービス設定を読み込みます。
package config

import (
	"encoding/base64"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"auth_backend/internal/feature/auth/domain"
	jwtmw "auth_backend/internal/platform/jwt"
)

const base64KeyPrefix = "base64:"

// Config holds every setting of the auth service.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// TrustedProxies は X-Forwarded-For を信頼するプロキシの IP / CIDR です。空なら接続元アドレスのみを使います。
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	JWT      JWTConfig
	DB       DBConfig
	Redis    RedisConfig
	Password PasswordConfig
	Login    LoginConfig
	Log      LogConfig
}

// JWTConfig はトークン署名の設定です。
type JWTConfig struct {
	Key        string `env:"JWT_KEY"`
	Issuer     string `env:"JWT_ISSUER"`
	Audience   string `env:"JWT_AUDIENCE"`
	TTLMinutes int    `env:"JWT_TTL_MINUTES"`
}

// DBConfig はデータベース接続の設定です。
type DBConfig struct {
	Driver        string `env:"DB_DRIVER" envDefault:"sqlite"`
	Host          string `env:"DB_HOST" envDefault:"localhost"`
	Port          string `env:"DB_PORT" envDefault:"5432"`
	User          string `env:"DB_USER"`
	Password      string `env:"DB_PASSWORD"`
	Name          string `env:"DB_NAME"`
	SSLMode       string `env:"DB_SSLMODE" envDefault:"disable"`
	Path          string `env:"DB_PATH" envDefault:"auth.db"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// RedisConfig is optional. An empty Host disables Redis.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// PasswordConfig selects the algorithm used for new password hashes.
type PasswordConfig struct {
	Algorithm  string `env:"PASSWORD_ALGORITHM" envDefault:"bcrypt"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"12"`
}

// LoginConfig はログインのレート制限設定です。
type LoginConfig struct {
	RateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	RateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load parses the environment and validates the result.
// JWT problems are reported as domain.ErrConfiguration so the service refuses to start.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse env: %w", domain.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that struct tags cannot express.
func (c Config) Validate() error {
	if _, err := c.JWTSettings(); err != nil {
		return err
	}
	if c.JWT.TTLMinutes <= 0 {
		return fmt.Errorf("%w: JWT_TTL_MINUTES must be a positive integer", domain.ErrConfiguration)
	}

	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			return fmt.Errorf("%w: DB_PATH is required for sqlite", domain.ErrConfiguration)
		}
	case "memory":
	case "postgres":
		if c.DB.User == "" || c.DB.Name == "" {
			return fmt.Errorf("%w: DB_USER and DB_NAME are required for postgres", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unsupported DB_DRIVER %q", domain.ErrConfiguration, c.DB.Driver)
	}

	switch c.Password.Algorithm {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("%w: unsupported PASSWORD_ALGORITHM %q", domain.ErrConfiguration, c.Password.Algorithm)
	}

	if c.Login.RateLimit <= 0 || c.Login.RateWindow <= 0 {
		return fmt.Errorf("%w: LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive", domain.ErrConfiguration)
	}

	for _, p := range c.TrustedProxies {
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			return fmt.Errorf("%w: TRUSTED_PROXIES entry %q is not an IP or CIDR", domain.ErrConfiguration, p)
		}
	}
	return nil
}

// JWTSettings decodes the signing key and returns issuer/validator settings.
func (c Config) JWTSettings() (jwtmw.Settings, error) {
	key, err := DecodeKey(c.JWT.Key)
	if err != nil {
		return jwtmw.Settings{}, err
	}
	s := jwtmw.Settings{
		Key:      key,
		Issuer:   c.JWT.Issuer,
		Audience: c.JWT.Audience,
		TTL:      time.Duration(c.JWT.TTLMinutes) * time.Minute,
	}
	if err := s.Validate(true); err != nil {
		return jwtmw.Settings{}, err
	}
	return s, nil
}

// DecodeKey returns the raw key bytes. Values prefixed with "base64:" are decoded.
func DecodeKey(value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: JWT_KEY is required", domain.ErrConfiguration)
	}
	encoded, ok := strings.CutPrefix(value, base64KeyPrefix)
	if !ok {
		return []byte(value), nil
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: JWT_KEY is not valid base64: %w", domain.ErrConfiguration, err)
	}
	return key, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
