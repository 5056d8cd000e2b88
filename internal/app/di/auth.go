// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "auth_backend/internal/feature/auth/adapters"
	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/config"
	"auth_backend/internal/platform/password"
	"auth_backend/internal/platform/ratelimit"
)

const loginLimiterPrefix = "ratelimit:login"

// NewUserRepository creates a UserRepository implementation.
// With a database it returns the GORM store, otherwise an in-memory store.
func NewUserRepository(db *gorm.DB) usecase.UserRepository {
	if db != nil {
		return authadapters.NewUserGorm(db)
	}
	slog.Warn("no database configured, users are kept in memory")
	return authadapters.NewUserMemory()
}

// NewPasswordHasher returns a hasher producing new hashes with the configured algorithm.
func NewPasswordHasher(cfg config.PasswordConfig) (*password.Hasher, error) {
	var (
		primary password.Algorithm
		err     error
	)
	switch cfg.Algorithm {
	case "argon2id":
		primary, err = password.NewArgon2id(password.DefaultArgon2Config)
	case "bcrypt", "":
		primary, err = password.NewBcrypt(cfg.BcryptCost)
	default:
		err = fmt.Errorf("unsupported password algorithm %q", cfg.Algorithm)
	}
	if err != nil {
		return nil, err
	}
	return password.New(primary), nil
}

// NewLoginLimiter creates the login rate limiter.
// If Redis is available, it returns a Redis-backed implementation shared by all instances.
// Otherwise, it falls back to a per-process limiter.
func NewLoginLimiter(rdb *redis.Client, cfg config.LoginConfig) ratelimit.Limiter {
	if rdb != nil {
		return ratelimit.NewRedisLimiter(rdb, loginLimiterPrefix, cfg.RateLimit, cfg.RateWindow)
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)
}
