package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"auth_backend/internal/app/di"
	"auth_backend/internal/app/router"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	authusecase "auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/config"
	platformdb "auth_backend/internal/platform/db"
	jwtmw "auth_backend/internal/platform/jwt"
	"auth_backend/internal/platform/logging"
	platformredis "auth_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 設定不備（JWT鍵など）はリスナーを開く前に終了させる
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	jwtSettings, err := cfg.JWTSettings()
	if err != nil {
		return err
	}
	issuer, err := jwtmw.NewIssuer(jwtSettings)
	if err != nil {
		return err
	}
	validator, err := jwtmw.NewValidator(jwtSettings)
	if err != nil {
		return err
	}

	// db
	var db *gorm.DB
	if cfg.DB.Driver != platformdb.DriverMemory {
		db, err = platformdb.Open(ctx, cfg.DB)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer func() { _ = sqlDB.Close() }()
		}
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Login rate limiting is per instance.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	hasher, err := di.NewPasswordHasher(cfg.Password)
	if err != nil {
		return err
	}

	// Repository / Usecase / Handler
	userRepo := di.NewUserRepository(db)
	authUC := authusecase.NewAuthUsecase(userRepo, hasher, issuer, logger)
	authH := authhandler.NewAuthHandler(authUC)

	r, err := router.NewRouter(router.Deps{
		Auth:         authH,
		Validator:    validator,
		LoginLimiter: di.NewLoginLimiter(rdb, cfg.Login),
		Ready: func(ctx context.Context) error {
			if db == nil {
				return nil
			}
			return platformdb.Ping(ctx, db)
		},
		Logger:         logger,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
