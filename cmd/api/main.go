package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pairlink/pairlink-go/internal/config"
	"github.com/pairlink/pairlink-go/internal/handler"
	"github.com/pairlink/pairlink-go/internal/logger"
	"github.com/pairlink/pairlink-go/internal/middleware"
	"github.com/pairlink/pairlink-go/internal/repository"
	"github.com/pairlink/pairlink-go/internal/repository/memstore"
	redisrepo "github.com/pairlink/pairlink-go/internal/repository/redis"
	"github.com/pairlink/pairlink-go/internal/service"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	if envErr != nil {
		logr.Debug("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeStore, err := buildServices(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("init storage", zap.Error(err))
	}
	defer closeStore()

	limiter, closeLimiter := buildAuthLimiter(ctx, cfg, logr)
	defer closeLimiter()

	router := handler.NewRouter(svc, handler.RouterOptions{
		AuthLimiter: limiter,
		CORSOrigins: cfg.CORSOrigins,
	}, logr)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logr.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.Storage),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced shutdown", zap.Error(err))
		return
	}

	logr.Info("server stopped")
}

func buildServices(ctx context.Context, cfg config.Config, logr *zap.Logger) (handler.Services, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logr.Warn("using in-memory storage, data is lost on restart")
		store := memstore.New()
		return newServices(cfg, store.Users(), store.Profiles(), store.Matches(), store.Messages()), func() {}, nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return handler.Services{}, nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return handler.Services{}, nil, err
	}

	svc := newServices(cfg,
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		repository.NewMatchRepository(db),
		repository.NewMessageRepository(db),
	)
	return svc, closeDB(db, logr), nil
}

func newServices(cfg config.Config, users service.UserStore, profiles service.ProfileStore, matches service.MatchStore, messages service.MessageStore) handler.Services {
	return handler.Services{
		Auth:     service.NewAuthService(users, profiles, cfg.Auth.JWTSecret, service.TokenExpiry),
		Profiles: service.NewProfileService(profiles),
		Matches:  service.NewMatchService(matches),
		Messages: service.NewMessageService(messages),
	}
}

func closeDB(db *sql.DB, logr *zap.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logr.Warn("close database", zap.Error(err))
		}
	}
}

// buildAuthLimiter prefers the shared Redis limiter and falls back to the
// in-process one when Redis is not configured or unreachable.
func buildAuthLimiter(ctx context.Context, cfg config.Config, logr *zap.Logger) (func(http.Handler) http.Handler, func()) {
	local := middleware.RateLimit(cfg.Auth.RateRPS, cfg.Auth.RateBurst)
	if cfg.Redis.Addr == "" {
		return local, func() {}
	}

	client, err := redisrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logr.Warn("redis unavailable, using in-process rate limiter", zap.Error(err))
		return local, func() {}
	}

	// burst requests per window, the same long-run rate as the token bucket
	window := time.Duration(float64(cfg.Auth.RateBurst) / cfg.Auth.RateRPS * float64(time.Second))
	limiter := middleware.SharedRateLimit(redisrepo.NewRateRepo(client), "rl:auth", cfg.Auth.RateBurst, window, logr)

	return limiter, func() {
		if err := client.Close(); err != nil {
			logr.Warn("close redis", zap.Error(err))
		}
	}
}
