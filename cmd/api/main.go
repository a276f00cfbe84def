package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/soundhub/user-service/docs"
	"github.com/soundhub/user-service/internal/api"
	"github.com/soundhub/user-service/internal/api/handler"
	"github.com/soundhub/user-service/internal/core/service"
	"github.com/soundhub/user-service/internal/infrastructure/config"
	"github.com/soundhub/user-service/internal/infrastructure/db/mongo"
	"github.com/soundhub/user-service/internal/infrastructure/db/redis"
	"github.com/soundhub/user-service/pkg/logger"
)

// @title                       SoundHub User Service API
// @version                     1.0
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// 2. Initialize structured logger
	l := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-service",
	})

	// 3. MongoDB
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			l.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()
	l.Info().Str("db", cfg.Mongo.Database).Msg("mongodb connected")

	accountRepo := mongo.NewAccountRepository(db)
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		l.Fatal().Err(err).Msg("failed to ensure account indexes")
	}

	// 4. Redis
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()
	l.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// 5. Services
	store := service.NewAccountStore(accountRepo, mongo.NewArtistRepository(db), l.With().Str("component", "account_store").Logger())
	replay := redis.NewReplayStore(rdb, "register", cfg.Redis.IdempotencyTTL)
	auth := service.NewAuthService(store, replay, l.With().Str("component", "auth").Logger(), cfg.JWTSecret, cfg.TokenTTL)
	profiles := service.NewProfileService(store, l.With().Str("component", "profile").Logger())

	// 6. HTTP
	e := api.NewRouter(api.Deps{
		Accounts:  store,
		Profiles:  profiles,
		Auth:      auth,
		Readiness: handler.NewHealthDependenciesHandler(db, rdb),
		JWTSecret: cfg.JWTSecret,
		Log:       l,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		l.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	l.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("http server shutdown")
	}
}
