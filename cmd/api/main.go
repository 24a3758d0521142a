// @title           EstateHub Listings API
// @version         1.0
// @description     REST API for browsing and managing real-estate property listings.
// @BasePath        /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/estatehub/listings-api/docs"
	"github.com/estatehub/listings-api/internal/api"
	mongodb "github.com/estatehub/listings-api/internal/infrastructure/db/mongo"
	redisdb "github.com/estatehub/listings-api/internal/infrastructure/db/redis"
	"github.com/estatehub/listings-api/internal/infrastructure/queue"
	"github.com/estatehub/listings-api/internal/infrastructure/storage"
	"github.com/estatehub/listings-api/internal/pkg/config"
	"github.com/estatehub/listings-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	adminRepo := mongodb.NewAdminRepository(db)
	if err := adminRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create admin indexes")
	}
	propertyRepo := mongodb.NewPropertyRepository(db)
	if err := propertyRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create property indexes")
	}

	// --- Redis (optional: view counters only) ---
	var rdb *redis.Client
	rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, view counters disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// --- Upload storage and thumbnail workers ---
	images, err := storage.NewDiskStore(cfg.UploadDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise upload storage")
	}

	thumbs := queue.NewDispatcher(cfg.ThumbnailWorkers, cfg.UploadDir, log)
	thumbs.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(cfg, db, rdb, images, thumbs, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
