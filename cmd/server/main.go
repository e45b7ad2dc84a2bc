package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecostation/monitoring-console/internal/api"
	"github.com/ecostation/monitoring-console/internal/api/console"
	"github.com/ecostation/monitoring-console/internal/core/ports"
	"github.com/ecostation/monitoring-console/internal/core/service"
	"github.com/ecostation/monitoring-console/internal/infrastructure/auth"
	mongodb "github.com/ecostation/monitoring-console/internal/infrastructure/db/mongo"
	redisdb "github.com/ecostation/monitoring-console/internal/infrastructure/db/redis"
	"github.com/ecostation/monitoring-console/internal/infrastructure/queue"
	"github.com/ecostation/monitoring-console/internal/pkg/config"
	"github.com/ecostation/monitoring-console/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "monitoring-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Backing stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	profileRepo := mongodb.NewProfileRepository(db)
	accountRepo := mongodb.NewAccountRepository(db)
	classificationRepo := mongodb.NewClassificationRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb)

	// --- Auth provider + console registry ---
	provider := auth.NewProvider(accountRepo, profileRepo, sessionStore, auth.Options{
		JWTSecret:                cfg.Auth.JWTSecret,
		SessionTTL:               cfg.Auth.SessionTTL,
		TokenRefreshInterval:     cfg.Auth.TokenRefreshInterval,
		RequireEmailConfirmation: cfg.Auth.RequireEmailConfirmation,
		Logger:                   log,
	})

	profileSync := service.NewProfileSync(profileRepo, log)
	registry := console.NewRegistry(
		func(consoleID string) ports.AuthClient { return provider.NewClient(consoleID) },
		profileSync,
		console.Options{
			SeedAdminEmail:      cfg.Auth.SeedAdminEmail,
			SessionCheckTimeout: cfg.Console.SessionCheckTimeout,
			IdleTTL:             cfg.Console.IdleTTL,
			Logger:              log,
		},
	)
	go registry.Run(ctx)

	// --- Ingest pipeline ---
	dedup := redisdb.NewDedupChecker(rdb)
	ingest := service.NewIngestService(classificationRepo, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.Station.IngestWorkers, ingest, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Config:          cfg,
		Log:             log,
		Mongo:           db,
		Redis:           rdb,
		Registry:        registry,
		Profiles:        profileRepo,
		Classifications: classificationRepo,
		Dispatcher:      dispatcher,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("monitoring console listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	registry.Close()
}
