package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/matchday-engine/config"
	"github.com/Dosada05/matchday-engine/db"
	"github.com/Dosada05/matchday-engine/handlers"
	"github.com/Dosada05/matchday-engine/realtime"
	"github.com/Dosada05/matchday-engine/repositories"
	api "github.com/Dosada05/matchday-engine/routes"
	"github.com/Dosada05/matchday-engine/services"
	"github.com/Dosada05/matchday-engine/storage"
	"github.com/Dosada05/matchday-engine/telemetry"
)

// @title Matchday Engine API
// @version 1.0
// @description Stage progression, matchday bookkeeping and live match events for save games.
// @BasePath /api
func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	level.Set(cfg.Level())
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("db_driver", cfg.DBDriver),
		slog.Bool("redis_relay", cfg.RedisURL != ""),
		slog.Bool("archive", cfg.Archive.Enabled()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "matchday-engine", cfg.OTelEndpoint)
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	dbConn, err := db.Connect(cfg.Dialect(), cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if err := db.Migrate(ctx, dbConn, cfg.Dialect()); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	hubOpts := realtime.HubOptions{}
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", slog.Any("error", err))
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		hubOpts.Broker = realtime.NewRedisRelay(redisClient, cfg.RedisChannel, logger)
	}

	hub := realtime.NewHub(logger, hubOpts)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		if err := hub.Run(ctx); err != nil {
			logger.Error("websocket hub failed", slog.Any("error", err))
		}
	}()

	txRunner := repositories.NewTxRunner(dbConn, cfg.Dialect())
	gameStateRepo := repositories.NewGameStateRepository(dbConn, cfg.Dialect())
	matchdayRepo := repositories.NewMatchdayRepository(dbConn, cfg.Dialect())
	matchRepo := repositories.NewMatchRepository(dbConn, cfg.Dialect())
	matchEventRepo := repositories.NewMatchEventRepository(dbConn, cfg.Dialect())
	teamRepo := repositories.NewTeamRepository(dbConn, cfg.Dialect())
	archiveRepo := repositories.NewArchiveRepository(dbConn, cfg.Dialect())

	matchdayService := services.NewMatchdayService(txRunner, matchdayRepo, cfg.EnsureMaxAttempts, logger)
	stageService := services.NewStageService(txRunner, gameStateRepo, matchdayService, cfg.EnsureMaxAttempts, logger)
	eventService := services.NewEventService(matchdayRepo, matchRepo, matchEventRepo, teamRepo, hub, cfg.MatchLength, logger)

	if cfg.Archive.Enabled() {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:        cfg.Archive.Endpoint,
			Region:          cfg.Archive.Region,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			BucketName:      cfg.Archive.Bucket,
			PublicBaseURL:   cfg.Archive.PublicBaseURL,
			UsePathStyle:    cfg.Archive.UsePathStyle,
		})
		if err != nil {
			logger.Error("failed to initialize archive store", slog.Any("error", err))
			os.Exit(1)
		}
		archiveService := services.NewArchiveService(archiveRepo, eventService, store, logger)
		if err := archiveService.Start(ctx, cfg.Archive.Interval); err != nil {
			logger.Error("failed to start archive scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := archiveService.Shutdown(); err != nil {
				logger.Error("archive scheduler shutdown failed", slog.Any("error", err))
			}
		}()
	}

	gameHandler := handlers.NewGameHandler(stageService, matchdayService, hub, logger)
	matchEventHandler := handlers.NewMatchEventHandler(eventService, stageService, cfg.MatchLength)
	webSocketHandler := handlers.NewWebSocketHandler(hub, cfg.CORSOrigins, logger)
	healthHandler := handlers.NewHealthHandler(dbConn)

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg.CORSOrigins, gameHandler, matchEventHandler, webSocketHandler, healthHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}

	stop()
	<-hubDone
	logger.Info("application exited")
}
