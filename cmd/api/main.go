// Copyright (c) 2026 Satori HQ. All rights reserved.

// Command api is the entry point for the Satori series registry HTTP API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Initialize the registry record and wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/satori-hq/nft-series/internal/api"
	"github.com/satori-hq/nft-series/internal/core/registry"
	"github.com/satori-hq/nft-series/internal/core/royalty"
	"github.com/satori-hq/nft-series/internal/core/series"
	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/config"
	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/deposit"
	"github.com/satori-hq/nft-series/internal/platform/events"
	"github.com/satori-hq/nft-series/internal/platform/migration"
	pgstore "github.com/satori-hq/nft-series/internal/platform/postgres"
	redisstore "github.com/satori-hq/nft-series/internal/platform/redis"
	"github.com/satori-hq/nft-series/internal/platform/sec"
	"github.com/satori-hq/nft-series/internal/platform/webhook"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	rootCtx := context.Background()
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Verification ─────────────────────────────────────────────
	verifier, err := sec.NewVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token verifier")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	meter := deposit.NewMeter(cfg.StorageByteCost, deposit.NewPostgresBank(pool))
	sink := events.NewStreamSink(rdb)
	directory := webhook.NewDirectory(rdb)
	notifier := webhook.NewNotifier(directory)

	registryService := registry.NewService(registry.NewPostgresRepository(pool), log)
	must(log, registryService.Initialize(startupCtx, registry.InitInput{
		Name:    cfg.RegistryName,
		Symbol:  cfg.RegistrySymbol,
		Icon:    cfg.RegistryIcon,
		BaseURI: cfg.RegistryBaseURI,
		Owner:   cfg.RegistryOwner,
	}), "initialize registry")

	seriesService := series.NewService(series.NewPostgresRepository(pool), registryService, meter, sink, log)
	tokenService := token.NewService(token.NewPostgresRepository(pool), seriesService, meter, sink, notifier, log)
	royaltyService := royalty.NewService(tokenService, seriesService, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Registry:  registry.NewHandler(registryService),
		Series:    series.NewHandler(seriesService, tokenService),
		Token:     token.NewHandler(tokenService),
		Royalty:   royalty.NewHandler(royaltyService),
		Webhook:   webhook.NewHandler(directory),
	}

	server := api.NewServer(rootCtx, cfg, log, verifier, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
