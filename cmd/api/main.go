// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

// Command api is the entry point for the Fleetdesk HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Schedule the daily document-expiry scan.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/robfig/cron/v3"

	"github.com/fleetdesk/fleetdesk/internal/api"
	"github.com/fleetdesk/fleetdesk/internal/core/calendar"
	"github.com/fleetdesk/fleetdesk/internal/core/driver"
	"github.com/fleetdesk/fleetdesk/internal/core/tour"
	"github.com/fleetdesk/fleetdesk/internal/core/vehicle"
	"github.com/fleetdesk/fleetdesk/internal/notify"
	"github.com/fleetdesk/fleetdesk/internal/platform/config"
	"github.com/fleetdesk/fleetdesk/internal/platform/constants"
	"github.com/fleetdesk/fleetdesk/internal/platform/migration"
	pgstore "github.com/fleetdesk/fleetdesk/internal/platform/postgres"
	redisstore "github.com/fleetdesk/fleetdesk/internal/platform/redis"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
	"github.com/fleetdesk/fleetdesk/internal/users/account"
	"github.com/fleetdesk/fleetdesk/internal/users/auth"
	"github.com/fleetdesk/fleetdesk/internal/users/organization"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "fleetdesk"))
	slog.SetDefault(log)

	log.Info("[Fleetdesk] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "fleetdesk"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

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
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(rdb)
	authService := auth.NewService(userRepository, sessionRepository, jwtSvc)
	authHandler := auth.NewHandler(authService)

	accountRepository := account.NewRepository(pool)
	accountService := account.NewService(accountRepository, log)
	accountHandler := account.NewHandler(accountService)

	organizationRepository := organization.NewPostgresRepository(pool)
	organizationService := organization.NewService(organizationRepository, log)
	organizationHandler := organization.NewHandler(organizationService)

	vehicleRepository := vehicle.NewRepository(pool)
	vehicleService := vehicle.NewService(vehicleRepository, log)
	vehicleHandler := vehicle.NewHandler(vehicleService)

	driverRepository := driver.NewRepository(pool)
	driverService := driver.NewService(driverRepository, log)
	driverHandler := driver.NewHandler(driverService)

	tourRepository := tour.NewRepository(pool)
	tourService := tour.NewService(tourRepository, driverRepository, vehicleRepository, log)
	tourHandler := tour.NewHandler(tourService)

	calendarRepository := calendar.NewRepository(pool)
	calendarService := calendar.NewService(calendarRepository, vehicleRepository, driverRepository, tourRepository, log)
	calendarHandler := calendar.NewHandler(calendarService)

	scanner := notify.NewScanner(userRepository, vehicleRepository, driverRepository, notify.NewLogMailer(log), log)
	notifyHandler := notify.NewHandler(scanner)

	// ── 9. Expiry Scan Schedule ───────────────────────────────────────────
	scheduler := cron.New()
	if cfg.ExpiryScanEnabled {
		_, err := scheduler.AddFunc(constants.ExpiryScanCronSpec, func() {
			scanCtx, scanCancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer scanCancel()

			if _, err := scanner.Scan(scanCtx, time.Now()); err != nil {
				log.Error("expiry_scan_failed", slog.Any("error", err))
			}
		})
		must(log, err, "schedule expiry scan")
		scheduler.Start()
		defer scheduler.Stop()
		log.Info("expiry_scan_scheduled", slog.String("spec", constants.ExpiryScanCronSpec))
	}

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         authHandler,
		Account:      accountHandler,
		Organization: organizationHandler,
		Vehicle:      vehicleHandler,
		Driver:       driverHandler,
		Tour:         tourHandler,
		Calendar:     calendarHandler,
		Notify:       notifyHandler,
	}

	// The server context outlives startup: the rate limiter's cleanup loop
	// runs on it for the whole process lifetime.
	server := api.NewServer(context.Background(), cfg, log, jwtSvc, authService, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
