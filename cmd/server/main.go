// Package main provides the entry point for the dashboard service HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sbk-labs/dashboard-service/internal/auth"
	"github.com/sbk-labs/dashboard-service/internal/catalog"
	"github.com/sbk-labs/dashboard-service/internal/config"
	"github.com/sbk-labs/dashboard-service/internal/dashboard"
	"github.com/sbk-labs/dashboard-service/internal/database"
	"github.com/sbk-labs/dashboard-service/internal/observability"
	"github.com/sbk-labs/dashboard-service/internal/repository"
	httpserver "github.com/sbk-labs/dashboard-service/internal/server/http"
	"github.com/sbk-labs/dashboard-service/internal/session"
	"github.com/sbk-labs/dashboard-service/internal/upstream/aiproxy"
	"github.com/sbk-labs/dashboard-service/internal/upstream/authapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("dashboard-service server starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL.
	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info().Msg("database connection established")

	// Run migrations if configured.
	if cfg.Database.MigrationAutoRun {
		migrator, err := database.NewMigrator(db, cfg.Database.MigrationPath, logger)
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
		defer func() {
			if closeErr := migrator.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close migrator")
			}
		}()

		if err := migrator.Up(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Metrics registry.
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics("biodash")
	}

	// Session state: page-lifetime store plus persisted tokens.
	sessions := session.NewStore()
	staging := session.NewStaging()

	var tokens session.TokenStore
	if cfg.Session.TokenFile != "" {
		fileStore, err := session.NewFileTokenStore(cfg.Session.TokenFile)
		if err != nil {
			return fmt.Errorf("open token store: %w", err)
		}
		tokens = fileStore
	} else {
		tokens = session.NewMemoryTokenStore()
	}

	// Upstream clients.
	asker := aiproxy.NewClient(aiproxy.Config{
		BaseURL:   cfg.AIProxy.BaseURL,
		Timeout:   cfg.AIProxy.Timeout,
		RateLimit: cfg.AIProxy.RateLimit,
	})
	authBackend := authapi.NewClient(authapi.Config{
		BaseURL: cfg.AuthAPI.BaseURL,
		Timeout: cfg.AuthAPI.Timeout,
	})

	// Repositories and services.
	articleRepo := repository.NewPgArticleRepository(db)
	catalogSvc := catalog.NewService(articleRepo, sessions, staging, metrics, logger)
	dashboardSvc := dashboard.NewService(asker, metrics, logger)
	authSvc := auth.NewService(authBackend, tokens, sessions, staging, logger)

	// Restore a persisted session, if any. A rejected token is cleared
	// silently; the service starts logged out.
	if err := authSvc.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("session restore failed, starting logged out")
	}

	httpCfg := httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	httpSrv := httpserver.NewServer(
		httpCfg,
		catalogSvc,
		dashboardSvc,
		authSvc,
		sessions,
		db,
		logger,
	)

	// Set up Prometheus metrics handler on a separate port if configured.
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort),
			Handler:      metricsMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	// Start HTTP REST API server in background.
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start metrics server if configured.
	if metricsServer != nil {
		go func() {
			logger.Info().
				Str("address", metricsServer.Addr).
				Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	readyLog := logger.Info().Str("http_address", httpCfg.Address)
	if metricsServer != nil {
		readyLog = readyLog.Str("metrics_address", metricsServer.Addr)
	}
	readyLog.Msg("dashboard-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down dashboard-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	logger.Info().Msg("dashboard-service shutdown complete")
	return nil
}
