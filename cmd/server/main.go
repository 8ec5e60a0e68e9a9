package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/apifault/apifault"
	"github.com/apifault/apifault/internal/config"
	"github.com/apifault/apifault/internal/logging"
	"github.com/apifault/apifault/middleware"
)

const appVersion = "0.1.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	defer logger.Sync()

	// Initialize Sentry if enabled
	sentryEnabled := cfg.Sentry.Enabled && cfg.Sentry.DSN != ""
	if sentryEnabled {
		sentryConfig := apifault.SentryConfig{
			DSN:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			Release:          cfg.Sentry.Release,
			Debug:            cfg.Sentry.Debug,
			SampleRate:       cfg.Sentry.SampleRate,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
			FlushTimeout:     5 * time.Second,
		}
		if sentryConfig.Release == "" {
			sentryConfig.Release = "apifault@" + appVersion
		}
		if sentryConfig.Environment == "" {
			sentryConfig.Environment = cfg.Server.Env
		}

		if err := apifault.InitSentry(sentryConfig); err != nil {
			logger.Error("failed to initialize Sentry", zap.Error(err))
			sentryEnabled = false
		} else {
			logger.Info("Sentry initialized",
				zap.String("environment", sentryConfig.Environment),
				zap.String("release", sentryConfig.Release),
			)
			defer apifault.FlushSentry(5 * time.Second)
		}
	}

	// Initialize dependencies
	deps := initDependencies(cfg, logger)
	defer deps.Close()

	// Create the translator and install it as the app's error handler
	translatorConfig := apifault.DefaultConfig(logger)
	translatorConfig.SentryEnabled = sentryEnabled
	translator := apifault.New(translatorConfig)

	app := fiber.New(fiber.Config{
		AppName:               "apifault demo API",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: cfg.Server.Env == "production",
		ErrorHandler:          translator.Handler(),
	})

	// Apply global middleware
	app.Use(middleware.RequestID())

	loggerConfig := middleware.DefaultLoggerConfig(logger)
	loggerConfig.Skip = middleware.CombinedSkipper(middleware.HealthSkipper, middleware.MetricsSkipper)
	app.Use(middleware.NewLoggerMiddleware(loggerConfig).Handler())

	app.Use(middleware.NewRecoverMiddleware(middleware.DefaultRecoverConfig(logger)).Handler())

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register routes
	registerRoutes(app, deps)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("starting server", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}
