package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carelink/booking/internal/config"
	"github.com/carelink/booking/internal/domain/appointment"
	"github.com/carelink/booking/internal/domain/encounter"
	"github.com/carelink/booking/internal/domain/slot"
	"github.com/carelink/booking/internal/platform/fhir"
	"github.com/carelink/booking/internal/platform/lock"
	"github.com/carelink/booking/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "booking-server",
		Short: "Scheduling consistency engine for appointment booking",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the booking API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Upstream FHIR store
	store := fhir.NewClient(cfg.FHIRBaseURL, cfg.FHIRTimeout, logger)
	logger.Info().Str("base_url", cfg.FHIRBaseURL).Msg("using upstream FHIR store")

	// Practitioner advisory lock. Redis makes the lock effective across
	// instances; the in-memory locker covers single-instance deployments.
	var locker lock.Locker
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		locker = lock.NewRedisLocker(redis.NewClient(opts), cfg.LockTTL)
		logger.Info().Msg("using redis practitioner lock")
	} else {
		locker = lock.NewMemoryLocker()
		logger.Warn().Msg("REDIS_URL not set; practitioner lock is process-local")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BearerPassthrough())

	// Health check probes the upstream store
	e.GET("/healthz", func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	// Domain handlers
	fhirGroup := e.Group("/fhir")

	slotSvc := slot.NewService(store, locker, logger)
	slot.NewHandler(slotSvc).RegisterRoutes(fhirGroup)

	apptSvc := appointment.NewService(store, logger)
	appointment.NewHandler(apptSvc).RegisterRoutes(fhirGroup)

	encSvc := encounter.NewService(store, logger)
	encounter.NewHandler(encSvc).RegisterRoutes(fhirGroup)

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
