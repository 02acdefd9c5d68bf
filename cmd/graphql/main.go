package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
	"github.com/zatekoja/tourbooking/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	observability.InitLogger(cfg.OTEL.ServiceName+"-"+serviceName, cfg.Server.Environment)

	log.Info().
		Str("service", cfg.OTEL.ServiceName+"-"+serviceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Server.Environment).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting GraphQL Server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName+"-"+serviceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	app, err := buildApplication(ctx, cfg, metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build application")
	}
	defer app.Close()

	if !cfg.IsProduction() {
		log.Info().Str("address", cfg.Server.ServerAddr()).Msg("GraphQL Playground available at /playground")
		if cfg.Storage.SeedFixtures {
			logDemoTokens(app.tokens)
		}
	}

	// WriteTimeout stays zero so the favorites event stream is not cut off
	server := &http.Server{
		Addr:              cfg.Server.ServerAddr(),
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("address", server.Addr).Msg("GraphQL server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("GraphQL server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("GraphQL server stopped")
}
