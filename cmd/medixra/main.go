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

	"github.com/joho/godotenv"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/aggregate"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/app"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/config"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/tracer"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Initialize Logger
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	// 2. Load Configuration
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Application starting...",
		zap.String("service_name", cfg.ServiceName),
		zap.String("store_backend", cfg.StoreBackend))

	// 3. Initialize OpenTelemetry Tracer
	var tp *sdktrace.TracerProvider
	if cfg.OTExporterOTLPEndpoint != "" {
		tp = tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
		defer func() {
			appLogger.Info("Shutting down tracer provider...")
			ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := tp.Shutdown(ctxShutdown); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
		appLogger.Info("OpenTelemetry Tracer initialized.")
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	// 4. Wire store, adapters and usecases
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(startCtx, cfg, appLogger)
	cancelStart()
	if err != nil {
		appLogger.Fatal("Failed to initialize application", zap.Error(err))
	}

	// 5. Start Prometheus Metrics Server
	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, application.Metrics.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("Prometheus metrics server not started (PROMETHEUS_METRICS_PORT not set).")
	}

	// 6. Catalog summary
	logCatalogSummary(application, appLogger)

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Close(shutdownCtx); err != nil {
		appLogger.Error("Error during shutdown", zap.Error(err))
	}
	appLogger.Info("Application shut down successfully")
}

func logCatalogSummary(a *app.App, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listings, err := a.Listings.GetAll(ctx)
	if err != nil {
		log.Warn("Could not read catalog for summary", zap.Error(err))
		return
	}
	vendors, err := a.Vendors.GetApproved(ctx)
	if err != nil {
		log.Warn("Could not read vendors for summary", zap.Error(err))
		return
	}
	log.Info("Catalog ready",
		zap.Int("listings", len(listings)),
		zap.Int("approved_vendors", len(vendors)),
		zap.Any("by_specialty", aggregate.CountsByFacet(listings, aggregate.FacetSpecialty)),
		zap.Any("by_category", aggregate.CountsByFacet(listings, aggregate.FacetCategory)),
		zap.Any("by_city", aggregate.CountsByCity(listings)))
}
