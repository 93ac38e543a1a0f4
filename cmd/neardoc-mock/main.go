package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/wolfman30/neardoc/internal/config"
	"github.com/wolfman30/neardoc/internal/mockbackend"
	"github.com/wolfman30/neardoc/internal/observability/metrics"
	"github.com/wolfman30/neardoc/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting neardoc mock backend",
		"env", cfg.Env,
		"port", cfg.MockPort,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backend, err := mockbackend.New(mockbackend.Config{
		JWTSecret:      cfg.MockJWTSecret,
		TokenTTL:       cfg.MockTokenTTL,
		Logger:         logger,
		Metrics:        metrics.NewBackendMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	if err != nil {
		logger.Error("failed to build mock backend", "error", err)
		os.Exit(1)
	}
	logger.Info("seed accounts ready",
		"doctor", mockbackend.SeedDoctorEmail,
		"patient", mockbackend.SeedPatientEmail,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.MockPort,
		Handler:      backend.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
