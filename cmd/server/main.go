package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personnel-tracker/internal/app"
	"personnel-tracker/internal/infrastructure/config"
	"personnel-tracker/internal/interface/rest"
	"personnel-tracker/internal/usecase"
	"personnel-tracker/pkg/clock"
	"personnel-tracker/pkg/logger"
	"personnel-tracker/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	zapLogger := logger.NewLogger(cfg.LogLevel)
	defer zapLogger.Sync()
	log := zapLogger.With("version", cfg.AppVersion)
	log.Info("Starting Personnel Tracker", "storeDriver", cfg.StoreDriver)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open stores", "error", err)
	}

	appMetrics := metrics.NewMetrics("personnel_tracker", prometheus.DefaultRegisterer)
	appClock := clock.New()

	// Set up services
	attendanceService := usecase.NewAttendanceService(stores.Attendance, stores.Personnel, appClock, appMetrics, log)
	queryService := usecase.NewQueryService(stores.Attendance, stores.Personnel, appClock)
	summaryService := usecase.NewSummaryService(stores.Attendance, stores.Personnel, appClock)
	personnelService := usecase.NewPersonnelService(stores.Personnel, log)

	router := rest.NewRouter(
		rest.RouterConfig{
			Logger:         log,
			Metrics:        appMetrics,
			Gatherer:       prometheus.DefaultGatherer,
			RequestTimeout: cfg.RequestTimeout,
		},
		rest.NewTimeTrackingHandler(attendanceService, queryService, summaryService, log),
		rest.NewPersonnelHandler(personnelService, log),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if err := stores.Close(shutdownCtx); err != nil {
		log.Error("Store close error", "error", err)
	}

	log.Info("Personnel Tracker stopped")
}
