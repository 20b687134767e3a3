package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/clinicdesk/internal/api/router"
	"github.com/clinicdesk/clinicdesk/internal/clinic"
	appconfig "github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/http/handlers"
	"github.com/clinicdesk/clinicdesk/internal/observability/metrics"
	"github.com/clinicdesk/clinicdesk/internal/storage"
	"github.com/clinicdesk/clinicdesk/internal/treatments"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

func main() {
	// Load .env if present; real env wins.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinicdesk API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		cancel()
		logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	cancel()

	clinicMetrics := metrics.NewClinicMetrics(prometheus.DefaultRegisterer)

	kv := storage.NewKV(redisClient, logger)
	catalog := treatments.NewCatalog(context.Background(), kv, logger)
	store := clinic.NewStore(context.Background(), clinic.Config{
		KV:        kv,
		Durations: catalog,
		Logger:    logger,
		Metrics:   clinicMetrics,
	})
	catalog.Subscribe(store.NotifyTreatmentsChanged)

	dataHandler := handlers.NewDataHandler(handlers.DataConfig{
		Store:     store,
		KV:        kv,
		BackupDir: cfg.BackupDir,
		Logger:    logger,
		Metrics:   clinicMetrics,
	})

	routerCfg := &router.Config{
		Logger:              logger,
		PatientsHandler:     handlers.NewPatientsHandler(store, logger),
		AppointmentsHandler: handlers.NewAppointmentsHandler(store, logger),
		WaitingListHandler:  handlers.NewWaitingListHandler(store, logger),
		TreatmentsHandler:   handlers.NewTreatmentsHandler(catalog, logger),
		DataHandler:         dataHandler,
		StatsHandler:        handlers.NewStatsHandler(store, logger),
		ChangeFeed:          handlers.NewChangeFeedHandler(store, logger),
		MetricsHandler:      promhttp.Handler(),
		SessionSecret:       cfg.SessionJWTSecret,
		SessionTTL:          12 * time.Hour,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		logger.Warn("redis close failed", "error", err)
	}

	logger.Info("server stopped")
}
