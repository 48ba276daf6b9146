// Package main provides the API server entry point for the job radar service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/job-radar/internal/api"
	"github.com/job-radar/internal/config"
	"github.com/job-radar/internal/connector"
	"github.com/job-radar/internal/ingest"
	"github.com/job-radar/internal/logging"
	"github.com/job-radar/internal/scheduler"
	"github.com/job-radar/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.InitGlobalLogger(
		logging.ParseLogLevel(cfg.Logging.Level),
		logging.ParseLogFormat(cfg.Logging.Format),
	)
	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Connect to Postgres
	postgres, err := storage.NewPostgresDB(&cfg.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	// Redis is optional: without it the Workday connector just rediscovers
	// career sites on every run.
	var siteCache *connector.SiteCache
	redis, err := storage.NewRedisCache(&cfg.Redis)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, Workday site memoization disabled")
	} else {
		defer redis.Close()
		siteCache = connector.NewSiteCache(redis.Client(), cfg.Ingest.SiteCacheTTL)
	}

	logger.Info("Database connections established")

	postingRepo := storage.NewPostingRepository(postgres)
	sourceRepo := storage.NewSourceRepository(postgres)
	heartbeatRepo := storage.NewHeartbeatRepository(postgres)

	connectors := connector.All(connector.Options{
		Timeout:          cfg.Ingest.FetchTimeout,
		RequestDelay:     cfg.Ingest.RequestDelay,
		DescriptionLimit: cfg.Ingest.DescriptionLimit,
	}, siteCache)

	runner := ingest.NewRunner(connectors, postingRepo, sourceRepo, heartbeatRepo)
	runner.Filtered = cfg.Ingest.Filtered
	runner.MaxParallel = cfg.Ingest.MaxParallelProviders

	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CronSecret:      cfg.Ingest.CronSecret,
		StaleAfter:      cfg.Ingest.StaleAfter,
	}
	server := api.NewServer(serverConfig, postingRepo, sourceRepo, heartbeatRepo, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(cfg.Ingest.ScrapeInterval, func(ctx context.Context) error {
		_, err := runner.RunAll(ctx)
		return err
	})
	if err := sched.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start scheduler")
	}
	defer sched.Stop()

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Error("Server stopped")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Job radar API server started")

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}
