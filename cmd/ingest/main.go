// Package main provides a one-shot ingestion run, for cron jobs and manual
// backfills. With -provider it runs a single provider; without it, all.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/job-radar/internal/config"
	"github.com/job-radar/internal/connector"
	"github.com/job-radar/internal/ingest"
	"github.com/job-radar/internal/logging"
	"github.com/job-radar/internal/storage"
	"github.com/job-radar/internal/types"
)

func main() {
	var (
		providerFlag = flag.String("provider", "", "Run a single provider (greenhouse, lever, ashby, workable, recruitee, smartrecruiters, workday)")
		filtered     = flag.Bool("filtered", false, "Keep only role-matching postings")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.InitGlobalLogger(
		logging.ParseLogLevel(cfg.Logging.Level),
		logging.ParseLogFormat(cfg.Logging.Format),
	)
	logger := logging.GetGlobalLogger()

	postgres, err := storage.NewPostgresDB(&cfg.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	var siteCache *connector.SiteCache
	if redis, err := storage.NewRedisCache(&cfg.Redis); err == nil {
		defer redis.Close()
		siteCache = connector.NewSiteCache(redis.Client(), cfg.Ingest.SiteCacheTTL)
	} else {
		logger.WithError(err).Warn("Redis unavailable, Workday site memoization disabled")
	}

	connectors := connector.All(connector.Options{
		Timeout:          cfg.Ingest.FetchTimeout,
		RequestDelay:     cfg.Ingest.RequestDelay,
		DescriptionLimit: cfg.Ingest.DescriptionLimit,
	}, siteCache)

	runner := ingest.NewRunner(
		connectors,
		storage.NewPostingRepository(postgres),
		storage.NewSourceRepository(postgres),
		storage.NewHeartbeatRepository(postgres),
	)
	runner.Filtered = cfg.Ingest.Filtered || *filtered
	runner.MaxParallel = cfg.Ingest.MaxParallelProviders

	ctx := context.Background()

	if *providerFlag != "" {
		provider, err := types.ParseProvider(*providerFlag)
		if err != nil {
			logger.Fatalf("Unknown provider %q", *providerFlag)
		}
		result, err := runner.RunProvider(ctx, provider)
		if err != nil {
			logger.WithError(err).Fatal("Provider run failed")
		}
		logger.Infof("Run complete: %s", ingest.Summary([]ingest.Result{result}))
		return
	}

	results, err := runner.RunAll(ctx)
	logger.Infof("Run complete: %s", ingest.Summary(results))
	if err != nil {
		logger.WithError(err).Fatal("Some providers failed")
	}
}
