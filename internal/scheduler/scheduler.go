// Package scheduler wires up the cron job that periodically runs a full
// ingestion pass over every provider.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/job-radar/internal/logging"
)

// Scheduler wraps robfig/cron and manages the periodic full run.
type Scheduler struct {
	cron   *cron.Cron
	runner runAllFunc
	spec   string // cron spec, e.g. "@every 6h"
}

type runAllFunc func(ctx context.Context) error

// New creates a Scheduler that fires on the given interval.
func New(interval time.Duration, run func(ctx context.Context) error) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: run,
		spec:   fmt.Sprintf("@every %s", interval),
	}
}

// Start registers the job and starts the scheduler. It also kicks off one
// run immediately so a fresh deployment populates the feed without waiting
// for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	logging.WithField("spec", s.spec).Info("scheduler started")

	go s.runOnce(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	logging.Info("scheduler stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	logging.Info("scheduled ingestion run started")
	if err := s.runner(ctx); err != nil {
		logging.WithError(err).Error("scheduled ingestion run finished with failures")
		return
	}
	logging.Info("scheduled ingestion run complete")
}
