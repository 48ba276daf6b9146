package models

import (
	"time"

	"github.com/job-radar/internal/types"
)

// RunRecord is one append-only heartbeat row written after a provider run.
type RunRecord struct {
	Provider      types.Provider `json:"provider"`
	RanAt         time.Time      `json:"ran_at"`
	FetchedCount  int            `json:"fetched_count"`
	InsertedCount int            `json:"inserted_count"`
}

// ProviderStatus is the derived freshness view of a provider's latest run.
type ProviderStatus struct {
	Provider   types.Provider `json:"provider"`
	LastRunAt  time.Time      `json:"last_run_at"`
	Fetched    int            `json:"fetched"`
	Inserted   int            `json:"inserted"`
	AgeMinutes int            `json:"age_minutes"`
	IsFresh    bool           `json:"is_fresh"`
}
