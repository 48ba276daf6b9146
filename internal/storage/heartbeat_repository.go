package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

// HeartbeatRepository records one row per connector run and derives the
// per-provider freshness view from the latest row. Rows are append-only.
type HeartbeatRepository struct {
	db *PostgresDB
}

// NewHeartbeatRepository creates a new heartbeat repository
func NewHeartbeatRepository(db *PostgresDB) *HeartbeatRepository {
	return &HeartbeatRepository{db: db}
}

// Record appends a heartbeat for a completed provider run.
func (r *HeartbeatRepository) Record(ctx context.Context, provider types.Provider, fetched, inserted int) error {
	query := `
		INSERT INTO cron_heartbeats (provider, ran_at, fetched, inserted)
		VALUES ($1, NOW(), $2, $3)
	`

	if _, err := r.db.Pool().Exec(ctx, query, provider, fetched, inserted); err != nil {
		return fmt.Errorf("failed to record heartbeat: %w", err)
	}
	return nil
}

// Status returns the freshness view for every supported provider. A
// provider whose latest run is older than the threshold, or which has
// never run at all, is reported stale.
func (r *HeartbeatRepository) Status(ctx context.Context, threshold time.Duration) ([]models.ProviderStatus, error) {
	query := `
		SELECT DISTINCT ON (provider) provider, ran_at, fetched, inserted
		FROM cron_heartbeats
		ORDER BY provider, ran_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query heartbeats: %w", err)
	}
	defer rows.Close()

	latest := make(map[types.Provider]models.RunRecord)
	for rows.Next() {
		var rec models.RunRecord
		if err := rows.Scan(&rec.Provider, &rec.RanAt, &rec.FetchedCount, &rec.InsertedCount); err != nil {
			return nil, fmt.Errorf("failed to scan heartbeat: %w", err)
		}
		latest[rec.Provider] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating heartbeats: %w", err)
	}

	now := time.Now()
	statuses := make([]models.ProviderStatus, 0, len(types.AllProviders))
	for _, p := range types.AllProviders {
		rec, ok := latest[p]
		if !ok {
			// never ran: stale by construction
			statuses = append(statuses, models.ProviderStatus{Provider: p})
			continue
		}
		age := now.Sub(rec.RanAt)
		statuses = append(statuses, models.ProviderStatus{
			Provider:   p,
			LastRunAt:  rec.RanAt,
			Fetched:    rec.FetchedCount,
			Inserted:   rec.InsertedCount,
			AgeMinutes: int(age.Minutes()),
			IsFresh:    age <= threshold,
		})
	}

	return statuses, nil
}
