package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

func TestHeartbeatRepository_Status(t *testing.T) {
	db := testDB(t)
	repo := NewHeartbeatRepository(db)
	ctx := testContext(t)

	require.NoError(t, repo.Record(ctx, types.ProviderGreenhouse, 120, 100))

	// A run 180 minutes ago against a 120 minute threshold is stale.
	_, err := db.Pool().Exec(ctx,
		`INSERT INTO cron_heartbeats (provider, ran_at, fetched, inserted)
		 VALUES ($1, NOW() - INTERVAL '180 minutes', 10, 8)`,
		types.ProviderLever)
	require.NoError(t, err)

	statuses, err := repo.Status(ctx, 120*time.Minute)
	require.NoError(t, err)
	require.Len(t, statuses, len(types.AllProviders))

	byProvider := make(map[types.Provider]models.ProviderStatus)
	for _, s := range statuses {
		byProvider[s.Provider] = s
	}

	gh := byProvider[types.ProviderGreenhouse]
	assert.True(t, gh.IsFresh)
	assert.Equal(t, 120, gh.Fetched)
	assert.Equal(t, 100, gh.Inserted)

	lv := byProvider[types.ProviderLever]
	assert.False(t, lv.IsFresh)
	assert.GreaterOrEqual(t, lv.AgeMinutes, 179)

	// A provider with no heartbeat at all is never fresh.
	wd := byProvider[types.ProviderWorkday]
	assert.False(t, wd.IsFresh)
	assert.True(t, wd.LastRunAt.IsZero())
}

func TestHeartbeatRepository_LatestRowWins(t *testing.T) {
	db := testDB(t)
	repo := NewHeartbeatRepository(db)
	ctx := testContext(t)

	require.NoError(t, repo.Record(ctx, types.ProviderAshby, 5, 5))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, repo.Record(ctx, types.ProviderAshby, 9, 7))

	statuses, err := repo.Status(ctx, time.Hour)
	require.NoError(t, err)

	for _, s := range statuses {
		if s.Provider == types.ProviderAshby {
			assert.Equal(t, 9, s.Fetched)
			assert.Equal(t, 7, s.Inserted)
			assert.True(t, s.IsFresh)
			return
		}
	}
	t.Fatal("ashby status missing")
}
