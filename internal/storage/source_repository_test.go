package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/job-radar/internal/types"
)

func TestSourceRepository_RegisterAndList(t *testing.T) {
	db := testDB(t)
	repo := NewSourceRepository(db)
	ctx := testContext(t)

	require.NoError(t, repo.Register(ctx, types.ProviderGreenhouse, "stripe", "Stripe"))
	require.NoError(t, repo.Register(ctx, types.ProviderGreenhouse, "airbnb", "Airbnb"))
	require.NoError(t, repo.Register(ctx, types.ProviderLever, "plaid", "Plaid"))

	sources, err := repo.ListByProvider(ctx, types.ProviderGreenhouse)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	// alphabetical by display name
	assert.Equal(t, "Airbnb", sources[0].DisplayName)
	assert.Equal(t, "Stripe", sources[1].DisplayName)
}

func TestSourceRepository_ReregisterRenamesAndReactivates(t *testing.T) {
	db := testDB(t)
	repo := NewSourceRepository(db)
	ctx := testContext(t)

	require.NoError(t, repo.Register(ctx, types.ProviderAshby, "Linear", "Linear"))
	require.NoError(t, repo.Deactivate(ctx, types.ProviderAshby, "Linear"))

	sources, err := repo.ListByProvider(ctx, types.ProviderAshby)
	require.NoError(t, err)
	assert.Empty(t, sources)

	// Soft-disabled rows survive and come back on re-registration.
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	require.NoError(t, repo.Register(ctx, types.ProviderAshby, "Linear", "Linear HQ"))

	sources, err = repo.ListByProvider(ctx, types.ProviderAshby)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "Linear HQ", sources[0].DisplayName)
	assert.True(t, sources[0].Active)
}

func TestSourceRepository_DeactivateMissing(t *testing.T) {
	db := testDB(t)
	repo := NewSourceRepository(db)
	ctx := testContext(t)

	err := repo.Deactivate(ctx, types.ProviderLever, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSourceRepository_RejectsEmptyToken(t *testing.T) {
	db := testDB(t)
	repo := NewSourceRepository(db)
	ctx := testContext(t)

	err := repo.Register(ctx, types.ProviderLever, "  ", "Nope")
	assert.Error(t, err)
}
