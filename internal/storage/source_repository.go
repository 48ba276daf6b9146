package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

// SourceRepository is the durable half of the source registry: the
// (provider, token) pairs that tell connectors which boards to poll.
// Sources are soft-disabled, never deleted, so history survives.
type SourceRepository struct {
	db *PostgresDB
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *PostgresDB) *SourceRepository {
	return &SourceRepository{db: db}
}

// Register upserts a source by (provider, token). Re-registering an existing
// source renames it to the latest display name and reactivates it.
func (r *SourceRepository) Register(ctx context.Context, provider types.Provider, token, displayName string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("source token must not be empty")
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = token
	}

	query := `
		INSERT INTO ats_sources (provider, token, display_name, active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (provider, token)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			active       = TRUE,
			updated_at   = NOW()
	`

	if _, err := r.db.Pool().Exec(ctx, query, provider, token, displayName); err != nil {
		return fmt.Errorf("failed to register source: %w", err)
	}
	return nil
}

// Deactivate soft-disables a source so it is skipped by runs but kept for
// history.
func (r *SourceRepository) Deactivate(ctx context.Context, provider types.Provider, token string) error {
	query := `
		UPDATE ats_sources
		SET active = FALSE, updated_at = NOW()
		WHERE provider = $1 AND token = $2
	`

	tag, err := r.db.Pool().Exec(ctx, query, provider, token)
	if err != nil {
		return fmt.Errorf("failed to deactivate source: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByProvider returns the active sources for one provider, ordered by
// display name.
func (r *SourceRepository) ListByProvider(ctx context.Context, provider types.Provider) ([]models.Source, error) {
	query := `
		SELECT provider, token, display_name, active, created_at, updated_at
		FROM ats_sources
		WHERE provider = $1 AND active = TRUE
		ORDER BY display_name ASC
	`

	rows, err := r.db.Pool().Query(ctx, query, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []models.Source
	for rows.Next() {
		var s models.Source
		if err := rows.Scan(&s.Provider, &s.Token, &s.DisplayName, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sources: %w", err)
	}

	return sources, nil
}

// ListAll returns every source including deactivated ones, for the admin
// surface.
func (r *SourceRepository) ListAll(ctx context.Context) ([]models.Source, error) {
	query := `
		SELECT provider, token, display_name, active, created_at, updated_at
		FROM ats_sources
		ORDER BY provider ASC, display_name ASC
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []models.Source
	for rows.Next() {
		var s models.Source
		if err := rows.Scan(&s.Provider, &s.Token, &s.DisplayName, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sources: %w", err)
	}

	return sources, nil
}
