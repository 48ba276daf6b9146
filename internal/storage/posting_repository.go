package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

// PostingRepository handles posting persistence. All writes go through
// Upsert, which is keyed by fingerprint and safe to call any number of
// times for the same logical posting.
type PostingRepository struct {
	db *PostgresDB
}

// NewPostingRepository creates a new posting repository
func NewPostingRepository(db *PostgresDB) *PostingRepository {
	return &PostingRepository{db: db}
}

// Upsert inserts a posting or merges it into the existing row with the same
// fingerprint. Merge policy: incoming non-null values win, stored values
// survive null incoming ones. The exception is posted_at, where a stored non-null
// date survives a null incoming one so a known announcement date never
// regresses to unknown. last_seen_at always moves to the current write.
// The returned flag is true when a new row was created.
func (r *PostingRepository) Upsert(ctx context.Context, p *models.Posting) (bool, error) {
	if strings.TrimSpace(p.Title) == "" {
		return false, fmt.Errorf("posting %s: title must not be empty", p.Fingerprint)
	}
	if strings.TrimSpace(p.URL) == "" {
		return false, fmt.Errorf("posting %s: url must not be empty", p.Fingerprint)
	}

	var band *string
	if p.ExperienceBand != "" {
		b := string(p.ExperienceBand)
		band = &b
	}

	query := `
		INSERT INTO jobs (
			fingerprint, provider, provider_item_id, company, title,
			location, is_remote, employment_type, experience_band, category,
			url, posted_at, first_seen_at, last_seen_at, description,
			salary_min, salary_max, currency, visa_tags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW(), $13, $14, $15, $16, $17)
		ON CONFLICT (fingerprint)
		DO UPDATE SET
			provider         = EXCLUDED.provider,
			provider_item_id = COALESCE(EXCLUDED.provider_item_id, jobs.provider_item_id),
			company          = EXCLUDED.company,
			title            = EXCLUDED.title,
			location         = COALESCE(EXCLUDED.location, jobs.location),
			is_remote        = EXCLUDED.is_remote,
			employment_type  = COALESCE(EXCLUDED.employment_type, jobs.employment_type),
			experience_band  = COALESCE(EXCLUDED.experience_band, jobs.experience_band),
			category         = COALESCE(EXCLUDED.category, jobs.category),
			url              = EXCLUDED.url,
			posted_at        = COALESCE(EXCLUDED.posted_at, jobs.posted_at),
			description      = COALESCE(EXCLUDED.description, jobs.description),
			salary_min       = COALESCE(EXCLUDED.salary_min, jobs.salary_min),
			salary_max       = COALESCE(EXCLUDED.salary_max, jobs.salary_max),
			currency         = COALESCE(EXCLUDED.currency, jobs.currency),
			visa_tags        = COALESCE(EXCLUDED.visa_tags, jobs.visa_tags),
			last_seen_at     = NOW()
		RETURNING (xmax = 0)
	`

	var inserted bool
	err := r.db.Pool().QueryRow(ctx, query,
		p.Fingerprint,
		p.Provider,
		p.ProviderItemID,
		p.Company,
		p.Title,
		p.Location,
		p.IsRemote,
		p.EmploymentType,
		band,
		p.Category,
		p.URL,
		p.PostedAt,
		p.Description,
		p.SalaryMin,
		p.SalaryMax,
		p.Currency,
		p.VisaTags,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert posting: %w", err)
	}

	return inserted, nil
}

const postingColumns = `
	fingerprint, provider, provider_item_id, company, title,
	location, is_remote, employment_type, experience_band, category,
	url, posted_at, first_seen_at, last_seen_at, description,
	salary_min, salary_max, currency, visa_tags`

func scanPosting(row pgx.Row) (*models.Posting, error) {
	var p models.Posting
	var band *string
	err := row.Scan(
		&p.Fingerprint,
		&p.Provider,
		&p.ProviderItemID,
		&p.Company,
		&p.Title,
		&p.Location,
		&p.IsRemote,
		&p.EmploymentType,
		&band,
		&p.Category,
		&p.URL,
		&p.PostedAt,
		&p.FirstSeenAt,
		&p.LastSeenAt,
		&p.Description,
		&p.SalaryMin,
		&p.SalaryMax,
		&p.Currency,
		&p.VisaTags,
	)
	if err != nil {
		return nil, err
	}
	if band != nil {
		p.ExperienceBand = types.ExperienceBand(*band)
	}
	return &p, nil
}

// Get retrieves a posting by fingerprint.
func (r *PostingRepository) Get(ctx context.Context, fingerprint string) (*models.Posting, error) {
	query := `SELECT` + postingColumns + ` FROM jobs WHERE fingerprint = $1`

	p, err := scanPosting(r.db.Pool().QueryRow(ctx, query, fingerprint))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}
	return p, nil
}

// ListFilter narrows the posting listing. Zero values mean "no constraint"
// except MaxAgeDays, which defaults to 30 when unset.
type ListFilter struct {
	MaxAgeDays int
	Query      string // free text over title, company, location
	Category   string
	USOnly     bool // likely-US location heuristic
	Limit      int
	Offset     int
}

// List returns postings matching the filter, newest first by
// COALESCE(posted_at, last_seen_at), plus the total match count.
func (r *PostingRepository) List(ctx context.Context, f ListFilter) ([]*models.Posting, int, error) {
	if f.MaxAgeDays <= 0 {
		f.MaxAgeDays = 30
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}

	clauses := make([]string, 0, 4)
	params := make([]interface{}, 0, 6)

	params = append(params, f.MaxAgeDays)
	clauses = append(clauses, fmt.Sprintf(
		`COALESCE(posted_at, last_seen_at) >= NOW() - ($%d * INTERVAL '1 day')`, len(params)))

	if f.USOnly {
		clauses = append(clauses,
			`(location ILIKE '%united states%' OR location ILIKE '%, us' OR location ILIKE '%, usa' OR location ILIKE '%remote - us%')`)
	}
	if f.Query != "" {
		params = append(params, "%"+f.Query+"%")
		n := len(params)
		clauses = append(clauses, fmt.Sprintf(
			`(title ILIKE $%d OR company ILIKE $%d OR location ILIKE $%d)`, n, n, n))
	}
	if f.Category != "" {
		params = append(params, f.Category)
		clauses = append(clauses, fmt.Sprintf(`category = $%d`, len(params)))
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM jobs ` + where
	if err := r.db.Pool().QueryRow(ctx, countQuery, params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count postings: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM jobs
		%s
		ORDER BY COALESCE(posted_at, last_seen_at) DESC
		LIMIT $%d OFFSET $%d`,
		postingColumns, where, len(params)+1, len(params)+2)

	rows, err := r.db.Pool().Query(ctx, listQuery, append(params, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	var postings []*models.Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating postings: %w", err)
	}

	return postings, total, nil
}
