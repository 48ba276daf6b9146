// Package ingest drives full scrape runs: it resolves the source list for
// each provider, pulls every board through its connector, classifies and
// fingerprints each posting, and lands the result in storage.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/job-radar/internal/classify"
	"github.com/job-radar/internal/connector"
	"github.com/job-radar/internal/fingerprint"
	"github.com/job-radar/internal/logging"
	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/registry"
	"github.com/job-radar/internal/types"
)

// ErrPersist marks storage failures inside the ingest pipeline. A transport
// error skips one board; a persistence error aborts the whole provider run,
// and this sentinel is how the two are told apart.
var ErrPersist = errors.New("posting store failure")

// PostingStore is the slice of the posting repository the runner needs.
type PostingStore interface {
	Upsert(ctx context.Context, p *models.Posting) (bool, error)
}

// SourceStore lists the registered boards for a provider.
type SourceStore interface {
	ListByProvider(ctx context.Context, provider types.Provider) ([]models.Source, error)
}

// HeartbeatStore records one row per completed provider run.
type HeartbeatStore interface {
	Record(ctx context.Context, provider types.Provider, fetched, inserted int) error
}

// Result summarizes one provider run.
type Result struct {
	Provider types.Provider `json:"provider"`
	Sources  int            `json:"sources"`
	Fetched  int            `json:"fetched"`
	Inserted int            `json:"inserted"`
}

// Runner executes ingestion runs over a fixed connector set.
type Runner struct {
	connectors map[types.Provider]connector.Connector
	postings   PostingStore
	sources    SourceStore
	heartbeats HeartbeatStore

	// Filtered keeps only role-matching postings when true. The default is
	// to ingest everything and let read queries narrow the set.
	Filtered bool

	// MaxParallel bounds concurrent provider runs in RunAll.
	MaxParallel int
}

func NewRunner(connectors []connector.Connector, postings PostingStore, sources SourceStore, heartbeats HeartbeatStore) *Runner {
	return &Runner{
		connectors:  connector.ByProvider(connectors),
		postings:    postings,
		sources:     sources,
		heartbeats:  heartbeats,
		MaxParallel: 1,
	}
}

// RunProvider ingests every board of one provider. Boards that fail on the
// wire are logged and skipped; the run keeps going so one dead tenant never
// starves the rest. A storage failure aborts immediately and no heartbeat
// is recorded for the run.
func (r *Runner) RunProvider(ctx context.Context, provider types.Provider) (Result, error) {
	result := Result{Provider: provider}

	conn, ok := r.connectors[provider]
	if !ok {
		return result, fmt.Errorf("no connector for provider %q", provider)
	}

	log := logging.FromContext(ctx).WithFields(map[string]interface{}{
		"run_id":   uuid.New().String(),
		"provider": string(provider),
	})

	boards, err := r.resolveSources(ctx, provider)
	if err != nil {
		return result, err
	}
	result.Sources = len(boards)
	log.WithField("sources", len(boards)).Info("provider run started")

	for _, source := range boards {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fetched, err := conn.Fetch(ctx, source, r.emitFunc(ctx, provider, &result))
		result.Fetched += fetched

		if err != nil {
			if errors.Is(err, ErrPersist) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			log.WithError(err).WithField("token", source.Token).Warn("board fetch failed, skipping")
			continue
		}
	}

	if err := r.heartbeats.Record(ctx, provider, result.Fetched, result.Inserted); err != nil {
		return result, fmt.Errorf("%w: record heartbeat: %v", ErrPersist, err)
	}

	log.WithFields(map[string]interface{}{
		"fetched":  result.Fetched,
		"inserted": result.Inserted,
	}).Info("provider run finished")
	return result, nil
}

// emitFunc builds the per-posting pipeline stage: optional role filter,
// experience and category classification, fingerprint, upsert.
func (r *Runner) emitFunc(ctx context.Context, provider types.Provider, result *Result) connector.EmitFunc {
	return func(p models.Posting) error {
		text := p.Title
		if p.Description != nil {
			text += " " + *p.Description
		}

		if r.Filtered && !classify.MatchesRole(text) {
			return nil
		}

		p.ExperienceBand = classify.InferExperienceBand(text)
		if p.Category == nil {
			if cat, ok := classify.CategoryOf(text); ok {
				s := string(cat)
				p.Category = &s
			}
		}

		itemID := ""
		if p.ProviderItemID != nil {
			itemID = *p.ProviderItemID
		}
		location := ""
		if p.Location != nil {
			location = *p.Location
		}
		p.Fingerprint = fingerprint.New(p.Company, p.Title, location, p.URL, itemID)

		inserted, err := r.postings.Upsert(ctx, &p)
		if err != nil {
			return fmt.Errorf("%w: upsert %s: %v", ErrPersist, p.Fingerprint, err)
		}
		if inserted {
			result.Inserted++
		}
		return nil
	}
}

// resolveSources prefers the registered board list and falls back to the
// built-in seeds when a provider has no rows yet.
func (r *Runner) resolveSources(ctx context.Context, provider types.Provider) ([]models.Source, error) {
	boards, err := r.sources.ListByProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("%w: list sources: %v", ErrPersist, err)
	}
	if len(boards) == 0 {
		boards = registry.Seeds(provider)
	}
	return boards, nil
}

// RunAll runs every configured provider, at most MaxParallel at a time,
// and reports per-provider results in provider order. Provider failures
// are joined into one error; successful providers still report.
func (r *Runner) RunAll(ctx context.Context) ([]Result, error) {
	parallel := r.MaxParallel
	if parallel < 1 {
		parallel = 1
	}

	results := make([]Result, len(types.AllProviders))
	errs := make([]error, len(types.AllProviders))

	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	for i, provider := range types.AllProviders {
		wg.Add(1)
		go func(i int, provider types.Provider) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := r.RunProvider(ctx, provider)
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", provider, err)
			}
		}(i, provider)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

// Providers lists the providers this runner can serve, for request
// validation at the API edge.
func (r *Runner) Providers() []types.Provider {
	out := make([]types.Provider, 0, len(r.connectors))
	for _, p := range types.AllProviders {
		if _, ok := r.connectors[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Summary renders results as a compact log line fragment.
func Summary(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, res := range results {
		parts = append(parts, fmt.Sprintf("%s=%d/%d", res.Provider, res.Inserted, res.Fetched))
	}
	return strings.Join(parts, " ")
}
