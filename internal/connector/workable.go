package connector

import (
	"context"
	"fmt"
	"net/url"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

type workableJob struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	ApplicationURL string `json:"application_url"`
	Location       string `json:"location"`
	UpdatedAt      string `json:"updated_at"`
	PublishedAt    string `json:"published_at"`
	State          string `json:"state"`
}

type workableResponse struct {
	Jobs []workableJob `json:"jobs"`
}

// Workable reads the widget API at
// apply.workable.com/api/v1/widget/accounts/{subdomain}. Entries that are
// not in the published state are skipped before normalization.
type Workable struct {
	client  *client
	baseURL string
}

func NewWorkable(opts Options) *Workable {
	return &Workable{
		client:  newClient(opts),
		baseURL: "https://apply.workable.com",
	}
}

func (w *Workable) Provider() types.Provider { return types.ProviderWorkable }

func (w *Workable) Fetch(ctx context.Context, source models.Source, emit EmitFunc) (int, error) {
	endpoint := fmt.Sprintf("%s/api/v1/widget/accounts/%s", w.baseURL, url.PathEscape(source.Token))

	var resp workableResponse
	if err := w.client.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, err
	}

	fetched := 0
	for _, job := range resp.Jobs {
		if job.State != "" && job.State != "published" {
			continue
		}
		fetched++

		jobURL := job.URL
		if jobURL == "" {
			jobURL = job.ApplicationURL
		}
		if job.Title == "" || jobURL == "" {
			continue
		}

		posting := models.Posting{
			Provider: types.ProviderWorkable,
			Company:  source.DisplayName,
			Title:    job.Title,
			Location: strPtr(job.Location),
			IsRemote: looksRemote(job.Location, job.Title),
			URL:      jobURL,
			PostedAt: firstTime(parseTime(job.UpdatedAt), parseTime(job.PublishedAt)),
		}
		if err := emit(posting); err != nil {
			return fetched, err
		}
	}
	return fetched, nil
}
