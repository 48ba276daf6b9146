package connector

import (
	"context"
	"fmt"
	"net/url"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

type ashbyJob struct {
	Title          string `json:"title"`
	Location       string `json:"location"`
	JobURL         string `json:"jobUrl"`
	ApplyURL       string `json:"applyUrl"`
	PublishedAt    string `json:"publishedAt"`
	IsRemote       bool   `json:"isRemote"`
	Department     string `json:"department"`
	EmploymentType string `json:"employmentType"`
}

type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

// Ashby reads the posting API at
// api.ashbyhq.com/posting-api/job-board/{board}. Board names can contain
// spaces ("dbt Labs"), so the token is path-escaped.
type Ashby struct {
	client  *client
	baseURL string
}

func NewAshby(opts Options) *Ashby {
	return &Ashby{
		client:  newClient(opts),
		baseURL: "https://api.ashbyhq.com",
	}
}

func (a *Ashby) Provider() types.Provider { return types.ProviderAshby }

func (a *Ashby) Fetch(ctx context.Context, source models.Source, emit EmitFunc) (int, error) {
	endpoint := fmt.Sprintf("%s/posting-api/job-board/%s", a.baseURL, url.PathEscape(source.Token))

	var resp ashbyResponse
	if err := a.client.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, err
	}

	fetched := 0
	for _, job := range resp.Jobs {
		fetched++
		jobURL := job.JobURL
		if jobURL == "" {
			jobURL = job.ApplyURL
		}
		if job.Title == "" || jobURL == "" {
			continue
		}

		posting := models.Posting{
			Provider:       types.ProviderAshby,
			Company:        source.DisplayName,
			Title:          job.Title,
			Location:       strPtr(job.Location),
			IsRemote:       job.IsRemote || looksRemote(job.Location, job.Title),
			EmploymentType: strPtr(job.EmploymentType),
			Category:       strPtr(job.Department),
			URL:            jobURL,
			PostedAt:       parseTime(job.PublishedAt),
		}
		if err := emit(posting); err != nil {
			return fetched, err
		}
	}
	return fetched, nil
}
