package connector

import (
	"context"
	"fmt"
	"strconv"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	CreatedAt   string `json:"created_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Metadata []struct {
		Name  string      `json:"name"`
		Value interface{} `json:"value"`
	} `json:"metadata"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Greenhouse reads the public board API at
// boards-api.greenhouse.io/v1/boards/{token}/jobs. The full listing comes
// back in one response, no paging.
type Greenhouse struct {
	client  *client
	baseURL string
}

func NewGreenhouse(opts Options) *Greenhouse {
	return &Greenhouse{
		client:  newClient(opts),
		baseURL: "https://boards-api.greenhouse.io",
	}
}

func (g *Greenhouse) Provider() types.Provider { return types.ProviderGreenhouse }

func (g *Greenhouse) Fetch(ctx context.Context, source models.Source, emit EmitFunc) (int, error) {
	url := fmt.Sprintf("%s/v1/boards/%s/jobs", g.baseURL, source.Token)

	var resp greenhouseResponse
	if err := g.client.getJSON(ctx, url, &resp); err != nil {
		return 0, err
	}

	fetched := 0
	for _, job := range resp.Jobs {
		fetched++
		if job.Title == "" || job.AbsoluteURL == "" {
			continue
		}

		var dept *string
		if len(job.Departments) > 0 {
			dept = strPtr(job.Departments[0].Name)
		}

		posting := models.Posting{
			Provider:       types.ProviderGreenhouse,
			ProviderItemID: strPtr(strconv.FormatInt(job.ID, 10)),
			Company:        source.DisplayName,
			Title:          job.Title,
			Location:       strPtr(job.Location.Name),
			IsRemote:       looksRemote(job.Location.Name),
			Category:       dept,
			URL:            job.AbsoluteURL,
			PostedAt:       firstTime(parseTime(job.UpdatedAt), parseTime(job.CreatedAt)),
		}
		if err := emit(posting); err != nil {
			return fetched, err
		}
	}
	return fetched, nil
}
