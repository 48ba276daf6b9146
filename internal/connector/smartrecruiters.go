package connector

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

const (
	smartRecruitersPageSize = 200
	smartRecruitersMaxPages = 20 // safety cap, 4k postings per company
)

type smartRecruitersPosting struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ReleasedDate string `json:"releasedDate"`
	Ref          string `json:"ref"`
	ApplyURL     string `json:"applyUrl"`
	Location     *struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Remote  bool   `json:"remote"`
	} `json:"location"`
}

type smartRecruitersResponse struct {
	Content []smartRecruitersPosting `json:"content"`
}

// SmartRecruiters pages through
// api.smartrecruiters.com/v1/companies/{company}/postings with
// limit/offset, stopping on an empty or short page.
type SmartRecruiters struct {
	client  *client
	baseURL string
}

func NewSmartRecruiters(opts Options) *SmartRecruiters {
	return &SmartRecruiters{
		client:  newClient(opts),
		baseURL: "https://api.smartrecruiters.com",
	}
}

func (s *SmartRecruiters) Provider() types.Provider { return types.ProviderSmartRecruiters }

func (s *SmartRecruiters) Fetch(ctx context.Context, source models.Source, emit EmitFunc) (int, error) {
	fetched := 0
	offset := 0

	for page := 0; page < smartRecruitersMaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return fetched, err
		}

		endpoint := fmt.Sprintf("%s/v1/companies/%s/postings?limit=%d&offset=%d",
			s.baseURL, url.PathEscape(source.Token), smartRecruitersPageSize, offset)

		var resp smartRecruitersResponse
		if err := s.client.getJSON(ctx, endpoint, &resp); err != nil {
			return fetched, err
		}
		if len(resp.Content) == 0 {
			break
		}

		for _, p := range resp.Content {
			fetched++

			var parts []string
			remote := false
			if p.Location != nil {
				for _, part := range []string{p.Location.City, p.Location.Region, p.Location.Country} {
					if part != "" {
						parts = append(parts, part)
					}
				}
				remote = p.Location.Remote
			}
			location := strings.Join(parts, ", ")

			jobURL := p.ApplyURL
			if jobURL == "" {
				jobURL = p.Ref
			}
			if jobURL == "" && p.ID != "" {
				jobURL = fmt.Sprintf("https://jobs.smartrecruiters.com/%s/%s", source.Token, p.ID)
			}
			if p.Name == "" || jobURL == "" {
				continue
			}

			posting := models.Posting{
				Provider:       types.ProviderSmartRecruiters,
				ProviderItemID: strPtr(p.ID),
				Company:        source.DisplayName,
				Title:          p.Name,
				Location:       strPtr(location),
				IsRemote:       remote || looksRemote(p.Name, location),
				URL:            jobURL,
				PostedAt:       parseTime(p.ReleasedDate),
			}
			if err := emit(posting); err != nil {
				return fetched, err
			}
		}

		if len(resp.Content) < smartRecruitersPageSize {
			break
		}
		offset += smartRecruitersPageSize
	}
	return fetched, nil
}
