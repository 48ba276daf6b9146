package connector

import (
	"context"
	"fmt"
	"regexp"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

type leverPosting struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	HostedURL        string `json:"hostedUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
	CreatedAt        int64  `json:"createdAt"`
	WorkplaceType    string `json:"workplaceType"`
	Categories       struct {
		Team       string `json:"team"`
		Location   string `json:"location"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	SalaryRange *struct {
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
		Currency string  `json:"currency"`
	} `json:"salaryRange2"`
	Tags []string `json:"tags"`
}

var visaTagPattern = regexp.MustCompile(`(?i)visa`)

// Lever reads api.lever.co/v0/postings/{company}?mode=json, which returns
// the whole board as one array. It is the richest provider payload here:
// plain-text descriptions, salary ranges, and tags all come for free.
type Lever struct {
	client  *client
	baseURL string
}

func NewLever(opts Options) *Lever {
	return &Lever{
		client:  newClient(opts),
		baseURL: "https://api.lever.co",
	}
}

func (l *Lever) Provider() types.Provider { return types.ProviderLever }

func (l *Lever) Fetch(ctx context.Context, source models.Source, emit EmitFunc) (int, error) {
	url := fmt.Sprintf("%s/v0/postings/%s?mode=json", l.baseURL, source.Token)

	var postings []leverPosting
	if err := l.client.getJSON(ctx, url, &postings); err != nil {
		return 0, err
	}

	fetched := 0
	for _, p := range postings {
		fetched++
		if p.Text == "" || p.HostedURL == "" {
			continue
		}

		var visaTags []string
		for _, tag := range p.Tags {
			if visaTagPattern.MatchString(tag) {
				visaTags = append(visaTags, tag)
			}
		}

		posting := models.Posting{
			Provider:       types.ProviderLever,
			ProviderItemID: strPtr(p.ID),
			Company:        source.DisplayName,
			Title:          p.Text,
			Location:       strPtr(p.Categories.Location),
			IsRemote:       p.WorkplaceType == "remote" || looksRemote(p.Categories.Location),
			EmploymentType: strPtr(p.Categories.Commitment),
			Category:       strPtr(p.Categories.Team),
			URL:            p.HostedURL,
			PostedAt:       parseEpochMillis(p.CreatedAt),
			Description:    l.client.description(p.DescriptionPlain),
			VisaTags:       visaTags,
		}
		if p.SalaryRange != nil {
			min, max := p.SalaryRange.Min, p.SalaryRange.Max
			posting.SalaryMin = &min
			posting.SalaryMax = &max
			posting.Currency = strPtr(p.SalaryRange.Currency)
		}
		if err := emit(posting); err != nil {
			return fetched, err
		}
	}
	return fetched, nil
}
