package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

type recruiteeOffer struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	State     string `json:"state"`
	City      string `json:"city"`
	Country   string `json:"country"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Location  *struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
}

type recruiteeResponse struct {
	Offers []recruiteeOffer `json:"offers"`
}

// Recruitee reads {subdomain}.recruitee.com/api/offers/. The offer URL is
// rebuilt from the slug because some tenants omit the url field.
type Recruitee struct {
	client *client
	// host pattern with a %s slot for the subdomain, swapped in tests
	hostFormat string
}

func NewRecruitee(opts Options) *Recruitee {
	return &Recruitee{
		client:     newClient(opts),
		hostFormat: "https://%s.recruitee.com",
	}
}

func (r *Recruitee) Provider() types.Provider { return types.ProviderRecruitee }

func (r *Recruitee) Fetch(ctx context.Context, source models.Source, emit EmitFunc) (int, error) {
	base := fmt.Sprintf(r.hostFormat, source.Token)

	var resp recruiteeResponse
	if err := r.client.getJSON(ctx, base+"/api/offers/", &resp); err != nil {
		return 0, err
	}

	fetched := 0
	for _, offer := range resp.Offers {
		if offer.State != "" && offer.State != "published" {
			continue
		}
		fetched++

		city, country := offer.City, offer.Country
		if offer.Location != nil {
			if offer.Location.City != "" {
				city = offer.Location.City
			}
			if offer.Location.Country != "" {
				country = offer.Location.Country
			}
		}
		var parts []string
		for _, p := range []string{city, country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		location := strings.Join(parts, ", ")

		jobURL := offer.URL
		if offer.Slug != "" {
			jobURL = base + "/o/" + offer.Slug
		}
		if offer.Title == "" || jobURL == "" {
			continue
		}

		posting := models.Posting{
			Provider:       types.ProviderRecruitee,
			ProviderItemID: strPtr(offer.Slug),
			Company:        source.DisplayName,
			Title:          offer.Title,
			Location:       strPtr(location),
			IsRemote:       looksRemote(location, offer.Title),
			URL:            jobURL,
			PostedAt:       firstTime(parseTime(offer.UpdatedAt), parseTime(offer.CreatedAt)),
		}
		if err := emit(posting); err != nil {
			return fetched, err
		}
	}
	return fetched, nil
}
