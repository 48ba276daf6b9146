package connector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/registry"
	"github.com/job-radar/internal/types"
)

const (
	workdayPageSize = 50
	workdayMaxPages = 60 // safety cap, 3k postings per career site
)

// Workday drives the CXS JSON endpoints behind myworkdayjobs.com boards.
// Tenants disagree about payload shape (jobPostings vs items, title.label
// vs title, timePosted vs postedOn), so rows are parsed leniently with
// gjson instead of fixed structs. The career site serving a tenant is
// discovered once and memoized in Redis.
type Workday struct {
	client *client
	sites  *SiteCache
	// scheme prefix for built URLs, "https://" outside tests
	scheme string
}

func NewWorkday(opts Options, sites *SiteCache) *Workday {
	return &Workday{
		client: newClient(opts),
		sites:  sites,
		scheme: "https://",
	}
}

func (w *Workday) Provider() types.Provider { return types.ProviderWorkday }

func (w *Workday) Fetch(ctx context.Context, source models.Source, emit EmitFunc) (int, error) {
	loc, ok := registry.ParseWorkdayToken(source.Token)
	if !ok {
		return 0, fmt.Errorf("workday: unusable token %q", source.Token)
	}

	sites := w.candidateSites(ctx, loc)

	fetched := 0
	for _, site := range sites {
		n, err := w.fetchSite(ctx, loc, site, source.DisplayName, emit)
		fetched += n
		if err != nil {
			return fetched, err
		}
		if n > 0 {
			w.sites.Put(ctx, loc.Tenant, site)
		}
	}
	return fetched, nil
}

// candidateSites resolves which career sites to walk: the token's explicit
// hint wins, then the memoized site, then live discovery, then the tenant
// name upper-cased as a last guess.
func (w *Workday) candidateSites(ctx context.Context, loc *registry.WorkdayLocator) []string {
	if loc.SiteHint != "" {
		return []string{loc.SiteHint}
	}
	if site, ok := w.sites.Get(ctx, loc.Tenant); ok {
		return []string{site}
	}
	if sites := w.discoverSites(ctx, loc); len(sites) > 0 {
		return sites
	}
	return []string{strings.ToUpper(loc.Tenant)}
}

// discoverSites probes the two shapes of the sites listing Workday exposes.
func (w *Workday) discoverSites(ctx context.Context, loc *registry.WorkdayLocator) []string {
	paths := []string{
		fmt.Sprintf("%s%s/wday/cxs/%s/sites", w.scheme, loc.Host, loc.Tenant),
		fmt.Sprintf("%s%s/wday/cxs/%s/config/sites", w.scheme, loc.Host, loc.Tenant),
	}

	seen := make(map[string]bool)
	var sites []string
	for _, path := range paths {
		body, err := w.client.getRaw(ctx, path)
		if err != nil {
			continue
		}
		for _, entry := range gjson.GetBytes(body, "sites").Array() {
			name := entry.String()
			if entry.IsObject() {
				name = entry.Get("site").String()
				if name == "" {
					name = entry.Get("name").String()
				}
			}
			if name != "" && !seen[name] {
				seen[name] = true
				sites = append(sites, name)
			}
		}
		if len(sites) > 0 {
			break
		}
	}
	return sites
}

func (w *Workday) fetchSite(ctx context.Context, loc *registry.WorkdayLocator, site, company string, emit EmitFunc) (int, error) {
	endpoint := fmt.Sprintf("%s%s/wday/cxs/%s/%s/jobs", w.scheme, loc.Host, loc.Tenant, url.PathEscape(site))

	fetched := 0
	offset := 0
	for page := 0; page < workdayMaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return fetched, err
		}

		payload := map[string]interface{}{
			"appliedFacets": map[string]interface{}{},
			"limit":         workdayPageSize,
			"offset":        offset,
			"searchText":    "",
		}
		body, err := w.client.postRaw(ctx, endpoint, payload)
		if err != nil {
			// an unknown site is a miss, not a tenant failure
			if se, ok := err.(*StatusError); ok && page == 0 && se.Code == 404 {
				return fetched, nil
			}
			return fetched, err
		}

		rows := gjson.GetBytes(body, "jobPostings").Array()
		if len(rows) == 0 {
			rows = gjson.GetBytes(body, "items").Array()
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			fetched++
			title := workdayTitle(row)
			jobURL := workdayURL(w.scheme+loc.Host, row)
			if title == "" || jobURL == "" {
				continue
			}

			location := workdayLocation(row)
			posting := models.Posting{
				Provider:       types.ProviderWorkday,
				ProviderItemID: strPtr(row.Get("id").String()),
				Company:        company,
				Title:          title,
				Location:       strPtr(location),
				IsRemote:       looksRemote(title, location),
				Category:       strPtr(row.Get("category").String()),
				URL:            jobURL,
				PostedAt:       workdayPostedAt(row),
			}
			if err := emit(posting); err != nil {
				return fetched, err
			}
		}

		if len(rows) < workdayPageSize {
			break
		}
		offset += workdayPageSize
	}
	return fetched, nil
}

func workdayTitle(row gjson.Result) string {
	for _, path := range []string{"title.label", "title", "displayJobTitle", "positionTitle"} {
		if v := strings.TrimSpace(row.Get(path).String()); v != "" {
			return v
		}
	}
	return ""
}

func workdayLocation(row gjson.Result) string {
	if v := strings.TrimSpace(row.Get("locationsText").String()); v != "" {
		return v
	}
	var parts []string
	for _, entry := range row.Get("locations").Array() {
		label := entry.Get("label").String()
		if label == "" {
			label = entry.String()
		}
		if label != "" {
			parts = append(parts, label)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	for _, sub := range row.Get("subtitles").Array() {
		if strings.Contains(strings.ToLower(sub.Get("label").String()), "location") {
			if text := strings.TrimSpace(sub.Get("text").String()); text != "" {
				return text
			}
		}
	}
	return ""
}

func workdayURL(base string, row gjson.Result) string {
	if v := row.Get("externalUrl").String(); v != "" {
		return v
	}
	if v := row.Get("externalPath").String(); v != "" {
		return base + v
	}
	return row.Get("postingUrl").String()
}

func workdayPostedAt(row gjson.Result) *time.Time {
	for _, path := range []string{"timePosted", "postedOn", "postedDate"} {
		v := row.Get(path)
		if !v.Exists() {
			continue
		}
		if v.Type == gjson.Number {
			if t := parseEpochMillis(v.Int()); t != nil {
				return t
			}
			continue
		}
		if t := parseTime(v.String()); t != nil {
			return t
		}
	}
	return nil
}
