// Package registry maintains the dynamic list of company boards the
// connectors poll: URL auto-detection, built-in seed boards, and the
// Workday composite-token format.
package registry

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/job-radar/internal/types"
)

// Detection is an advisory guess derived from a board URL. Callers must
// confirm before persisting it; ambiguity yields no detection at all.
type Detection struct {
	Provider    types.Provider
	Token       string
	DisplayName string
}

var localeSegment = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)

// prettyName turns a board slug into a display name: "dbt-labs" → "Dbt Labs".
func prettyName(slug string) string {
	decoded, err := url.PathUnescape(slug)
	if err != nil {
		decoded = slug
	}
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(decoded)
	words := strings.Fields(cleaned)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Detect parses a company-board URL against per-provider shape rules and
// returns a best-effort (provider, token, display name) guess. Unrecognized
// or ambiguous shapes return false, never a fabricated guess.
func Detect(raw string) (*Detection, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil, false
	}

	host := strings.ToLower(u.Hostname())
	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	segment := func(i int) string {
		if i >= 0 && i < len(parts) {
			return parts[i]
		}
		return ""
	}

	result := func(p types.Provider, token string) (*Detection, bool) {
		if token == "" {
			return nil, false
		}
		return &Detection{Provider: p, Token: token, DisplayName: prettyName(token)}, true
	}

	subdomain := func() string {
		sub := strings.SplitN(host, ".", 2)[0]
		if sub == "www" || sub == "apply" || sub == "jobs" || sub == "careers" {
			return ""
		}
		return sub
	}

	switch {
	// boards.greenhouse.io/<token> or job-boards.greenhouse.io/<token>
	case strings.HasSuffix(host, "greenhouse.io"):
		token := segment(0)
		if token == "boards" || token == "board" || token == "embed" {
			token = segment(1)
		}
		return result(types.ProviderGreenhouse, strings.ToLower(token))

	// jobs.lever.co/<company>
	case strings.HasSuffix(host, "lever.co"):
		return result(types.ProviderLever, strings.ToLower(segment(0)))

	// jobs.ashbyhq.com/<Board>; board names are case-sensitive, keep as-is
	case strings.HasSuffix(host, "ashbyhq.com"):
		return result(types.ProviderAshby, segment(0))

	// <subdomain>.workable.com or apply.workable.com/<subdomain>
	case strings.HasSuffix(host, "workable.com"):
		if sub := subdomain(); sub != "" {
			return result(types.ProviderWorkable, sub)
		}
		return result(types.ProviderWorkable, strings.ToLower(segment(0)))

	// <subdomain>.recruitee.com
	case strings.HasSuffix(host, "recruitee.com"):
		return result(types.ProviderRecruitee, subdomain())

	// careers.smartrecruiters.com/<CompanySlug> or jobs.smartrecruiters.com/<slug>
	case strings.HasSuffix(host, "smartrecruiters.com"):
		return result(types.ProviderSmartRecruiters, segment(0))

	// <tenant>.wd5.myworkdayjobs.com/(<locale>/)?<Site>; token keeps the
	// full host plus tenant so the connector can rebuild the cxs endpoint
	case strings.HasSuffix(host, "myworkdayjobs.com"):
		site := segment(0)
		if localeSegment.MatchString(site) {
			site = segment(1)
		}
		tenant := strings.SplitN(host, ".", 2)[0]
		if tenant == "" || tenant == "www" {
			return nil, false
		}
		token := host + ":" + tenant
		if site != "" {
			token += ":" + site
		}
		d, ok := result(types.ProviderWorkday, token)
		if ok {
			d.DisplayName = prettyName(tenant)
		}
		return d, ok
	}

	return nil, false
}

// WorkdayLocator is the parsed form of a Workday source token.
type WorkdayLocator struct {
	Host     string // nvidia.wd5.myworkdayjobs.com
	Tenant   string // nvidia
	SiteHint string // optional career-site name, e.g. "NVIDIAExternalCareerSite"
}

// ParseWorkdayToken accepts either a full board URL
// (https://nvidia.wd5.myworkdayjobs.com/NVIDIA/) or the compact
// host:tenant[:site] form and returns the pieces the connector needs.
func ParseWorkdayToken(token string) (*WorkdayLocator, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}

	if strings.HasPrefix(token, "http://") || strings.HasPrefix(token, "https://") {
		u, err := url.Parse(token)
		if err != nil || u.Host == "" {
			return nil, false
		}
		parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
		site := ""
		if len(parts) > 0 {
			site = parts[0]
			if localeSegment.MatchString(site) && len(parts) > 1 {
				site = parts[1]
			}
		}
		tenant := strings.ToLower(strings.SplitN(u.Host, ".", 2)[0])
		if site != "" {
			tenant = strings.ToLower(site)
		}
		return &WorkdayLocator{Host: u.Host, Tenant: tenant, SiteHint: site}, true
	}

	parts := strings.Split(token, ":")
	host := parts[0]
	if host == "" {
		return nil, false
	}
	tenant := strings.ToLower(strings.SplitN(host, ".", 2)[0])
	if len(parts) > 1 && parts[1] != "" {
		tenant = strings.ToLower(parts[1])
	}
	loc := &WorkdayLocator{Host: host, Tenant: tenant}
	if len(parts) > 2 {
		loc.SiteHint = parts[2]
	}
	return loc, true
}
