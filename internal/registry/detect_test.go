package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/job-radar/internal/types"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		provider types.Provider
		token    string
		display  string
	}{
		{
			name:     "greenhouse boards path",
			url:      "https://boards.greenhouse.io/stripe",
			provider: types.ProviderGreenhouse,
			token:    "stripe",
			display:  "Stripe",
		},
		{
			name:     "greenhouse with trailing job path",
			url:      "https://boards.greenhouse.io/dbtlabsinc/jobs/123",
			provider: types.ProviderGreenhouse,
			token:    "dbtlabsinc",
			display:  "Dbtlabsinc",
		},
		{
			name:     "lever",
			url:      "https://jobs.lever.co/plaid",
			provider: types.ProviderLever,
			token:    "plaid",
			display:  "Plaid",
		},
		{
			name:     "ashby keeps board casing",
			url:      "https://jobs.ashbyhq.com/Linear",
			provider: types.ProviderAshby,
			token:    "Linear",
			display:  "Linear",
		},
		{
			name:     "workable subdomain",
			url:      "https://typeform.workable.com/",
			provider: types.ProviderWorkable,
			token:    "typeform",
			display:  "Typeform",
		},
		{
			name:     "workable apply path",
			url:      "https://apply.workable.com/hotjar/",
			provider: types.ProviderWorkable,
			token:    "hotjar",
			display:  "Hotjar",
		},
		{
			name:     "recruitee subdomain",
			url:      "https://mollie.recruitee.com/",
			provider: types.ProviderRecruitee,
			token:    "mollie",
			display:  "Mollie",
		},
		{
			name:     "smartrecruiters careers path",
			url:      "https://careers.smartrecruiters.com/boschgroup",
			provider: types.ProviderSmartRecruiters,
			token:    "boschgroup",
			display:  "Boschgroup",
		},
		{
			name:     "workday with site segment",
			url:      "https://nvidia.wd5.myworkdayjobs.com/NVIDIA",
			provider: types.ProviderWorkday,
			token:    "nvidia.wd5.myworkdayjobs.com:nvidia:NVIDIA",
			display:  "Nvidia",
		},
		{
			name:     "workday skips locale segment",
			url:      "https://adobe.wd5.myworkdayjobs.com/en-US/Adobe",
			provider: types.ProviderWorkday,
			token:    "adobe.wd5.myworkdayjobs.com:adobe:Adobe",
			display:  "Adobe",
		},
		{
			name:     "slug with separators gets a pretty name",
			url:      "https://jobs.lever.co/dbt-labs",
			provider: types.ProviderLever,
			token:    "dbt-labs",
			display:  "Dbt Labs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Detect(tt.url)
			require.True(t, ok)
			assert.Equal(t, tt.provider, d.Provider)
			assert.Equal(t, tt.token, d.Token)
			assert.Equal(t, tt.display, d.DisplayName)
		})
	}
}

func TestDetect_NoMatch(t *testing.T) {
	for _, raw := range []string{
		"",
		"not a url",
		"https://example.com/careers",
		"https://boards.greenhouse.io/",
		"https://www.recruitee.com/",
	} {
		_, ok := Detect(raw)
		assert.False(t, ok, "expected no detection for %q", raw)
	}
}

func TestParseWorkdayToken(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		host   string
		tenant string
		site   string
	}{
		{
			name:   "full url",
			token:  "https://nvidia.wd5.myworkdayjobs.com/NVIDIA/",
			host:   "nvidia.wd5.myworkdayjobs.com",
			tenant: "nvidia",
			site:   "NVIDIA",
		},
		{
			name:   "url with locale",
			token:  "https://adobe.wd5.myworkdayjobs.com/en-US/Adobe",
			host:   "adobe.wd5.myworkdayjobs.com",
			tenant: "adobe",
			site:   "Adobe",
		},
		{
			name:   "compact host only",
			token:  "nvidia.wd5.myworkdayjobs.com",
			host:   "nvidia.wd5.myworkdayjobs.com",
			tenant: "nvidia",
			site:   "",
		},
		{
			name:   "compact with tenant and site",
			token:  "nvidia.wd5.myworkdayjobs.com:nvidia:NVIDIAExternalCareerSite",
			host:   "nvidia.wd5.myworkdayjobs.com",
			tenant: "nvidia",
			site:   "NVIDIAExternalCareerSite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := ParseWorkdayToken(tt.token)
			require.True(t, ok)
			assert.Equal(t, tt.host, loc.Host)
			assert.Equal(t, tt.tenant, loc.Tenant)
			assert.Equal(t, tt.site, loc.SiteHint)
		})
	}

	_, ok := ParseWorkdayToken("")
	assert.False(t, ok)
}

func TestSeeds(t *testing.T) {
	for _, p := range types.AllProviders {
		seeds := Seeds(p)
		assert.NotEmpty(t, seeds, "provider %s must have seed boards", p)
		for _, s := range seeds {
			assert.Equal(t, p, s.Provider)
			assert.True(t, s.Active)
			assert.NotEmpty(t, s.Token)
			assert.NotEmpty(t, s.DisplayName)
		}
	}
}
