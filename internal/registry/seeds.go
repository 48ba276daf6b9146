package registry

import (
	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

// seed is a built-in board polled when the registry holds no active sources
// for a provider, so a fresh deployment produces data before any
// registration has happened.
type seed struct {
	token       string
	displayName string
}

var seedBoards = map[types.Provider][]seed{
	types.ProviderGreenhouse: {
		{"stripe", "Stripe"},
		{"databricks", "Databricks"},
		{"gitlab", "GitLab"},
	},
	types.ProviderLever: {
		{"plaid", "Plaid"},
		{"duolingo", "Duolingo"},
	},
	types.ProviderAshby: {
		{"linear", "Linear"},
		{"vercel", "Vercel"},
	},
	types.ProviderWorkable: {
		{"typeform", "Typeform"},
		{"hotjar", "Hotjar"},
	},
	types.ProviderRecruitee: {
		{"mollie", "Mollie"},
		{"getyourguide", "GetYourGuide"},
	},
	types.ProviderSmartRecruiters: {
		{"nvidia", "NVIDIA"},
		{"boschgroup", "Bosch"},
	},
	types.ProviderWorkday: {
		{"nvidia.wd5.myworkdayjobs.com:nvidia", "NVIDIA"},
		{"adobe.wd5.myworkdayjobs.com:adobe", "Adobe"},
	},
}

// Seeds returns the built-in fallback boards for a provider. The returned
// sources are marked active but are never persisted.
func Seeds(provider types.Provider) []models.Source {
	boards := seedBoards[provider]
	out := make([]models.Source, 0, len(boards))
	for _, b := range boards {
		out = append(out, models.Source{
			Provider:    provider,
			Token:       b.token,
			DisplayName: b.displayName,
			Active:      true,
		})
	}
	return out
}
