// Package types defines shared enumerations used across the ingestion core.
package types

import "fmt"

// Provider identifies one of the supported applicant tracking systems.
type Provider string

const (
	ProviderGreenhouse      Provider = "greenhouse"
	ProviderLever           Provider = "lever"
	ProviderAshby           Provider = "ashby"
	ProviderWorkable        Provider = "workable"
	ProviderRecruitee       Provider = "recruitee"
	ProviderSmartRecruiters Provider = "smartrecruiters"
	ProviderWorkday         Provider = "workday"
)

// AllProviders lists every supported provider in run order.
var AllProviders = []Provider{
	ProviderGreenhouse,
	ProviderLever,
	ProviderAshby,
	ProviderWorkable,
	ProviderRecruitee,
	ProviderSmartRecruiters,
	ProviderWorkday,
}

// ParseProvider validates a provider tag from user input.
func ParseProvider(s string) (Provider, error) {
	p := Provider(s)
	for _, known := range AllProviders {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// ExperienceBand is a coarse classification of the experience a posting asks
// for. BandNone means "no hint detected", not "zero years".
type ExperienceBand string

const (
	BandIntern    ExperienceBand = "intern"
	BandZeroOne   ExperienceBand = "0-1"
	BandZeroTwo   ExperienceBand = "0-2"
	BandOneThree  ExperienceBand = "1-3"
	BandThreeFive ExperienceBand = "3-5"
	BandNone      ExperienceBand = ""
)

// Category is a role bucket a posting title falls into.
type Category string

const (
	CategorySoftware        Category = "software"
	CategoryDataEngineering Category = "data_engineering"
	CategoryDataScience     Category = "data_science"
	CategoryDevOps          Category = "devops"
	CategorySecurity        Category = "security"
	CategoryQA              Category = "qa"
	CategoryAnalytics       Category = "analytics"
	CategoryProduct         Category = "product"
)
