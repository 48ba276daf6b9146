// Package models defines the persisted data structures of the ingestion core.
package models

import (
	"time"

	"github.com/job-radar/internal/types"
)

// Posting is one canonical job advertisement. The fingerprint is the primary
// key; all other identity-relevant fields feed into it at normalization time.
type Posting struct {
	Fingerprint    string               `json:"fingerprint"`
	Provider       types.Provider       `json:"provider"`
	ProviderItemID *string              `json:"provider_item_id,omitempty"`
	Company        string               `json:"company"`
	Title          string               `json:"title"`
	Location       *string              `json:"location,omitempty"`
	IsRemote       bool                 `json:"is_remote"`
	EmploymentType *string              `json:"employment_type,omitempty"`
	ExperienceBand types.ExperienceBand `json:"experience_band,omitempty"`
	Category       *string              `json:"category,omitempty"`
	URL            string               `json:"url"`
	PostedAt       *time.Time           `json:"posted_at,omitempty"`
	FirstSeenAt    time.Time            `json:"first_seen_at"`
	LastSeenAt     time.Time            `json:"last_seen_at"`
	Description    *string              `json:"description,omitempty"`
	SalaryMin      *float64             `json:"salary_min,omitempty"`
	SalaryMax      *float64             `json:"salary_max,omitempty"`
	Currency       *string              `json:"currency,omitempty"`
	VisaTags       []string             `json:"visa_tags,omitempty"`
}
