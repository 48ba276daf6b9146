package models

import (
	"time"

	"github.com/job-radar/internal/types"
)

// Source is one registered company board: a (provider, token) pair plus a
// display name. Tokens are provider-specific: a board slug for Greenhouse
// and Lever, a subdomain for Workable and Recruitee, a composite
// host:tenant[:site] locator for Workday.
type Source struct {
	Provider    types.Provider `json:"provider"`
	Token       string         `json:"token"`
	DisplayName string         `json:"display_name"`
	Active      bool           `json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
