// Package fingerprint produces the stable identity hash used to deduplicate
// postings across providers and across repeated runs.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// norm lowercases, collapses internal whitespace, and trims a field so that
// cosmetic differences between provider payloads do not change the digest.
func norm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// New returns the hex-encoded SHA-256 digest identifying a posting. The
// digest is a deterministic function of the normalized non-empty inputs
// joined with "|"; identical logical inputs always yield the identical
// digest. All-empty input hashes the empty string rather than failing.
func New(company, title, location, url, providerItemID string) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{company, title, location, url, providerItemID} {
		if n := norm(s); n != "" {
			parts = append(parts, n)
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
