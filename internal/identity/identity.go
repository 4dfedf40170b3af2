// Package identity derives the deterministic external id used as the
// idempotency key against the ledger.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"fjacquet/csv-firefly/internal/models"
)

// ExternalID computes the content-derived fingerprint of a transaction from
// its defining fields: ISO date, amount, account and description, plus an
// optional disambiguator for sources whose rows carry no natural unique key.
// Identical inputs always yield the identical id, so re-importing an
// unchanged file reproduces the same ids and duplicates are suppressed.
//
// The description must already carry any check-number suffix when this runs,
// or dedup breaks across runs.
func ExternalID(tx *models.Transaction, disambiguator string) string {
	parts := []string{
		tx.Date.Format("2006-01-02T15:04:05"),
		tx.Amount.String(),
		tx.Account,
		tx.Description,
	}
	if disambiguator != "" {
		parts = append(parts, disambiguator)
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "-")))
	return hex.EncodeToString(sum[:])
}
