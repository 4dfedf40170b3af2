// Package transfer recognizes the legs of internal transfers between two of
// the user's own accounts from configured description mappings.
package transfer

import (
	"fjacquet/csv-firefly/internal/config"
	"fjacquet/csv-firefly/internal/models"
)

// Classify marks the transaction as a transfer leg when its raw statement
// description exactly matches one of the profile's transfer mappings. The
// outbound mapping is checked first and wins if both contain the key.
//
// Matching uses the raw, pre-augmentation description: the mappings are
// keyed on statement wording, not on the identity-generation string that may
// carry a check-number suffix.
func Classify(tx *models.Transaction, rawDescription string, profile *config.Profile) {
	if destination, ok := profile.TransfersOut[rawDescription]; ok {
		tx.Type = models.TypeTransfer
		tx.SourceName = tx.Account
		tx.DestinationName = destination
		return
	}

	if source, ok := profile.TransfersIn[rawDescription]; ok {
		tx.Type = models.TypeTransfer
		tx.SourceName = source
		tx.DestinationName = tx.Account
	}
}
