// Package importer drives the per-transaction reconciliation pipeline:
// normalize, dedup check, transfer match, create.
package importer

import (
	"fmt"

	"fjacquet/csv-firefly/internal/config"
	"fjacquet/csv-firefly/internal/csvparser"
	"fjacquet/csv-firefly/internal/firefly"
	"fjacquet/csv-firefly/internal/identity"
	"fjacquet/csv-firefly/internal/models"
	"fjacquet/csv-firefly/internal/transfer"

	"github.com/sirupsen/logrus"
)

// Gateway is the ledger operations the importer consumes. *firefly.Client
// implements it; tests substitute their own.
type Gateway interface {
	ListAccounts() (map[string]string, error)
	FindByExternalID(externalID string) (*firefly.TransactionRead, error)
	FindTransferCandidate(q firefly.TransferQuery) (*firefly.TransactionRead, error)
	CreateTransaction(split firefly.TransactionSplit) error
}

// Outcome is the terminal state of one processed transaction.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeMatched Outcome = "matched"
)

// Record pairs a processed transaction with its outcome.
type Record struct {
	Tx      models.Transaction
	Outcome Outcome
}

// Result is the observable output of a run: the three counters plus the
// per-transaction records for optional reporting.
type Result struct {
	Created          int
	Skipped          int
	TransfersMatched int
	Records          []Record
}

// Importer reconciles statement CSV files against the ledger. All state is
// run-scoped; each transaction is fully resolved before the next is read, so
// a created transaction is visible to the checks of the ones after it.
type Importer struct {
	gateway Gateway
	profile *config.Profile
	log     *logrus.Logger

	// accounts is a read-only name-to-id snapshot of the ledger's account
	// directory, taken once at construction and never refreshed mid-run.
	accounts map[string]string
}

// New builds an importer and takes the account-directory snapshot.
func New(gateway Gateway, profile *config.Profile, logger *logrus.Logger) (*Importer, error) {
	if logger == nil {
		logger = config.Logger
	}

	accounts, err := gateway.ListAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account directory: %w", err)
	}

	imp := &Importer{
		gateway:  gateway,
		profile:  profile,
		log:      logger,
		accounts: accounts,
	}
	imp.warnUnknownAccounts()
	return imp, nil
}

// warnUnknownAccounts flags profile account names the ledger does not know.
// They are warnings, not errors: Firefly creates missing accounts on the fly.
func (imp *Importer) warnUnknownAccounts() {
	check := func(name, role string) {
		if _, ok := imp.accounts[name]; !ok {
			imp.log.WithFields(logrus.Fields{
				"account": name,
				"role":    role,
			}).Warn("Account not present in ledger directory")
		}
	}

	check(imp.profile.Account, "statement owner")
	for _, destination := range imp.profile.TransfersOut {
		check(destination, "transfer destination")
	}
	for _, source := range imp.profile.TransfersIn {
		check(source, "transfer source")
	}
}

// Run imports one CSV file and returns the run result. Processing is
// strictly sequential in the order the parser emits (reverse file order);
// any gateway failure aborts immediately.
func (imp *Importer) Run(csvPath string) (*Result, error) {
	entries, err := csvparser.ParseFile(csvPath, imp.profile)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, entry := range entries {
		record, err := imp.process(entry)
		if err != nil {
			return nil, err
		}

		switch record.Outcome {
		case OutcomeCreated:
			result.Created++
		case OutcomeSkipped:
			result.Skipped++
		case OutcomeMatched:
			result.TransfersMatched++
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

// process resolves one transaction to its terminal state.
func (imp *Importer) process(entry csvparser.Entry) (Record, error) {
	tx := entry.Tx

	// Identity is derived from the augmented description; classification
	// matches on the raw one. Neither depends on the other.
	tx.ExternalID = identity.ExternalID(&tx, entry.Disambiguator)
	transfer.Classify(&tx, entry.RawDescription, imp.profile)

	existing, err := imp.gateway.FindByExternalID(tx.ExternalID)
	if err != nil {
		return Record{}, err
	}
	if existing != nil {
		imp.log.WithField("external_id", tx.ExternalID).Info("Transaction already exists")
		return Record{Tx: tx, Outcome: OutcomeSkipped}, nil
	}

	if tx.IsTransfer() {
		candidate, err := imp.findMatchingTransfer(&tx)
		if err != nil {
			return Record{}, err
		}
		if candidate != nil {
			imp.log.WithField("id", candidate.ID).Info("Matching transfer found")
			return Record{Tx: tx, Outcome: OutcomeMatched}, nil
		}
	}

	if err := imp.create(&tx); err != nil {
		return Record{}, err
	}
	return Record{Tx: tx, Outcome: OutcomeCreated}, nil
}

// findMatchingTransfer looks for the already-imported opposite leg of a
// transfer: same amount magnitude, same route, same date or within the
// profile's window. Candidates with this transaction's exact description are
// excluded so two distinct same-day transfers over the same route both get
// created.
func (imp *Importer) findMatchingTransfer(tx *models.Transaction) (*firefly.TransactionRead, error) {
	source := tx.SourceName
	if source == "" {
		source = tx.Account
	}

	return imp.gateway.FindTransferCandidate(firefly.TransferQuery{
		Amount:             tx.AbsAmount(),
		Source:             source,
		Destination:        tx.DestinationName,
		Date:               tx.Date,
		WindowDays:         imp.profile.DateWindowDays,
		ExcludeDescription: tx.Description,
	})
}

// create submits the transaction with ledger defaults applied: the owning
// account as source, and "Cash" as destination for outflows without an
// explicit one.
func (imp *Importer) create(tx *models.Transaction) error {
	source := tx.SourceName
	if source == "" {
		source = tx.Account
	}

	destination := tx.DestinationName
	if destination == "" {
		if tx.Amount.IsNegative() {
			destination = "Cash"
		} else {
			destination = tx.Account
		}
	}

	if err := imp.gateway.CreateTransaction(firefly.TransactionSplit{
		Type:            string(tx.Type),
		Date:            tx.ISODate(),
		Amount:          tx.AbsAmount(),
		Description:     tx.Description,
		ExternalID:      tx.ExternalID,
		SourceName:      source,
		DestinationName: destination,
	}); err != nil {
		return err
	}

	imp.log.WithFields(logrus.Fields{
		"type":        tx.Type,
		"amount":      tx.Amount.String(),
		"description": tx.Description,
	}).Info("Created transaction")
	return nil
}
