// Package models defines the canonical transaction representation shared by
// the CSV parser, the transfer classifier and the importer.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the ledger-side kind of a transaction.
type TransactionType string

const (
	TypeWithdrawal TransactionType = "withdrawal"
	TypeDeposit    TransactionType = "deposit"
	TypeTransfer   TransactionType = "transfer"
)

// Transaction is one movement of money destined for (or already present in)
// the ledger. Amounts are signed: negative means money leaving the account.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Account     string
	ExternalID  string
	Type        TransactionType

	// SourceName and DestinationName are only set on transfer legs; for
	// ordinary withdrawals/deposits the importer applies ledger defaults.
	SourceName      string
	DestinationName string
}

// TypeFromAmount derives the non-transfer transaction type from the sign of
// the amount: outflows are withdrawals, everything else is a deposit.
func TypeFromAmount(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TypeWithdrawal
	}
	return TypeDeposit
}

// IsTransfer reports whether the transaction was classified as an internal
// transfer leg.
func (t *Transaction) IsTransfer() bool {
	return t.Type == TypeTransfer
}

// ISODate returns the transaction date formatted as YYYY-MM-DD, the format
// the ledger API expects.
func (t *Transaction) ISODate() string {
	return t.Date.Format("2006-01-02")
}

// AbsAmount returns the magnitude of the amount as a string, which is how
// the ledger API encodes amounts regardless of direction.
func (t *Transaction) AbsAmount() string {
	return t.Amount.Abs().String()
}
