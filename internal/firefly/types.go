package firefly

// apiResponse is the envelope Firefly III wraps every payload in.
type apiResponse[T any] struct {
	Data T `json:"data"`
}

// Account is one entry of the ledger's account directory.
type Account struct {
	ID         string            `json:"id"`
	Attributes AccountAttributes `json:"attributes"`
}

// AccountAttributes carries the account fields the importer cares about.
type AccountAttributes struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

// TransactionRead is a transaction as returned by the search endpoint.
type TransactionRead struct {
	ID string `json:"id"`
}

// TransactionSplit is one transaction in a create request. Firefly encodes
// amounts as strings and expects the magnitude, never a signed value.
type TransactionSplit struct {
	Type            string `json:"type"`
	Date            string `json:"date"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	ExternalID      string `json:"external_id"`
	SourceName      string `json:"source_name"`
	DestinationName string `json:"destination_name"`
}

// createRequest is the body of POST /api/v1/transactions.
type createRequest struct {
	Transactions []TransactionSplit `json:"transactions"`
}
