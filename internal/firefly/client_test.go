package firefly

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/accounts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		_, _ = w.Write([]byte(`{"data": [
			{"id": "1", "attributes": {"name": "Checking", "type": "asset", "active": true}},
			{"id": "2", "attributes": {"name": "Savings", "type": "asset", "active": true}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "test-token")
	accounts, err := client.ListAccounts()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Checking": "1", "Savings": "2"}, accounts)
}

func TestFindByExternalID(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/search/transactions", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")

		if gotQuery == "external_id_is:abc123" {
			_, _ = w.Write([]byte(`{"data": [{"id": "42"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")

	found, err := client.FindByExternalID("abc123")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "42", found.ID)

	missing, err := client.FindByExternalID("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindTransferCandidateQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := client.FindTransferCandidate(TransferQuery{
		Amount:             "500",
		Source:             "Checking",
		Destination:        "Savings",
		Date:               date,
		ExcludeDescription: "To Savings",
	})
	require.NoError(t, err)
	assert.Equal(t,
		`type:transfer amount:500 source_account_is:"Checking" destination_account_is:"Savings" -description_is:"To Savings" date_on:2024-01-10`,
		gotQuery)

	days := 2
	_, err = client.FindTransferCandidate(TransferQuery{
		Amount:             "500",
		Source:             "Checking",
		Destination:        "Savings",
		Date:               date,
		WindowDays:         &days,
		ExcludeDescription: "To Savings",
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "date_after:2024-01-08")
	assert.Contains(t, gotQuery, "date_before:2024-01-12")
	assert.NotContains(t, gotQuery, "date_on:")
}

func TestCreateTransaction(t *testing.T) {
	var gotBody createRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/transactions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	err := client.CreateTransaction(TransactionSplit{
		Type:            "withdrawal",
		Date:            "2024-01-05",
		Amount:          "4.5",
		Description:     "Coffee Shop",
		ExternalID:      "abc123",
		SourceName:      "Checking",
		DestinationName: "Cash",
	})
	require.NoError(t, err)

	require.Len(t, gotBody.Transactions, 1)
	split := gotBody.Transactions[0]
	assert.Equal(t, "withdrawal", split.Type)
	assert.Equal(t, "4.5", split.Amount)
	assert.Equal(t, "abc123", split.ExternalID)
	assert.Equal(t, "Cash", split.DestinationName)
}

func TestNonSuccessResponsesAreErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Duplicate of transaction #1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")

	err := client.CreateTransaction(TransactionSplit{Type: "withdrawal"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "Duplicate of transaction")

	_, err = client.FindByExternalID("abc")
	assert.Error(t, err, "search failures propagate, they are not treated as no-match")
}
