// Package firefly is a client for the subset of the Firefly III REST API
// the importer consumes: the account directory, transaction search and
// transaction creation.
package firefly

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fjacquet/csv-firefly/internal/config"

	"github.com/sirupsen/logrus"
)

var log = config.Logger

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Client is a Firefly III API client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClient creates a new Firefly III API client with bearer-token auth.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
	}
}

// TransferQuery describes one leg of a transfer to look for in the ledger.
type TransferQuery struct {
	Amount      string
	Source      string
	Destination string
	Date        time.Time

	// WindowDays widens the date match to ± this many days; nil requires
	// the exact date.
	WindowDays *int

	// ExcludeDescription filters out candidates with this exact
	// description, so two distinct same-day transfers of the same amount
	// over the same route are not collapsed into one.
	ExcludeDescription string
}

// ListAccounts fetches the ledger's account directory and returns a
// name-to-id mapping.
func (c *Client) ListAccounts() (map[string]string, error) {
	var resp apiResponse[[]Account]
	if err := c.get("/api/v1/accounts", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make(map[string]string, len(resp.Data))
	for _, account := range resp.Data {
		accounts[account.Attributes.Name] = account.ID
	}
	return accounts, nil
}

// FindByExternalID searches for an existing transaction carrying the given
// external id. Returns nil when none exists.
func (c *Client) FindByExternalID(externalID string) (*TransactionRead, error) {
	return c.search(fmt.Sprintf("external_id_is:%s", externalID))
}

// FindTransferCandidate searches for an already-recorded transfer that
// matches the query's amount, route and date (or date window). Returns nil
// when no candidate exists; with several candidates the first one wins.
func (c *Client) FindTransferCandidate(q TransferQuery) (*TransactionRead, error) {
	pairs := []searchPair{
		{"type", "transfer"},
		{"amount", q.Amount},
		{"source_account_is", quote(q.Source)},
		{"destination_account_is", quote(q.Destination)},
		{"-description_is", quote(q.ExcludeDescription)},
	}

	if q.WindowDays == nil {
		pairs = append(pairs, searchPair{"date_on", q.Date.Format("2006-01-02")})
	} else {
		pairs = append(pairs,
			searchPair{"date_after", q.Date.AddDate(0, 0, -*q.WindowDays).Format("2006-01-02")},
			searchPair{"date_before", q.Date.AddDate(0, 0, *q.WindowDays).Format("2006-01-02")},
		)
	}

	query := buildSearchQuery(pairs)
	log.WithField("query", query).Debug("Searching for matching transfer")
	return c.search(query)
}

// CreateTransaction submits a single-split create request to the ledger.
func (c *Client) CreateTransaction(split TransactionSplit) error {
	body, err := json.Marshal(createRequest{Transactions: []TransactionSplit{split}})
	if err != nil {
		return fmt.Errorf("failed to encode transaction: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseError(resp)
	}
	return nil
}

func (c *Client) search(query string) (*TransactionRead, error) {
	params := url.Values{}
	params.Set("query", query)

	var resp apiResponse[[]TransactionRead]
	if err := c.get("/api/v1/search/transactions", params, &resp); err != nil {
		return nil, fmt.Errorf("transaction search failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}

func (c *Client) get(path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return fmt.Errorf("API error (status %d)", resp.StatusCode)
	}
	return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

type searchPair struct {
	key   string
	value string
}

// buildSearchQuery renders ordered key:value pairs into a Firefly III search
// query. Pair order is kept stable so runs produce reproducible queries.
func buildSearchQuery(pairs []searchPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.key+":"+p.value)
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	return `"` + s + `"`
}
