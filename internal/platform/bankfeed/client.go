// Package bankfeed implements the bank feed provider port against an
// HTTP transaction aggregator API.
package bankfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
)

const requestTimeout = 30 * time.Second

// Client talks to the aggregator's REST API. One client serves all feed
// items; per-item credentials travel with each request.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ portssvc.BankFeedProvider = (*Client)(nil)

// NewClient creates a bank feed client for the given aggregator endpoint.
func NewClient(baseURL string, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// feedTransaction is the aggregator's wire representation of one transaction.
type feedTransaction struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	AccountName   string          `json:"account_name"`
	Date          string          `json:"date"` // YYYY-MM-DD
	PostedDate    string          `json:"posted_date,omitempty"`
	Name          string          `json:"name"`
	MerchantName  string          `json:"merchant_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"iso_currency_code"`
	Category      string          `json:"category,omitempty"`
}

// syncResponse is the aggregator's response for one incremental sync page.
type syncResponse struct {
	Transactions []feedTransaction `json:"transactions"`
	NextCursor   string            `json:"next_cursor"`
	HasMore      bool              `json:"has_more"`
}

// FetchTransactions pulls transactions for a feed item starting at its sync
// cursor, following pagination until the aggregator reports no more pages.
// Only source-side fields are populated; the caller owns identity and
// reconciliation state.
func (c *Client) FetchTransactions(ctx context.Context, item domain.BankFeedItem) ([]domain.StagedBankTransaction, string, error) {
	var staged []domain.StagedBankTransaction
	cursor := item.SyncCursor

	for {
		page, err := c.fetchPage(ctx, item, cursor)
		if err != nil {
			return nil, "", err
		}
		for _, txn := range page.Transactions {
			mapped, err := mapFeedTransaction(txn)
			if err != nil {
				return nil, "", fmt.Errorf("malformed feed transaction %s: %w", txn.TransactionID, err)
			}
			staged = append(staged, mapped)
		}
		cursor = page.NextCursor
		if !page.HasMore {
			break
		}
	}

	return staged, cursor, nil
}

func (c *Client) fetchPage(ctx context.Context, item domain.BankFeedItem, cursor string) (*syncResponse, error) {
	endpoint := fmt.Sprintf("%s/items/%s/transactions/sync", c.baseURL, url.PathEscape(item.ItemID))
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Item-Access-Token", item.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed provider returned status %d", resp.StatusCode)
	}

	var page syncResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}
	return &page, nil
}

func mapFeedTransaction(txn feedTransaction) (domain.StagedBankTransaction, error) {
	date, err := time.Parse("2006-01-02", txn.Date)
	if err != nil {
		return domain.StagedBankTransaction{}, fmt.Errorf("invalid date %q: %w", txn.Date, err)
	}

	var postedDate *time.Time
	if txn.PostedDate != "" {
		parsed, err := time.Parse("2006-01-02", txn.PostedDate)
		if err != nil {
			return domain.StagedBankTransaction{}, fmt.Errorf("invalid posted date %q: %w", txn.PostedDate, err)
		}
		postedDate = &parsed
	}

	return domain.StagedBankTransaction{
		SourceTxnID:       txn.TransactionID,
		SourceAccountID:   txn.AccountID,
		SourceAccountName: txn.AccountName,
		Date:              date,
		PostedDate:        postedDate,
		Name:              txn.Name,
		MerchantName:      txn.MerchantName,
		Amount:            txn.Amount,
		CurrencyCode:      txn.CurrencyCode,
		SourceCategory:    txn.Category,
	}, nil
}
