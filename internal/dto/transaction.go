package dto

import (
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest defines one line of a transaction being posted.
// Exactly one of debitAmount/creditAmount must be positive.
type JournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// CreateTransactionRequest defines the data needed to post a transaction.
type CreateTransactionRequest struct {
	Date            time.Time            `json:"date" binding:"required"`
	Description     string               `json:"description" binding:"required"`
	ReferenceNumber string               `json:"referenceNumber"`
	Entries         []JournalLineRequest `json:"entries" binding:"required,min=2,dive"`
}

// UpdateTransactionRequest defines the data for replacing a transaction's
// fields and entries. The full entry set is swapped.
type UpdateTransactionRequest struct {
	Date            time.Time            `json:"date" binding:"required"`
	Description     string               `json:"description" binding:"required"`
	ReferenceNumber string               `json:"referenceNumber"`
	Entries         []JournalLineRequest `json:"entries" binding:"required,min=2,dive"`
}

// JournalEntryResponse defines the data returned for one journal entry.
type JournalEntryResponse struct {
	JournalEntryID string          `json:"journalEntryID"`
	AccountID      string          `json:"accountID"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	Description    string          `json:"description"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	OrganizationID  string                 `json:"organizationID"`
	Date            time.Time              `json:"date"`
	Description     string                 `json:"description"`
	ReferenceNumber string                 `json:"referenceNumber"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
	Entries         []JournalEntryResponse `json:"entries"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	entries := make([]JournalEntryResponse, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = JournalEntryResponse{
			JournalEntryID: e.JournalEntryID,
			AccountID:      e.AccountID,
			DebitAmount:    e.DebitAmount,
			CreditAmount:   e.CreditAmount,
			Description:    e.Description,
		}
	}
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		OrganizationID:  txn.OrganizationID,
		Date:            txn.Date,
		Description:     txn.Description,
		ReferenceNumber: txn.ReferenceNumber,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
		Entries:         entries,
	}
}

// ListTransactionsParams defines query parameters for listing transactions
// using token-based pagination.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToListTransactionsResponse converts a page of domain transactions to the response DTO.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) *ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return &ListTransactionsResponse{
		Transactions: res,
		NextToken:    nextToken,
	}
}
