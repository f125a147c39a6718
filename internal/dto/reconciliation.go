package dto

import (
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// BankFeedSyncResult summarizes one sync of a bank feed item.
type BankFeedSyncResult struct {
	BankFeedItemID string    `json:"bankFeedItemID"`
	Staged         int       `json:"staged"`
	SyncedAt       time.Time `json:"syncedAt"`
}

// CSVRowError reports a single failed row of a CSV statement import.
type CSVRowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// CSVImportResult summarizes a CSV statement import. Row-level failures are
// itemized; successfully parsed rows are staged regardless.
type CSVImportResult struct {
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []CSVRowError `json:"errors,omitempty"`
}

// ListStagedTransactionsParams defines query parameters for listing staged
// bank transactions.
type ListStagedTransactionsParams struct {
	Status *domain.ReconciliationStatus `form:"status" binding:"omitempty,oneof=UNMATCHED MATCHED RULE_APPLIED CREATED_TRANSACTION"`
	Limit  int                          `form:"limit,default=20"`
	Offset int                          `form:"offset,default=0"`
}

// MatchStagedTransactionRequest links a staged transaction to a ledger transaction.
type MatchStagedTransactionRequest struct {
	TransactionID string `json:"transactionID" binding:"required"`
}

// CreateLedgerFromStagedRequest defines the accounts for posting a ledger
// transaction from a staged bank transaction. BankAccountID is the GL account
// mirroring the bank account; CounterAccountID takes the other side.
type CreateLedgerFromStagedRequest struct {
	BankAccountID    string `json:"bankAccountID" binding:"required"`
	CounterAccountID string `json:"counterAccountID" binding:"required"`
	Description      string `json:"description"`
}

// RuleConditionRequest is one condition of a rule being saved.
type RuleConditionRequest struct {
	Field    string `json:"field" binding:"required"`
	Operator string `json:"operator" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

// RuleActionRequest is one action of a rule being saved.
type RuleActionRequest struct {
	Type      string `json:"type" binding:"required"`
	Value     string `json:"value"`
	AccountID string `json:"accountID"`
}

// SaveRuleRequest defines the data for creating or updating a reconciliation rule.
type SaveRuleRequest struct {
	Name       string                 `json:"name" binding:"required"`
	Priority   int                    `json:"priority"`
	IsActive   *bool                  `json:"isActive"`
	Conditions []RuleConditionRequest `json:"conditions" binding:"required,min=1,dive"`
	Actions    []RuleActionRequest    `json:"actions" binding:"required,min=1,dive"`
}

// RuleRunResult summarizes one rule engine run over unmatched transactions.
type RuleRunResult struct {
	Evaluated int `json:"evaluated"`
	Applied   int `json:"applied"`
}
