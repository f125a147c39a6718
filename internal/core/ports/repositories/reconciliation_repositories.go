package repositories

import (
	"context"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// BankFeedItemRepository defines operations for bank feed link records
type BankFeedItemRepository interface {
	// FindBankFeedItemByID retrieves a bank feed item by its unique identifier.
	FindBankFeedItemByID(ctx context.Context, bankFeedItemID string) (*domain.BankFeedItem, error)

	// ListBankFeedItems retrieves the bank feed items of an organization.
	ListBankFeedItems(ctx context.Context, organizationID string) ([]domain.BankFeedItem, error)

	// SaveBankFeedItem persists a new bank feed item.
	SaveBankFeedItem(ctx context.Context, item domain.BankFeedItem) error

	// UpdateBankFeedItem updates a bank feed item (cursor, last-synced stamp).
	UpdateBankFeedItem(ctx context.Context, item domain.BankFeedItem) error
}

// StagedTransactionReader defines read operations for staged bank transactions
type StagedTransactionReader interface {
	// FindStagedTransactionByID retrieves a staged transaction by its unique identifier.
	FindStagedTransactionByID(ctx context.Context, stagedTransactionID string) (*domain.StagedBankTransaction, error)

	// ListStagedTransactions retrieves a paginated list of staged transactions for
	// an organization, optionally filtered by reconciliation status.
	ListStagedTransactions(ctx context.Context, organizationID string, status *domain.ReconciliationStatus, limit int, offset int) ([]domain.StagedBankTransaction, error)

	// ListUnmatchedTransactions retrieves up to limit unmatched staged transactions,
	// oldest first.
	ListUnmatchedTransactions(ctx context.Context, organizationID string, limit int) ([]domain.StagedBankTransaction, error)
}

// StagedTransactionWriter defines write operations for staged bank transactions
type StagedTransactionWriter interface {
	// UpsertStagedTransaction inserts a staged transaction or updates the existing
	// row with the same (organization, source transaction id).
	UpsertStagedTransaction(ctx context.Context, txn domain.StagedBankTransaction) error

	// UpdateStagedTransaction updates a staged transaction's mutable fields.
	UpdateStagedTransaction(ctx context.Context, txn domain.StagedBankTransaction) error
}

// ReconciliationRuleRepository defines operations for reconciliation rules
type ReconciliationRuleRepository interface {
	// FindRuleByID retrieves a rule by its unique identifier.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.ReconciliationRule, error)

	// ListActiveRules retrieves the active rules of an organization ordered by
	// (priority asc, name asc).
	ListActiveRules(ctx context.Context, organizationID string) ([]domain.ReconciliationRule, error)

	// ListRules retrieves all rules of an organization ordered by (priority asc, name asc).
	ListRules(ctx context.Context, organizationID string) ([]domain.ReconciliationRule, error)

	// SaveRule persists a new rule.
	SaveRule(ctx context.Context, rule domain.ReconciliationRule) error

	// UpdateRule updates an existing rule.
	UpdateRule(ctx context.Context, rule domain.ReconciliationRule) error

	// DeleteRule removes a rule.
	DeleteRule(ctx context.Context, ruleID string) error
}

// ReconciliationRepositoryFacade combines all reconciliation-related repository interfaces
type ReconciliationRepositoryFacade interface {
	BankFeedItemRepository
	StagedTransactionReader
	StagedTransactionWriter
	ReconciliationRuleRepository
}
