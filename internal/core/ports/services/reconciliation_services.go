package services

import (
	"context"
	"io"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

// BankFeedSvc defines operations for bank feed links and syncing
type BankFeedSvc interface {
	// ListBankFeedItems retrieves the bank feed items of an organization.
	ListBankFeedItems(ctx context.Context, organizationID string, userID string) ([]domain.BankFeedItem, error)

	// SyncBankFeedItem pulls new transactions from the feed provider, stages them
	// and advances the sync cursor.
	SyncBankFeedItem(ctx context.Context, organizationID string, bankFeedItemID string, userID string) (*dto.BankFeedSyncResult, error)

	// ImportBankStatementCSV stages transactions parsed from a CSV statement.
	// Row-level failures are reported, not fatal.
	ImportBankStatementCSV(ctx context.Context, organizationID string, sourceAccountName string, r io.Reader, userID string) (*dto.CSVImportResult, error)
}

// StagedTransactionSvc defines operations over staged bank transactions
type StagedTransactionSvc interface {
	// ListStagedTransactions retrieves staged transactions, optionally by status.
	ListStagedTransactions(ctx context.Context, organizationID string, userID string, params dto.ListStagedTransactionsParams) ([]domain.StagedBankTransaction, error)

	// MatchStagedTransaction links an unmatched staged transaction to an existing
	// ledger transaction.
	MatchStagedTransaction(ctx context.Context, organizationID string, stagedTransactionID string, ledgerTransactionID string, userID string) (*domain.StagedBankTransaction, error)

	// CreateLedgerTransactionFromStaged posts a new balanced ledger transaction
	// for an unmatched staged transaction and links the two.
	CreateLedgerTransactionFromStaged(ctx context.Context, organizationID string, stagedTransactionID string, req dto.CreateLedgerFromStagedRequest, userID string) (*domain.StagedBankTransaction, error)
}

// RuleSvc defines CRUD and execution of reconciliation rules
type RuleSvc interface {
	// ListRules retrieves the rules of an organization in evaluation order.
	ListRules(ctx context.Context, organizationID string, userID string) ([]domain.ReconciliationRule, error)

	// CreateRule validates and persists a new rule.
	CreateRule(ctx context.Context, organizationID string, req dto.SaveRuleRequest, userID string) (*domain.ReconciliationRule, error)

	// UpdateRule validates and updates an existing rule.
	UpdateRule(ctx context.Context, organizationID string, ruleID string, req dto.SaveRuleRequest, userID string) (*domain.ReconciliationRule, error)

	// DeleteRule removes a rule.
	DeleteRule(ctx context.Context, organizationID string, ruleID string, userID string) error

	// RunRulesForOrganization evaluates active rules against a batch of unmatched
	// staged transactions, first match wins.
	RunRulesForOrganization(ctx context.Context, organizationID string, userID string) (*dto.RuleRunResult, error)
}

// ReconciliationSvcFacade combines all reconciliation-related service interfaces
type ReconciliationSvcFacade interface {
	BankFeedSvc
	StagedTransactionSvc
	RuleSvc
}
