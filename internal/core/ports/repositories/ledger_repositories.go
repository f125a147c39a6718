package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for ledger transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its journal entries.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByOrganization retrieves a paginated list of transactions
	// using token-based pagination, newest first.
	ListTransactionsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListEntriesByAccount retrieves a paginated list of journal entries for an account.
	ListEntriesByAccount(ctx context.Context, organizationID string, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// TransactionWriter defines write operations for ledger transaction data
type TransactionWriter interface {
	// SaveTransaction persists a transaction and all its journal entries atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveTransactionInTx persists a transaction and its entries within a caller-owned
	// database transaction.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// ReplaceTransaction updates transaction fields and swaps the full set of
	// journal entries atomically.
	ReplaceTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a transaction and its entries.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// DeleteTransactionInTx removes a transaction and its entries within a
	// caller-owned database transaction.
	DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error
}

// BalanceReader defines aggregate queries over journal entries
type BalanceReader interface {
	// SumEntriesByAccount returns total debits and credits posted to an account,
	// optionally bounded by an inclusive as-of date.
	SumEntriesByAccount(ctx context.Context, organizationID string, accountID string, asOf *time.Time) (debits, credits decimal.Decimal, err error)

	// SumEntriesByAccountForPeriod returns total debits and credits posted to an
	// account within an inclusive date range.
	SumEntriesByAccountForPeriod(ctx context.Context, organizationID string, accountID string, from, to time.Time) (debits, credits decimal.Decimal, err error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	BalanceReader
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
