package services

import (
	"context"
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations for ledger transactions
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves a transaction with its journal entries.
	GetTransactionByID(ctx context.Context, organizationID string, transactionID string, userID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list of transactions for an organization.
	ListTransactions(ctx context.Context, organizationID string, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines write operations for ledger transactions
type LedgerWriterSvc interface {
	// PostTransaction validates and persists a balanced transaction with its entries.
	PostTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// UpdateTransaction replaces a transaction's fields and entries after
	// re-validating the balance invariant.
	UpdateTransaction(ctx context.Context, organizationID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)

	// VoidTransaction removes a transaction and its entries.
	VoidTransaction(ctx context.Context, organizationID string, transactionID string, userID string) error
}

// BalanceCalculatorSvc defines balance and activity queries
type BalanceCalculatorSvc interface {
	// GetBalance computes the normal-side signed balance of an account,
	// optionally as of an inclusive date.
	GetBalance(ctx context.Context, organizationID string, accountID string, asOf *time.Time, userID string) (decimal.Decimal, error)

	// GetPeriodActivity computes the normal-side signed net activity of an
	// account over an inclusive date range. Both bounds are required.
	GetPeriodActivity(ctx context.Context, organizationID string, accountID string, from, to time.Time, userID string) (decimal.Decimal, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	BalanceCalculatorSvc
}
