package repositories

import (
	"context"
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByExactName retrieves an active account of the given type by its exact name.
	FindAccountByExactName(ctx context.Context, organizationID string, accountType domain.AccountType, name string) (*domain.Account, error)

	// FindAccountsByNameSubstring retrieves active accounts of the given type whose
	// name contains the substring (case-insensitive), ordered by creation time.
	FindAccountsByNameSubstring(ctx context.Context, organizationID string, accountType domain.AccountType, substring string) ([]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given organization.
	ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountReferenceChecker reports whether an account is referenced by ledger data
type AccountReferenceChecker interface {
	// HasJournalEntries reports whether any journal entry references the account.
	HasJournalEntries(ctx context.Context, accountID string) (bool, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountReferenceChecker
}
