package services

import (
	"context"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, organizationID string, accountID string, userID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given organization.
	ListAccounts(ctx context.Context, organizationID string, userID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. Fails while journal entries
	// reference the account.
	DeactivateAccount(ctx context.Context, organizationID string, accountID string, userID string) error
}

// AccountResolverSvc defines the fallback resolution of well-known accounts
type AccountResolverSvc interface {
	// ResolveOrCreateDefault finds an account for automated posting: exact name
	// match first, then case-insensitive substring match, then creation of a
	// default account. Always returns a usable account or an error.
	ResolveOrCreateDefault(ctx context.Context, organizationID string, accountType domain.AccountType, nameSubstring string, defaultName string, descriptionSuffix string, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountResolverSvc
}
