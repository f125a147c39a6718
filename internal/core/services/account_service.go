package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

var (
	ErrAccountNotFound   = errors.New("account not found in organization")
	ErrAccountReferenced = errors.New("account has journal entries and cannot be deactivated")
	ErrDuplicateAccount  = errors.New("an account with this name and type already exists")
)

// accountService manages the chart of accounts for an organization.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	orgReader   portsrepo.OrganizationReader
}

// AccountServiceOption configures the account service.
type AccountServiceOption func(*accountService)

// WithAccountAuthorizer sets the organization authorizer.
func WithAccountAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.OrgAuthorizer = authorizer
	}
}

// WithOrganizationReader sets the reader used to name auto-created accounts.
func WithOrganizationReader(reader portsrepo.OrganizationReader) AccountServiceOption {
	return func(s *accountService) {
		s.orgReader = reader
	}
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, opts ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: accountRepo,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves a specific account, verifying it belongs to the organization.
func (s *accountService) GetAccountByID(ctx context.Context, organizationID string, accountID string, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of accounts for an organization.
func (s *accountService) ListAccounts(ctx context.Context, organizationID string, userID string, limit int, offset int) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount persists a new account in the organization's chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		AccountType:    req.AccountType,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		s.LogError(ctx, err, "Failed to save account",
			slog.String("organization_id", organizationID),
			slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

// UpdateAccount updates an existing account's details.
func (s *accountService) UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		if !*req.IsActive && account.IsActive {
			return nil, fmt.Errorf("use the deactivate operation to deactivate an account: %w", apperrors.ErrValidation)
		}
		account.IsActive = *req.IsActive
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount marks an account inactive. Rejected while journal entries
// reference the account.
func (s *accountService) DeactivateAccount(ctx context.Context, organizationID string, accountID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.OrganizationID != organizationID {
		return apperrors.ErrNotFound
	}

	referenced, err := s.accountRepo.HasJournalEntries(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check journal entry references", slog.String("account_id", accountID))
		return fmt.Errorf("failed to check account references: %w", err)
	}
	if referenced {
		return ErrAccountReferenced
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

// ResolveOrCreateDefault finds an account suitable for automated posting.
// Resolution order: exact name match, then case-insensitive substring match,
// then creation of a default account. A concurrent create of the same default
// account is recovered by re-fetching the winner.
func (s *accountService) ResolveOrCreateDefault(ctx context.Context, organizationID string, accountType domain.AccountType, nameSubstring string, defaultName string, descriptionSuffix string, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByExactName(ctx, organizationID, accountType, defaultName)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up account by exact name",
			slog.String("organization_id", organizationID),
			slog.String("name", defaultName))
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	matches, err := s.accountRepo.FindAccountsByNameSubstring(ctx, organizationID, accountType, nameSubstring)
	if err != nil {
		s.LogError(ctx, err, "Failed to search accounts by name substring",
			slog.String("organization_id", organizationID),
			slog.String("substring", nameSubstring))
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	if len(matches) == 1 {
		s.LogInfo(ctx, "Resolved account by substring match",
			slog.String("organization_id", organizationID),
			slog.String("substring", nameSubstring),
			slog.String("account_id", matches[0].AccountID))
		return &matches[0], nil
	}
	if len(matches) > 1 {
		s.LogWarn(ctx, "Multiple accounts match substring, using earliest created",
			slog.String("organization_id", organizationID),
			slog.String("substring", nameSubstring),
			slog.Int("matches", len(matches)),
			slog.String("account_id", matches[0].AccountID))
		return &matches[0], nil
	}

	org, err := s.orgName(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Name:           defaultName,
		AccountType:    accountType,
		Description:    fmt.Sprintf("Default %s for %s. Auto-created.", descriptionSuffix, org),
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, created); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent auto-create. Use the winner.
			winner, ferr := s.accountRepo.FindAccountByExactName(ctx, organizationID, accountType, defaultName)
			if ferr != nil {
				return nil, fmt.Errorf("failed to recover concurrently created account: %w", ferr)
			}
			return winner, nil
		}
		s.LogError(ctx, err, "Failed to auto-create default account",
			slog.String("organization_id", organizationID),
			slog.String("name", defaultName))
		return nil, fmt.Errorf("failed to create default account: %w", err)
	}

	s.LogInfo(ctx, "Default account auto-created",
		slog.String("account_id", created.AccountID),
		slog.String("name", defaultName),
		slog.String("account_type", string(accountType)))
	return &created, nil
}

// orgName resolves the organization name for auto-created account descriptions.
// Falls back to the organization ID when the lookup is unavailable.
func (s *accountService) orgName(ctx context.Context, organizationID string) (string, error) {
	if s.orgReader == nil {
		return organizationID, nil
	}
	org, err := s.orgReader.FindOrganizationByID(ctx, organizationID)
	if err != nil || org == nil {
		return organizationID, nil
	}
	return org.Name, nil
}
