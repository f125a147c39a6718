package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/accounting"
)

var (
	ErrUnbalancedTransaction = errors.New("transaction debits and credits do not balance")
	ErrInvalidJournalLine    = errors.New("journal entry line is invalid")
	ErrCrossOrganizationRef  = errors.New("transaction references an account outside the organization")
	ErrInactiveAccount       = errors.New("transaction references an inactive account")
	ErrMissingDateRange      = errors.New("both from and to dates are required")
)

// ledgerService is the double-entry core. Every posting path in the system
// (manual entries, invoices, payroll, reconciliation) funnels through it.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
}

// LedgerServiceOption configures the ledger service.
type LedgerServiceOption func(*ledgerService)

// WithLedgerAuthorizer sets the organization authorizer.
func WithLedgerAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) LedgerServiceOption {
	return func(s *ledgerService) {
		s.OrgAuthorizer = authorizer
	}
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryWithTx, accountRepo portsrepo.AccountRepositoryFacade, opts ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetTransactionByID retrieves a transaction with its journal entries.
func (s *ledgerService) GetTransactionByID(ctx context.Context, organizationID string, transactionID string, userID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

// ListTransactions retrieves a paginated list of transactions for an organization.
func (s *ledgerService) ListTransactions(ctx context.Context, organizationID string, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, nextToken, err := s.ledgerRepo.ListTransactionsByOrganization(ctx, organizationID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return dto.ToListTransactionsResponse(txns, nextToken), nil
}

// PostTransaction validates and persists a balanced transaction.
func (s *ledgerService) PostTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	txn, err := s.buildTransaction(ctx, organizationID, req.Date, req.Description, req.ReferenceNumber, req.Entries, userID)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.SaveTransaction(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.Int("entries", len(txn.Entries)))
	return txn, nil
}

// UpdateTransaction replaces a transaction's fields and entries after
// re-validating the full balance invariant.
func (s *ledgerService) UpdateTransaction(ctx context.Context, organizationID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	existing, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if existing.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	txn, err := s.buildTransaction(ctx, organizationID, req.Date, req.Description, req.ReferenceNumber, req.Entries, userID)
	if err != nil {
		return nil, err
	}
	txn.TransactionID = existing.TransactionID
	txn.CreatedAt = existing.CreatedAt
	txn.CreatedBy = existing.CreatedBy
	for i := range txn.Entries {
		txn.Entries[i].TransactionID = existing.TransactionID
	}

	if err := s.ledgerRepo.ReplaceTransaction(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to replace transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return txn, nil
}

// VoidTransaction removes a transaction and all its journal entries.
func (s *ledgerService) VoidTransaction(ctx context.Context, organizationID string, transactionID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	existing, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if existing.OrganizationID != organizationID {
		return apperrors.ErrNotFound
	}

	if err := s.ledgerRepo.DeleteTransaction(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to void transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction voided", slog.String("transaction_id", transactionID))
	return nil
}

// GetBalance computes the normal-side signed balance of an account, optionally
// as of an inclusive date.
func (s *ledgerService) GetBalance(ctx context.Context, organizationID string, accountID string, asOf *time.Time, userID string) (decimal.Decimal, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return decimal.Zero, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if account.OrganizationID != organizationID {
		return decimal.Zero, apperrors.ErrNotFound
	}

	debits, credits, err := s.ledgerRepo.SumEntriesByAccount(ctx, organizationID, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum journal entries", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}

	return accounting.SignedBalance(account.AccountType, debits, credits)
}

// GetPeriodActivity computes the normal-side signed net activity of an account
// over an inclusive date range.
func (s *ledgerService) GetPeriodActivity(ctx context.Context, organizationID string, accountID string, from, to time.Time, userID string) (decimal.Decimal, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return decimal.Zero, err
	}
	if from.IsZero() || to.IsZero() {
		return decimal.Zero, ErrMissingDateRange
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if account.OrganizationID != organizationID {
		return decimal.Zero, apperrors.ErrNotFound
	}

	debits, credits, err := s.ledgerRepo.SumEntriesByAccountForPeriod(ctx, organizationID, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum journal entries for period", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to compute period activity: %w", err)
	}

	return accounting.SignedBalance(account.AccountType, debits, credits)
}

// buildTransaction converts request lines into a validated domain transaction.
// Every referenced account must exist, be active, and belong to the organization.
func (s *ledgerService) buildTransaction(ctx context.Context, organizationID string, date time.Time, description, referenceNumber string, lines []dto.JournalLineRequest, userID string) (*domain.Transaction, error) {
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: at least two lines are required", ErrInvalidJournalLine)
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		accountIDs = append(accountIDs, line.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for transaction", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("account %s: %w", id, ErrAccountNotFound)
		}
		if account.OrganizationID != organizationID {
			return nil, fmt.Errorf("account %s: %w", id, ErrCrossOrganizationRef)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("account %s: %w", id, ErrInactiveAccount)
		}
	}

	transactionID := uuid.NewString()
	entries := make([]domain.JournalEntry, len(lines))
	for i, line := range lines {
		// Amounts are validated and stored as submitted. Rounding them here
		// would turn a sub-tolerance residue into a 0.01 imbalance.
		entries[i] = domain.JournalEntry{
			JournalEntryID: uuid.NewString(),
			TransactionID:  transactionID,
			AccountID:      line.AccountID,
			DebitAmount:    line.DebitAmount,
			CreditAmount:   line.CreditAmount,
			Description:    line.Description,
		}
		if err := entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", i, ErrInvalidJournalLine, err)
		}
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   transactionID,
		OrganizationID:  organizationID,
		Date:            date,
		Description:     description,
		ReferenceNumber: referenceNumber,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Entries: entries,
	}

	if !txn.IsBalanced() {
		return nil, fmt.Errorf("%w: debits %s, credits %s",
			ErrUnbalancedTransaction, txn.TotalDebits().String(), txn.TotalCredits().String())
	}

	return &txn, nil
}
