package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
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
	ErrStagedNotUnmatched = errors.New("staged transaction has already been reconciled")
	ErrFeedNotConfigured  = errors.New("no bank feed provider is configured")
)

// defaultRuleBatchSize caps how many unmatched transactions one rule run
// evaluates when no batch size is configured.
const defaultRuleBatchSize = 100

// reconciliationService manages bank feeds, staged bank transactions and the
// reconciliation rule engine.
type reconciliationService struct {
	BaseService
	reconRepo   portsrepo.ReconciliationRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	provider    portssvc.BankFeedProvider
	batchSize   int
}

// ReconciliationServiceOption configures the reconciliation service.
type ReconciliationServiceOption func(*reconciliationService)

// WithReconciliationAuthorizer sets the organization authorizer.
func WithReconciliationAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.OrgAuthorizer = authorizer
	}
}

// WithBankFeedProvider sets the external transaction aggregator.
func WithBankFeedProvider(provider portssvc.BankFeedProvider) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.provider = provider
	}
}

// WithRuleBatchSize overrides the per-run cap on evaluated transactions.
func WithRuleBatchSize(n int) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	opts ...ReconciliationServiceOption,
) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		reconRepo:   reconRepo,
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		batchSize:   defaultRuleBatchSize,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// ListBankFeedItems retrieves the bank feed items of an organization.
func (s *reconciliationService) ListBankFeedItems(ctx context.Context, organizationID string, userID string) ([]domain.BankFeedItem, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	items, err := s.reconRepo.ListBankFeedItems(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank feed items", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list bank feed items: %w", err)
	}
	return items, nil
}

// SyncBankFeedItem pulls new transactions from the feed provider, stages them
// and advances the sync cursor.
func (s *reconciliationService) SyncBankFeedItem(ctx context.Context, organizationID string, bankFeedItemID string, userID string) (*dto.BankFeedSyncResult, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, ErrFeedNotConfigured
	}

	item, err := s.reconRepo.FindBankFeedItemByID(ctx, bankFeedItemID)
	if err != nil {
		return nil, err
	}
	if item.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	staged, nextCursor, err := s.provider.FetchTransactions(ctx, *item)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch bank feed transactions", slog.String("bank_feed_item_id", bankFeedItemID))
		return nil, fmt.Errorf("failed to fetch feed transactions: %w", err)
	}

	now := time.Now().UTC()
	stagedCount := 0
	for _, txn := range staged {
		txn.StagedTransactionID = uuid.NewString()
		txn.OrganizationID = organizationID
		txn.BankFeedItemID = &item.BankFeedItemID
		txn.ReconciliationStatus = domain.ReconUnmatched
		txn.Source = domain.SourceFeed
		txn.CreatedAt = now
		txn.CreatedBy = userID
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = userID
		if err := s.reconRepo.UpsertStagedTransaction(ctx, txn); err != nil {
			s.LogWarn(ctx, "Failed to stage feed transaction",
				slog.String("bank_feed_item_id", bankFeedItemID),
				slog.String("source_txn_id", txn.SourceTxnID),
				slog.String("error", err.Error()))
			continue
		}
		stagedCount++
	}

	item.SyncCursor = nextCursor
	item.LastSyncedAt = &now
	item.LastUpdatedAt = now
	item.LastUpdatedBy = userID
	if err := s.reconRepo.UpdateBankFeedItem(ctx, *item); err != nil {
		s.LogError(ctx, err, "Failed to advance sync cursor", slog.String("bank_feed_item_id", bankFeedItemID))
		return nil, fmt.Errorf("failed to update bank feed item: %w", err)
	}

	s.LogInfo(ctx, "Bank feed synced",
		slog.String("bank_feed_item_id", bankFeedItemID),
		slog.Int("staged", stagedCount))
	return &dto.BankFeedSyncResult{
		BankFeedItemID: bankFeedItemID,
		Staged:         stagedCount,
		SyncedAt:       now,
	}, nil
}

// ImportBankStatementCSV stages transactions parsed from a CSV statement.
// Expected columns: Date, Description (or Name), Amount, optional Currency.
// Row-level failures are reported without aborting the import.
func (s *reconciliationService) ImportBankStatementCSV(ctx context.Context, organizationID string, sourceAccountName string, r io.Reader, userID string) (*dto.CSVImportResult, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", apperrors.ErrValidation)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("CSV is missing a Date column: %w", apperrors.ErrValidation)
	}
	if _, ok := cols["amount"]; !ok {
		return nil, fmt.Errorf("CSV is missing an Amount column: %w", apperrors.ErrValidation)
	}

	result := &dto.CSVImportResult{}
	now := time.Now().UTC()
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.CSVRowError{Line: line, Error: err.Error()})
			continue
		}

		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		date, err := time.Parse("2006-01-02", field("date"))
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.CSVRowError{Line: line, Error: fmt.Sprintf("invalid date %q", field("date"))})
			continue
		}
		amount, err := decimal.NewFromString(field("amount"))
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.CSVRowError{Line: line, Error: fmt.Sprintf("invalid amount %q", field("amount"))})
			continue
		}

		name := field("description")
		if name == "" {
			name = field("name")
		}
		if name == "" {
			name = "N/A"
		}
		currency := field("currency")
		if currency == "" {
			currency = "USD"
		}

		txn := domain.StagedBankTransaction{
			StagedTransactionID: uuid.NewString(),
			OrganizationID:      organizationID,
			SourceTxnID: fmt.Sprintf("csv_import_%s_%s_%s_%s_%d",
				organizationID, date.Format("2006-01-02"), name, amount.String(), line),
			SourceAccountName:    sourceAccountName,
			Date:                 date,
			Name:                 name,
			Amount:               accounting.Round2(amount),
			CurrencyCode:         currency,
			ReconciliationStatus: domain.ReconUnmatched,
			Source:               domain.SourceCSV,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.reconRepo.UpsertStagedTransaction(ctx, txn); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.CSVRowError{Line: line, Error: err.Error()})
			continue
		}
		result.Imported++
	}

	s.LogInfo(ctx, "Bank statement imported",
		slog.String("organization_id", organizationID),
		slog.Int("imported", result.Imported),
		slog.Int("failed", result.Failed))
	return result, nil
}

// ListStagedTransactions retrieves staged transactions, optionally by status.
func (s *reconciliationService) ListStagedTransactions(ctx context.Context, organizationID string, userID string, params dto.ListStagedTransactionsParams) ([]domain.StagedBankTransaction, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, err := s.reconRepo.ListStagedTransactions(ctx, organizationID, params.Status, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list staged transactions", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list staged transactions: %w", err)
	}
	return txns, nil
}

// MatchStagedTransaction links an unmatched staged transaction to an existing
// ledger transaction.
func (s *reconciliationService) MatchStagedTransaction(ctx context.Context, organizationID string, stagedTransactionID string, ledgerTransactionID string, userID string) (*domain.StagedBankTransaction, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	staged, err := s.reconRepo.FindStagedTransactionByID(ctx, stagedTransactionID)
	if err != nil {
		return nil, err
	}
	if staged.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if staged.ReconciliationStatus != domain.ReconUnmatched {
		return nil, ErrStagedNotUnmatched
	}

	ledgerTxn, err := s.ledgerRepo.FindTransactionByID(ctx, ledgerTransactionID)
	if err != nil {
		return nil, err
	}
	if ledgerTxn.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	staged.ReconciliationStatus = domain.ReconMatched
	staged.LinkedTransactionID = &ledgerTxn.TransactionID
	staged.LastUpdatedAt = time.Now().UTC()
	staged.LastUpdatedBy = userID
	if err := s.reconRepo.UpdateStagedTransaction(ctx, *staged); err != nil {
		s.LogError(ctx, err, "Failed to match staged transaction", slog.String("staged_transaction_id", stagedTransactionID))
		return nil, fmt.Errorf("failed to match staged transaction: %w", err)
	}

	s.LogInfo(ctx, "Staged transaction matched",
		slog.String("staged_transaction_id", stagedTransactionID),
		slog.String("transaction_id", ledgerTransactionID))
	return staged, nil
}

// CreateLedgerTransactionFromStaged posts a new balanced ledger transaction
// for an unmatched staged transaction and links the two. A positive staged
// amount debits the bank account; a negative amount credits it.
func (s *reconciliationService) CreateLedgerTransactionFromStaged(ctx context.Context, organizationID string, stagedTransactionID string, req dto.CreateLedgerFromStagedRequest, userID string) (*domain.StagedBankTransaction, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	staged, err := s.reconRepo.FindStagedTransactionByID(ctx, stagedTransactionID)
	if err != nil {
		return nil, err
	}
	if staged.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if staged.ReconciliationStatus != domain.ReconUnmatched {
		return nil, ErrStagedNotUnmatched
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{req.BankAccountID, req.CounterAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, id := range []string{req.BankAccountID, req.CounterAccountID} {
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

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Bank transaction: %s", staged.Name)
	}

	amount := accounting.Round2(staged.Amount.Abs())
	if amount.IsZero() {
		return nil, fmt.Errorf("staged transaction amount is zero: %w", apperrors.ErrValidation)
	}
	debitAccountID, creditAccountID := req.BankAccountID, req.CounterAccountID
	if staged.Amount.IsNegative() {
		debitAccountID, creditAccountID = req.CounterAccountID, req.BankAccountID
	}

	transactionID := uuid.NewString()
	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   transactionID,
		OrganizationID:  organizationID,
		Date:            staged.Date,
		Description:     description,
		ReferenceNumber: staged.SourceTxnID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Entries: []domain.JournalEntry{
			{
				JournalEntryID: uuid.NewString(),
				TransactionID:  transactionID,
				AccountID:      debitAccountID,
				DebitAmount:    amount,
			},
			{
				JournalEntryID: uuid.NewString(),
				TransactionID:  transactionID,
				AccountID:      creditAccountID,
				CreditAmount:   amount,
			},
		},
	}

	if err := s.ledgerRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save ledger transaction from staged",
			slog.String("staged_transaction_id", stagedTransactionID))
		return nil, fmt.Errorf("failed to post ledger transaction: %w", err)
	}

	staged.ReconciliationStatus = domain.ReconCreatedTransaction
	staged.LinkedTransactionID = &transactionID
	staged.LastUpdatedAt = now
	staged.LastUpdatedBy = userID
	if err := s.reconRepo.UpdateStagedTransaction(ctx, *staged); err != nil {
		// Undo the orphaned GL transaction so the staged row stays actionable.
		if derr := s.ledgerRepo.DeleteTransaction(ctx, transactionID); derr != nil {
			s.LogError(ctx, derr, "Failed to undo ledger transaction after link failure",
				slog.String("transaction_id", transactionID))
		}
		s.LogError(ctx, err, "Failed to link staged transaction", slog.String("staged_transaction_id", stagedTransactionID))
		return nil, fmt.Errorf("failed to link staged transaction: %w", err)
	}

	s.LogInfo(ctx, "Ledger transaction created from staged",
		slog.String("staged_transaction_id", stagedTransactionID),
		slog.String("transaction_id", transactionID))
	return staged, nil
}

// ListRules retrieves the rules of an organization in evaluation order.
func (s *reconciliationService) ListRules(ctx context.Context, organizationID string, userID string) ([]domain.ReconciliationRule, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	rules, err := s.reconRepo.ListRules(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reconciliation rules", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

// CreateRule validates and persists a new rule.
func (s *reconciliationService) CreateRule(ctx context.Context, organizationID string, req dto.SaveRuleRequest, userID string) (*domain.ReconciliationRule, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	conditions, actions, err := buildRuleDefinition(req)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	rule := domain.ReconciliationRule{
		RuleID:         uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		Priority:       req.Priority,
		IsActive:       isActive,
		Conditions:     conditions,
		Actions:        actions,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.reconRepo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save reconciliation rule", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}
	return &rule, nil
}

// UpdateRule validates and updates an existing rule.
func (s *reconciliationService) UpdateRule(ctx context.Context, organizationID string, ruleID string, req dto.SaveRuleRequest, userID string) (*domain.ReconciliationRule, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	rule, err := s.reconRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	conditions, actions, err := buildRuleDefinition(req)
	if err != nil {
		return nil, err
	}

	rule.Name = req.Name
	rule.Priority = req.Priority
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	rule.Conditions = conditions
	rule.Actions = actions
	rule.LastUpdatedAt = time.Now().UTC()
	rule.LastUpdatedBy = userID

	if err := s.reconRepo.UpdateRule(ctx, *rule); err != nil {
		s.LogError(ctx, err, "Failed to update reconciliation rule", slog.String("rule_id", ruleID))
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}
	return rule, nil
}

// DeleteRule removes a rule.
func (s *reconciliationService) DeleteRule(ctx context.Context, organizationID string, ruleID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	rule, err := s.reconRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return err
	}
	if rule.OrganizationID != organizationID {
		return apperrors.ErrNotFound
	}

	if err := s.reconRepo.DeleteRule(ctx, ruleID); err != nil {
		s.LogError(ctx, err, "Failed to delete reconciliation rule", slog.String("rule_id", ruleID))
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}

// RunRulesForOrganization evaluates active rules against a batch of unmatched
// staged transactions. Rules run in (priority, name) order; the first matching
// rule wins and later rules are not evaluated for that transaction.
func (s *reconciliationService) RunRulesForOrganization(ctx context.Context, organizationID string, userID string) (*dto.RuleRunResult, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	rules, err := s.reconRepo.ListActiveRules(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load active rules", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	unmatched, err := s.reconRepo.ListUnmatchedTransactions(ctx, organizationID, s.batchSize)
	if err != nil {
		s.LogError(ctx, err, "Failed to load unmatched transactions", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to load unmatched transactions: %w", err)
	}

	result := &dto.RuleRunResult{Evaluated: len(unmatched)}
	for i := range unmatched {
		txn := &unmatched[i]
		for _, rule := range rules {
			if !CheckRuleConditions(txn, &rule) {
				continue
			}
			if err := s.applyRuleActions(ctx, txn, &rule, userID); err != nil {
				s.LogWarn(ctx, "Failed to apply rule actions",
					slog.String("staged_transaction_id", txn.StagedTransactionID),
					slog.String("rule_id", rule.RuleID),
					slog.String("error", err.Error()))
				break
			}
			result.Applied++
			break
		}
	}

	s.LogInfo(ctx, "Reconciliation rules applied",
		slog.String("organization_id", organizationID),
		slog.Int("evaluated", result.Evaluated),
		slog.Int("applied", result.Applied))
	return result, nil
}

// applyRuleActions applies a matched rule's actions and persists the staged
// transaction as RULE_APPLIED. Categorizing does not create an offsetting
// ledger transaction.
func (s *reconciliationService) applyRuleActions(ctx context.Context, txn *domain.StagedBankTransaction, rule *domain.ReconciliationRule, userID string) error {
	status := domain.ReconRuleApplied
	for _, action := range rule.Actions {
		switch action.Type {
		case domain.ActionSetCategory:
			txn.SourceCategory = action.Value
		case domain.ActionSetStatus:
			next := domain.ReconciliationStatus(action.Value)
			switch next {
			case domain.ReconMatched, domain.ReconRuleApplied:
				status = next
			default:
				s.LogWarn(ctx, "Rule action sets unsupported status",
					slog.String("rule_id", rule.RuleID),
					slog.String("status", action.Value))
			}
		case domain.ActionAssignAccount:
			account, err := s.accountRepo.FindAccountByID(ctx, action.AccountID)
			if err != nil || account.OrganizationID != txn.OrganizationID {
				s.LogWarn(ctx, "Rule action references unknown account",
					slog.String("rule_id", rule.RuleID),
					slog.String("account_id", action.AccountID))
				continue
			}
			txn.SourceCategory = account.Name
		default:
			s.LogWarn(ctx, "Unsupported rule action type",
				slog.String("rule_id", rule.RuleID),
				slog.String("action_type", string(action.Type)))
		}
	}

	txn.ReconciliationStatus = status
	txn.AppliedRuleID = &rule.RuleID
	txn.LastUpdatedAt = time.Now().UTC()
	txn.LastUpdatedBy = userID
	return s.reconRepo.UpdateStagedTransaction(ctx, *txn)
}

// buildRuleDefinition validates request conditions and actions against the
// closed field, operator and action vocabularies.
func buildRuleDefinition(req dto.SaveRuleRequest) ([]domain.RuleCondition, []domain.RuleAction, error) {
	conditions := make([]domain.RuleCondition, len(req.Conditions))
	for i, c := range req.Conditions {
		if !domain.ConditionFields[c.Field] {
			return nil, nil, fmt.Errorf("unknown condition field %q: %w", c.Field, apperrors.ErrValidation)
		}
		op := domain.RuleOperator(c.Operator)
		if !domain.RuleOperators[op] {
			return nil, nil, fmt.Errorf("unknown condition operator %q: %w", c.Operator, apperrors.ErrValidation)
		}
		conditions[i] = domain.RuleCondition{Field: c.Field, Operator: op, Value: c.Value}
	}

	actions := make([]domain.RuleAction, len(req.Actions))
	for i, a := range req.Actions {
		at := domain.RuleActionType(a.Type)
		if !domain.RuleActionTypes[at] {
			return nil, nil, fmt.Errorf("unknown action type %q: %w", a.Type, apperrors.ErrValidation)
		}
		switch at {
		case domain.ActionAssignAccount:
			if a.AccountID == "" {
				return nil, nil, fmt.Errorf("assign_account action requires an account: %w", apperrors.ErrValidation)
			}
		case domain.ActionSetCategory, domain.ActionSetStatus:
			if a.Value == "" {
				return nil, nil, fmt.Errorf("%s action requires a value: %w", a.Type, apperrors.ErrValidation)
			}
		}
		actions[i] = domain.RuleAction{Type: at, Value: a.Value, AccountID: a.AccountID}
	}

	return conditions, actions, nil
}

// conditionValue extracts the comparable value of an allow-listed staged
// transaction field. ok is false for fields outside the allow-list.
func conditionValue(txn *domain.StagedBankTransaction, field string) (stringValue string, numericValue *decimal.Decimal, ok bool) {
	switch field {
	case "name":
		return txn.Name, nil, true
	case "merchant_name":
		return txn.MerchantName, nil, true
	case "amount":
		amount := txn.Amount
		return amount.String(), &amount, true
	case "currency_code":
		return txn.CurrencyCode, nil, true
	case "source_category":
		return txn.SourceCategory, nil, true
	case "source_account_name":
		return txn.SourceAccountName, nil, true
	case "date":
		return txn.Date.Format("2006-01-02"), nil, true
	default:
		return "", nil, false
	}
}

// EvaluateCondition evaluates one rule condition against a transaction-side
// value. When the transaction value is numeric and the rule value parses as a
// number, the comparison is numeric; otherwise contains/does_not_contain
// compare as case-insensitive substrings and equals/not_equals compare
// directly. Ordering operators require both sides numeric. Unknown operators
// are false, never an error.
func EvaluateCondition(stringValue string, numericValue *decimal.Decimal, operator domain.RuleOperator, ruleValue string) bool {
	var ruleNumeric *decimal.Decimal
	if numericValue != nil {
		if parsed, err := decimal.NewFromString(strings.TrimSpace(ruleValue)); err == nil {
			ruleNumeric = &parsed
		}
	}

	switch operator {
	case domain.OpContains:
		return strings.Contains(strings.ToLower(stringValue), strings.ToLower(ruleValue))
	case domain.OpDoesNotContain:
		return !strings.Contains(strings.ToLower(stringValue), strings.ToLower(ruleValue))
	case domain.OpEquals:
		if numericValue != nil && ruleNumeric != nil {
			return numericValue.Equal(*ruleNumeric)
		}
		return stringValue == ruleValue
	case domain.OpNotEquals:
		if numericValue != nil && ruleNumeric != nil {
			return !numericValue.Equal(*ruleNumeric)
		}
		return stringValue != ruleValue
	case domain.OpGreaterThan:
		if numericValue != nil && ruleNumeric != nil {
			return numericValue.GreaterThan(*ruleNumeric)
		}
		return false
	case domain.OpLessThan:
		if numericValue != nil && ruleNumeric != nil {
			return numericValue.LessThan(*ruleNumeric)
		}
		return false
	default:
		return false
	}
}

// CheckRuleConditions reports whether a staged transaction matches all of a
// rule's conditions. A condition referencing an unknown field fails the whole
// rule; malformed conditions (missing field or operator) are skipped.
func CheckRuleConditions(txn *domain.StagedBankTransaction, rule *domain.ReconciliationRule) bool {
	if len(rule.Conditions) == 0 {
		return false
	}
	for _, condition := range rule.Conditions {
		if condition.Field == "" || condition.Operator == "" {
			continue
		}
		stringValue, numericValue, ok := conditionValue(txn, condition.Field)
		if !ok {
			return false
		}
		if !EvaluateCondition(stringValue, numericValue, condition.Operator, condition.Value) {
			return false
		}
	}
	return true
}
