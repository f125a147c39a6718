package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	"github.com/ledgerpro/ledgerpro_backend/internal/models"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/mapping"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for bank feed and
// reconciliation data.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const bankFeedItemColumns = `bank_feed_item_id, organization_id, access_token, item_id, institution_id, institution_name, last_synced_at, sync_cursor, created_at, created_by, last_updated_at, last_updated_by`
const stagedTransactionColumns = `staged_transaction_id, organization_id, bank_feed_item_id, source_txn_id, source_account_id, source_account_name, date, posted_date, name, merchant_name, amount, currency_code, source_category, reconciliation_status, linked_transaction_id, applied_rule_id, source, created_at, created_by, last_updated_at, last_updated_by`
const reconciliationRuleColumns = `rule_id, organization_id, name, priority, is_active, conditions, actions, created_at, created_by, last_updated_at, last_updated_by`

func scanBankFeedItem(row pgx.Row) (*models.BankFeedItem, error) {
	var m models.BankFeedItem
	err := row.Scan(
		&m.BankFeedItemID,
		&m.OrganizationID,
		&m.AccessToken,
		&m.ItemID,
		&m.InstitutionID,
		&m.InstitutionName,
		&m.LastSyncedAt,
		&m.SyncCursor,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanStagedTransaction(row pgx.Row) (*models.StagedBankTransaction, error) {
	var m models.StagedBankTransaction
	err := row.Scan(
		&m.StagedTransactionID,
		&m.OrganizationID,
		&m.BankFeedItemID,
		&m.SourceTxnID,
		&m.SourceAccountID,
		&m.SourceAccountName,
		&m.Date,
		&m.PostedDate,
		&m.Name,
		&m.MerchantName,
		&m.Amount,
		&m.CurrencyCode,
		&m.SourceCategory,
		&m.ReconciliationStatus,
		&m.LinkedTransactionID,
		&m.AppliedRuleID,
		&m.Source,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanReconciliationRule(row pgx.Row) (*models.ReconciliationRule, error) {
	var m models.ReconciliationRule
	err := row.Scan(
		&m.RuleID,
		&m.OrganizationID,
		&m.Name,
		&m.Priority,
		&m.IsActive,
		&m.Conditions,
		&m.Actions,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveBankFeedItem persists a new bank feed item.
func (r *PgxReconciliationRepository) SaveBankFeedItem(ctx context.Context, item domain.BankFeedItem) error {
	modelItem := mapping.ToModelBankFeedItem(item)
	query := `
		INSERT INTO bank_feed_items (bank_feed_item_id, organization_id, access_token, item_id, institution_id, institution_name, last_synced_at, sync_cursor, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelItem.BankFeedItemID,
		modelItem.OrganizationID,
		modelItem.AccessToken,
		modelItem.ItemID,
		modelItem.InstitutionID,
		modelItem.InstitutionName,
		modelItem.LastSyncedAt,
		modelItem.SyncCursor,
		modelItem.CreatedAt,
		modelItem.CreatedBy,
		modelItem.LastUpdatedAt,
		modelItem.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: bank feed item %s already exists", apperrors.ErrDuplicate, item.ItemID)
		}
		return fmt.Errorf("failed to insert bank feed item: %w", err)
	}
	return nil
}

// FindBankFeedItemByID retrieves a bank feed item by its ID.
func (r *PgxReconciliationRepository) FindBankFeedItemByID(ctx context.Context, bankFeedItemID string) (*domain.BankFeedItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM bank_feed_items WHERE bank_feed_item_id = $1;`, bankFeedItemColumns)
	modelItem, err := scanBankFeedItem(r.Pool.QueryRow(ctx, query, bankFeedItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank feed item %s: %w", bankFeedItemID, err)
	}
	domainItem := mapping.ToDomainBankFeedItem(*modelItem)
	return &domainItem, nil
}

// ListBankFeedItems retrieves the bank feed items of an organization.
func (r *PgxReconciliationRepository) ListBankFeedItems(ctx context.Context, organizationID string) ([]domain.BankFeedItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bank_feed_items
		WHERE organization_id = $1
		ORDER BY institution_name ASC, created_at ASC;
	`, bankFeedItemColumns)
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank feed items for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	var modelItems []models.BankFeedItem
	for rows.Next() {
		m, err := scanBankFeedItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank feed item row: %w", err)
		}
		modelItems = append(modelItems, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank feed item rows: %w", err)
	}
	return mapping.ToDomainBankFeedItemSlice(modelItems), nil
}

// UpdateBankFeedItem updates a bank feed item's sync cursor and last-synced stamp.
func (r *PgxReconciliationRepository) UpdateBankFeedItem(ctx context.Context, item domain.BankFeedItem) error {
	modelItem := mapping.ToModelBankFeedItem(item)
	query := `
		UPDATE bank_feed_items
		SET access_token = $2,
			institution_name = $3,
			last_synced_at = $4,
			sync_cursor = $5,
			last_updated_at = $6,
			last_updated_by = $7
		WHERE bank_feed_item_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelItem.BankFeedItemID,
		modelItem.AccessToken,
		modelItem.InstitutionName,
		modelItem.LastSyncedAt,
		modelItem.SyncCursor,
		modelItem.LastUpdatedAt,
		modelItem.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank feed item %s: %w", item.BankFeedItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpsertStagedTransaction inserts a staged transaction or refreshes the
// existing row with the same (organization, source transaction id). Rows a
// user has already acted on keep their reconciliation state.
func (r *PgxReconciliationRepository) UpsertStagedTransaction(ctx context.Context, txn domain.StagedBankTransaction) error {
	modelTxn := mapping.ToModelStagedBankTransaction(txn)
	query := `
		INSERT INTO staged_bank_transactions (staged_transaction_id, organization_id, bank_feed_item_id, source_txn_id, source_account_id, source_account_name, date, posted_date, name, merchant_name, amount, currency_code, source_category, reconciliation_status, linked_transaction_id, applied_rule_id, source, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (organization_id, source_txn_id) DO UPDATE
		SET source_account_id = EXCLUDED.source_account_id,
			source_account_name = EXCLUDED.source_account_name,
			date = EXCLUDED.date,
			posted_date = EXCLUDED.posted_date,
			name = EXCLUDED.name,
			merchant_name = EXCLUDED.merchant_name,
			amount = EXCLUDED.amount,
			currency_code = EXCLUDED.currency_code,
			source_category = EXCLUDED.source_category,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		modelTxn.StagedTransactionID,
		modelTxn.OrganizationID,
		modelTxn.BankFeedItemID,
		modelTxn.SourceTxnID,
		modelTxn.SourceAccountID,
		modelTxn.SourceAccountName,
		modelTxn.Date,
		modelTxn.PostedDate,
		modelTxn.Name,
		modelTxn.MerchantName,
		modelTxn.Amount,
		modelTxn.CurrencyCode,
		modelTxn.SourceCategory,
		modelTxn.ReconciliationStatus,
		modelTxn.LinkedTransactionID,
		modelTxn.AppliedRuleID,
		modelTxn.Source,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert staged transaction %s: %w", txn.SourceTxnID, err)
	}
	return nil
}

// FindStagedTransactionByID retrieves a staged transaction by its ID.
func (r *PgxReconciliationRepository) FindStagedTransactionByID(ctx context.Context, stagedTransactionID string) (*domain.StagedBankTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM staged_bank_transactions WHERE staged_transaction_id = $1;`, stagedTransactionColumns)
	modelTxn, err := scanStagedTransaction(r.Pool.QueryRow(ctx, query, stagedTransactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staged transaction %s: %w", stagedTransactionID, err)
	}
	domainTxn := mapping.ToDomainStagedBankTransaction(*modelTxn)
	return &domainTxn, nil
}

// ListStagedTransactions retrieves a paginated list of staged transactions,
// newest first, optionally filtered by reconciliation status.
func (r *PgxReconciliationRepository) ListStagedTransactions(ctx context.Context, organizationID string, status *domain.ReconciliationStatus, limit int, offset int) ([]domain.StagedBankTransaction, error) {
	args := []any{organizationID, limit, offset}
	query := fmt.Sprintf(`
		SELECT %s FROM staged_bank_transactions
		WHERE organization_id = $1
	`, stagedTransactionColumns)
	if status != nil {
		query += ` AND reconciliation_status = $4`
		args = append(args, string(*status))
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query staged transactions for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.StagedBankTransaction, 0, limit)
	for rows.Next() {
		m, err := scanStagedTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staged transaction row: %w", err)
		}
		modelTxns = append(modelTxns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staged transaction rows: %w", err)
	}
	return mapping.ToDomainStagedBankTransactionSlice(modelTxns), nil
}

// ListUnmatchedTransactions retrieves up to limit unmatched staged
// transactions, oldest first so rules work through the backlog in order.
func (r *PgxReconciliationRepository) ListUnmatchedTransactions(ctx context.Context, organizationID string, limit int) ([]domain.StagedBankTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM staged_bank_transactions
		WHERE organization_id = $1 AND reconciliation_status = $2
		ORDER BY date ASC, created_at ASC
		LIMIT $3;
	`, stagedTransactionColumns)
	rows, err := r.Pool.Query(ctx, query, organizationID, string(domain.ReconUnmatched), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unmatched staged transactions for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.StagedBankTransaction, 0, limit)
	for rows.Next() {
		m, err := scanStagedTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staged transaction row: %w", err)
		}
		modelTxns = append(modelTxns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staged transaction rows: %w", err)
	}
	return mapping.ToDomainStagedBankTransactionSlice(modelTxns), nil
}

// UpdateStagedTransaction updates a staged transaction's mutable fields.
func (r *PgxReconciliationRepository) UpdateStagedTransaction(ctx context.Context, txn domain.StagedBankTransaction) error {
	modelTxn := mapping.ToModelStagedBankTransaction(txn)
	query := `
		UPDATE staged_bank_transactions
		SET source_category = $2,
			reconciliation_status = $3,
			linked_transaction_id = $4,
			applied_rule_id = $5,
			last_updated_at = $6,
			last_updated_by = $7
		WHERE staged_transaction_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelTxn.StagedTransactionID,
		modelTxn.SourceCategory,
		modelTxn.ReconciliationStatus,
		modelTxn.LinkedTransactionID,
		modelTxn.AppliedRuleID,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update staged transaction %s: %w", txn.StagedTransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveRule persists a new reconciliation rule.
func (r *PgxReconciliationRepository) SaveRule(ctx context.Context, rule domain.ReconciliationRule) error {
	modelRule, err := mapping.ToModelReconciliationRule(rule)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO reconciliation_rules (rule_id, organization_id, name, priority, is_active, conditions, actions, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.Pool.Exec(ctx, query,
		modelRule.RuleID,
		modelRule.OrganizationID,
		modelRule.Name,
		modelRule.Priority,
		modelRule.IsActive,
		modelRule.Conditions,
		modelRule.Actions,
		modelRule.CreatedAt,
		modelRule.CreatedBy,
		modelRule.LastUpdatedAt,
		modelRule.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: rule named %q already exists in organization", apperrors.ErrDuplicate, rule.Name)
		}
		return fmt.Errorf("failed to insert reconciliation rule: %w", err)
	}
	return nil
}

// FindRuleByID retrieves a reconciliation rule by its ID.
func (r *PgxReconciliationRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ReconciliationRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM reconciliation_rules WHERE rule_id = $1;`, reconciliationRuleColumns)
	modelRule, err := scanReconciliationRule(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation rule %s: %w", ruleID, err)
	}
	domainRule, err := mapping.ToDomainReconciliationRule(*modelRule)
	if err != nil {
		return nil, err
	}
	return &domainRule, nil
}

func (r *PgxReconciliationRepository) listRules(ctx context.Context, organizationID string, activeOnly bool) ([]domain.ReconciliationRule, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reconciliation_rules
		WHERE organization_id = $1 AND ($2 = FALSE OR is_active = TRUE)
		ORDER BY priority ASC, name ASC;
	`, reconciliationRuleColumns)
	rows, err := r.Pool.Query(ctx, query, organizationID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation rules for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	var domainRules []domain.ReconciliationRule
	for rows.Next() {
		m, err := scanReconciliationRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation rule row: %w", err)
		}
		domainRule, err := mapping.ToDomainReconciliationRule(*m)
		if err != nil {
			return nil, err
		}
		domainRules = append(domainRules, domainRule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation rule rows: %w", err)
	}
	return domainRules, nil
}

// ListActiveRules retrieves the active rules of an organization in evaluation order.
func (r *PgxReconciliationRepository) ListActiveRules(ctx context.Context, organizationID string) ([]domain.ReconciliationRule, error) {
	return r.listRules(ctx, organizationID, true)
}

// ListRules retrieves all rules of an organization in evaluation order.
func (r *PgxReconciliationRepository) ListRules(ctx context.Context, organizationID string) ([]domain.ReconciliationRule, error) {
	return r.listRules(ctx, organizationID, false)
}

// UpdateRule updates an existing reconciliation rule.
func (r *PgxReconciliationRepository) UpdateRule(ctx context.Context, rule domain.ReconciliationRule) error {
	modelRule, err := mapping.ToModelReconciliationRule(rule)
	if err != nil {
		return err
	}
	query := `
		UPDATE reconciliation_rules
		SET name = $2,
			priority = $3,
			is_active = $4,
			conditions = $5,
			actions = $6,
			last_updated_at = $7,
			last_updated_by = $8
		WHERE rule_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelRule.RuleID,
		modelRule.Name,
		modelRule.Priority,
		modelRule.IsActive,
		modelRule.Conditions,
		modelRule.Actions,
		modelRule.LastUpdatedAt,
		modelRule.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: rule named %q already exists in organization", apperrors.ErrDuplicate, rule.Name)
		}
		return fmt.Errorf("failed to update reconciliation rule %s: %w", rule.RuleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRule removes a reconciliation rule.
func (r *PgxReconciliationRepository) DeleteRule(ctx context.Context, ruleID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM reconciliation_rules WHERE rule_id = $1;`, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete reconciliation rule %s: %w", ruleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
