package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	"github.com/ledgerpro/ledgerpro_backend/internal/models"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/mapping"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for general ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const transactionColumns = `transaction_id, organization_id, date, description, reference_number, created_at, created_by, last_updated_at, last_updated_by`
const journalEntryColumns = `journal_entry_id, transaction_id, account_id, debit_amount, credit_amount, description`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.OrganizationID,
		&m.Date,
		&m.Description,
		&m.ReferenceNumber,
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

func scanJournalEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalEntryID,
		&m.TransactionID,
		&m.AccountID,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.Description,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveTransaction persists a transaction and all its journal entries atomically
// within a repository-owned database transaction.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.SaveTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveTransactionInTx persists a transaction and its entries within a
// caller-owned database transaction.
func (r *PgxLedgerRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	modelTxn := mapping.ToModelTransaction(txn)
	txnQuery := `
		INSERT INTO transactions (transaction_id, organization_id, date, description, reference_number, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, txnQuery,
		modelTxn.TransactionID,
		modelTxn.OrganizationID,
		modelTxn.Date,
		modelTxn.Description,
		modelTxn.ReferenceNumber,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	return r.insertEntriesInTx(ctx, tx, txn.Entries)
}

func (r *PgxLedgerRepository) insertEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.JournalEntry) error {
	entryQuery := `
		INSERT INTO journal_entries (journal_entry_id, transaction_id, account_id, debit_amount, credit_amount, description)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		modelEntry := mapping.ToModelJournalEntry(entry)
		batch.Queue(entryQuery,
			modelEntry.JournalEntryID,
			modelEntry.TransactionID,
			modelEntry.AccountID,
			modelEntry.DebitAmount,
			modelEntry.CreditAmount,
			modelEntry.Description,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert journal entry: %w", err)
		}
	}
	return nil
}

// FindTransactionByID retrieves a transaction together with its journal entries.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE transaction_id = $1;`, transactionColumns)
	modelTxn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	entryQuery := fmt.Sprintf(`SELECT %s FROM journal_entries WHERE transaction_id = $1 ORDER BY journal_entry_id;`, journalEntryColumns)
	rows, err := r.Pool.Query(ctx, entryQuery, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var modelEntries []models.JournalEntry
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	domainTxn := mapping.ToDomainTransaction(*modelTxn)
	domainTxn.Entries = mapping.ToDomainJournalEntrySlice(modelEntries)
	return &domainTxn, nil
}

// ListTransactionsByOrganization retrieves transactions newest first using
// token-based keyset pagination on (date, created_at).
func (r *PgxLedgerRepository) ListTransactionsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []any{organizationID, limit}
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE organization_id = $1
	`, transactionColumns)
	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (date, created_at) < ($3, $4)`
		args = append(args, tokenDate, tokenCreatedAt)
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.Transaction, 0, limit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	domainTxns := make([]domain.Transaction, len(modelTxns))
	for i, m := range modelTxns {
		domainTxns[i] = mapping.ToDomainTransaction(m)
	}

	var newToken *string
	if len(modelTxns) == limit {
		last := modelTxns[len(modelTxns)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		newToken = &token
	}
	return domainTxns, newToken, nil
}

// ListEntriesByAccount retrieves journal entries for an account newest first,
// using token-based keyset pagination on the owning transaction's ordering
// plus the entry ID as a tiebreaker.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, organizationID string, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{organizationID, accountID, limit}
	query := `
		SELECT je.journal_entry_id, je.transaction_id, je.account_id, je.debit_amount, je.credit_amount, je.description,
			t.date, t.created_at
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id
		WHERE t.organization_id = $1 AND je.account_id = $2
	`
	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 3 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		tokenDate, dateErr := time.Parse(time.RFC3339Nano, fields[0])
		tokenCreatedAt, createdErr := time.Parse(time.RFC3339Nano, fields[1])
		if dateErr != nil || createdErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (t.date, t.created_at, je.journal_entry_id) < ($4, $5, $6)`
		args = append(args, tokenDate, tokenCreatedAt, fields[2])
	}
	query += ` ORDER BY t.date DESC, t.created_at DESC, je.journal_entry_id DESC LIMIT $3;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	type entryRow struct {
		entry     models.JournalEntry
		date      time.Time
		createdAt time.Time
	}
	entryRows := make([]entryRow, 0, limit)
	for rows.Next() {
		var er entryRow
		err := rows.Scan(
			&er.entry.JournalEntryID,
			&er.entry.TransactionID,
			&er.entry.AccountID,
			&er.entry.DebitAmount,
			&er.entry.CreditAmount,
			&er.entry.Description,
			&er.date,
			&er.createdAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entryRows = append(entryRows, er)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	domainEntries := make([]domain.JournalEntry, len(entryRows))
	for i, er := range entryRows {
		domainEntries[i] = mapping.ToDomainJournalEntry(er.entry)
	}

	var newToken *string
	if len(entryRows) == limit {
		last := entryRows[len(entryRows)-1]
		token := pagination.EncodeMultiFieldToken(
			last.date.Format(time.RFC3339Nano),
			last.createdAt.Format(time.RFC3339Nano),
			last.entry.JournalEntryID,
		)
		newToken = &token
	}
	return domainEntries, newToken, nil
}

// ReplaceTransaction updates transaction fields and swaps the full set of
// journal entries within a repository-owned database transaction.
func (r *PgxLedgerRepository) ReplaceTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelTxn := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET date = $2,
			description = $3,
			reference_number = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE transaction_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.Date,
		modelTxn.Description,
		modelTxn.ReferenceNumber,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE transaction_id = $1;`, txn.TransactionID); err != nil {
		return fmt.Errorf("failed to delete journal entries for transaction %s: %w", txn.TransactionID, err)
	}
	if err := r.insertEntriesInTx(ctx, tx, txn.Entries); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteTransaction removes a transaction and its entries.
func (r *PgxLedgerRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.DeleteTransactionInTx(ctx, tx, transactionID); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteTransactionInTx removes a transaction and its entries within a
// caller-owned database transaction.
func (r *PgxLedgerRepository) DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to delete journal entries for transaction %s: %w", transactionID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SumEntriesByAccount returns total debits and credits posted to an account,
// optionally bounded by an inclusive as-of date.
func (r *PgxLedgerRepository) SumEntriesByAccount(ctx context.Context, organizationID string, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := []any{organizationID, accountID}
	query := `
		SELECT COALESCE(SUM(je.debit_amount), 0), COALESCE(SUM(je.credit_amount), 0)
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id
		WHERE t.organization_id = $1 AND je.account_id = $2
	`
	if asOf != nil {
		query += ` AND t.date <= $3`
		args = append(args, *asOf)
	}
	query += `;`

	var debits, credits decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum journal entries for account %s: %w", accountID, err)
	}
	return debits, credits, nil
}

// SumEntriesByAccountForPeriod returns total debits and credits posted to an
// account within an inclusive date range.
func (r *PgxLedgerRepository) SumEntriesByAccountForPeriod(ctx context.Context, organizationID string, accountID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(je.debit_amount), 0), COALESCE(SUM(je.credit_amount), 0)
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id
		WHERE t.organization_id = $1 AND je.account_id = $2 AND t.date >= $3 AND t.date <= $4;
	`
	var debits, credits decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, organizationID, accountID, from, to).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum journal entries for account %s in period: %w", accountID, err)
	}
	return debits, credits, nil
}
