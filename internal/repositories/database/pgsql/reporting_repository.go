package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for financial report aggregates.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// activityByType sums period activity per active account of the given type,
// signed to the account's normal side. Accounts without entries in the period
// come back with a zero amount.
func (r *PgxReportingRepository) activityByType(ctx context.Context, organizationID string, accountType domain.AccountType, signExpr string, from, to time.Time) ([]domain.AccountAmount, error) {
	query := fmt.Sprintf(`
		SELECT a.account_id, a.name, COALESCE(SUM(%s), 0)
		FROM accounts a
		LEFT JOIN journal_entries je ON je.account_id = a.account_id
		LEFT JOIN transactions t ON t.transaction_id = je.transaction_id AND t.date >= $3 AND t.date <= $4
		WHERE a.organization_id = $1 AND a.account_type = $2 AND a.is_active = TRUE
		GROUP BY a.account_id, a.name
		ORDER BY a.name ASC;
	`, signExpr)
	rows, err := r.Pool.Query(ctx, query, organizationID, string(accountType), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s activity: %w", accountType, err)
	}
	defer rows.Close()

	var lines []domain.AccountAmount
	for rows.Next() {
		var line domain.AccountAmount
		if err := rows.Scan(&line.AccountID, &line.AccountName, &line.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan report line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report lines: %w", err)
	}
	return lines, nil
}

// The LEFT JOIN on transactions leaves entries outside the period with a NULL
// transaction, so the CASE guards keep them out of the sums.
const creditNormalExpr = `CASE WHEN t.transaction_id IS NULL THEN 0 ELSE je.credit_amount - je.debit_amount END`
const debitNormalExpr = `CASE WHEN t.transaction_id IS NULL THEN 0 ELSE je.debit_amount - je.credit_amount END`

// GetProfitAndLossData retrieves per-account period activity for active
// revenue and expense accounts.
func (r *PgxReportingRepository) GetProfitAndLossData(ctx context.Context, organizationID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	revenue, err := r.activityByType(ctx, organizationID, domain.Revenue, creditNormalExpr, from, to)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := r.activityByType(ctx, organizationID, domain.Expense, debitNormalExpr, from, to)
	if err != nil {
		return nil, nil, err
	}
	return revenue, expenses, nil
}

// balancesByType sums balances per active account of the given type as of a
// date, signed to the account's normal side.
func (r *PgxReportingRepository) balancesByType(ctx context.Context, organizationID string, accountType domain.AccountType, signExpr string, asOf time.Time) ([]domain.AccountAmount, error) {
	query := fmt.Sprintf(`
		SELECT a.account_id, a.name, COALESCE(SUM(%s), 0)
		FROM accounts a
		LEFT JOIN journal_entries je ON je.account_id = a.account_id
		LEFT JOIN transactions t ON t.transaction_id = je.transaction_id AND t.date <= $3
		WHERE a.organization_id = $1 AND a.account_type = $2 AND a.is_active = TRUE
		GROUP BY a.account_id, a.name
		ORDER BY a.name ASC;
	`, signExpr)
	rows, err := r.Pool.Query(ctx, query, organizationID, string(accountType), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s balances: %w", accountType, err)
	}
	defer rows.Close()

	var lines []domain.AccountAmount
	for rows.Next() {
		var line domain.AccountAmount
		if err := rows.Scan(&line.AccountID, &line.AccountName, &line.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan report line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report lines: %w", err)
	}
	return lines, nil
}

// GetBalanceSheetData retrieves normal-side balances of active asset,
// liability and equity accounts as of a specific date.
func (r *PgxReportingRepository) GetBalanceSheetData(ctx context.Context, organizationID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	assets, err := r.balancesByType(ctx, organizationID, domain.Asset, debitNormalExpr, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	liabilities, err := r.balancesByType(ctx, organizationID, domain.Liability, creditNormalExpr, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	equity, err := r.balancesByType(ctx, organizationID, domain.Equity, creditNormalExpr, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	return assets, liabilities, equity, nil
}

// GetNetIncome computes total revenue minus total expenses over a period.
func (r *PgxReportingRepository) GetNetIncome(ctx context.Context, organizationID string, from, to time.Time) (domain.AccountAmount, error) {
	query := `
		SELECT COALESCE(SUM(CASE
			WHEN a.account_type = $2 THEN je.credit_amount - je.debit_amount
			WHEN a.account_type = $3 THEN je.debit_amount - je.credit_amount
			ELSE 0
		END), 0)
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id
		JOIN accounts a ON a.account_id = je.account_id
		WHERE t.organization_id = $1 AND a.account_type IN ($2, $3) AND t.date >= $4 AND t.date <= $5;
	`
	var revenueMinusExpenses decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, organizationID, string(domain.Revenue), string(domain.Expense), from, to).Scan(&revenueMinusExpenses)
	if err != nil {
		return domain.AccountAmount{}, fmt.Errorf("failed to compute net income: %w", err)
	}
	return domain.AccountAmount{
		AccountName: "Net Income",
		Amount:      revenueMinusExpenses,
	}, nil
}
