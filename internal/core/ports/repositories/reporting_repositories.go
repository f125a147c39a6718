package repositories

import (
	"context"
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// ReportingRepository defines aggregate queries for financial report data
type ReportingRepository interface {
	// GetProfitAndLossData retrieves per-account period activity for active
	// revenue and expense accounts. Accounts with no activity in the period are
	// included with a zero amount.
	GetProfitAndLossData(ctx context.Context, organizationID string, from, to time.Time) (revenue []domain.AccountAmount, expenses []domain.AccountAmount, err error)

	// GetBalanceSheetData retrieves normal-side balances of active asset,
	// liability and equity accounts as of a specific date.
	GetBalanceSheetData(ctx context.Context, organizationID string, asOf time.Time) (assets []domain.AccountAmount, liabilities []domain.AccountAmount, equity []domain.AccountAmount, err error)

	// GetNetIncome computes total revenue minus total expenses over a period.
	GetNetIncome(ctx context.Context, organizationID string, from, to time.Time) (domain.AccountAmount, error)
}
