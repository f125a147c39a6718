package services

import (
	"context"
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// ReportingService defines financial report generation
type ReportingService interface {
	// ProfitAndLoss generates a profit and loss statement for a period.
	ProfitAndLoss(ctx context.Context, organizationID string, from, to time.Time, userID string) (*domain.PAndLReport, error)

	// BalanceSheet generates a balance sheet as of a date, with a verification
	// block confirming the accounting equation holds.
	BalanceSheet(ctx context.Context, organizationID string, asOf time.Time, userID string) (*domain.BalanceSheetReport, error)
}
