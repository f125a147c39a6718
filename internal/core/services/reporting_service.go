package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
)

// balanceSheetTolerance is the maximum accepted absolute difference between
// assets and liabilities+equity before a balance sheet is flagged.
var balanceSheetTolerance = decimal.RequireFromString("0.01")

// reportingService generates financial statements from ledger aggregates.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// ReportingServiceOption configures the reporting service.
type ReportingServiceOption func(*reportingService)

// WithReportingAuthorizer sets the organization authorizer.
func WithReportingAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.OrgAuthorizer = authorizer
	}
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, opts ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: reportingRepo,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// ProfitAndLoss generates a profit and loss statement for a period. Totals
// cover every active revenue/expense account; the per-account breakdown omits
// accounts with no activity in the period.
func (s *reportingService) ProfitAndLoss(ctx context.Context, organizationID string, from, to time.Time, userID string) (*domain.PAndLReport, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if from.IsZero() || to.IsZero() {
		return nil, ErrMissingDateRange
	}

	revenue, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, organizationID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load profit and loss data", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to generate profit and loss: %w", err)
	}

	report := &domain.PAndLReport{
		OrganizationID: organizationID,
		StartDate:      from,
		EndDate:        to,
		Revenue:        make([]domain.AccountAmount, 0, len(revenue)),
		Expenses:       make([]domain.AccountAmount, 0, len(expenses)),
		TotalRevenue:   decimal.Zero,
		TotalExpenses:  decimal.Zero,
	}

	for _, line := range revenue {
		report.TotalRevenue = report.TotalRevenue.Add(line.Amount)
		if !line.Amount.IsZero() {
			report.Revenue = append(report.Revenue, line)
		}
	}
	for _, line := range expenses {
		report.TotalExpenses = report.TotalExpenses.Add(line.Amount)
		if !line.Amount.IsZero() {
			report.Expenses = append(report.Expenses, line)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)

	return report, nil
}

// BalanceSheet generates a point-in-time statement of financial position.
// Current year net income is appended to equity so the sheet balances without
// a year-end close; the verification block flags any residual difference
// beyond the 0.01 tolerance.
func (s *reportingService) BalanceSheet(ctx context.Context, organizationID string, asOf time.Time, userID string) (*domain.BalanceSheetReport, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, organizationID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to load balance sheet data", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to generate balance sheet: %w", err)
	}

	yearStart := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	netIncome, err := s.reportingRepo.GetNetIncome(ctx, organizationID, yearStart, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute current year net income", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to generate balance sheet: %w", err)
	}
	netIncome.AccountName = "Current Year Net Income"
	equity = append(equity, netIncome)

	report := &domain.BalanceSheetReport{
		OrganizationID:   organizationID,
		AsOfDate:         asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      sumAmounts(assets),
		TotalLiabilities: sumAmounts(liabilities),
		TotalEquity:      sumAmounts(equity),
	}

	difference := report.TotalAssets.Sub(report.TotalLiabilities.Add(report.TotalEquity))
	report.Verification = domain.BalanceSheetVerification{
		Balances:   difference.Abs().LessThanOrEqual(balanceSheetTolerance),
		Difference: difference,
	}
	if !report.Verification.Balances {
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.String("organization_id", organizationID),
			slog.String("difference", difference.String()))
	}

	return report, nil
}

func sumAmounts(lines []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}
	return total
}
