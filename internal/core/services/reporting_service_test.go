package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingService

	orgID  string
	userID string
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockRepo)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func amount(name, value string) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID:   uuid.NewString(),
		AccountName: name,
		Amount:      decimal.RequireFromString(value),
	}
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_OmitsZeroActivityFromBreakdown() {
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	revenue := []domain.AccountAmount{
		amount("Sales Revenue", "12000.00"),
		amount("Interest Income", "0"),
	}
	expenses := []domain.AccountAmount{
		amount("Rent Expense", "4500.00"),
		amount("Payroll Expenses", "5200.00"),
		amount("Depreciation", "0"),
	}

	suite.mockRepo.On("GetProfitAndLossData", ctx, suite.orgID, from, to).Return(revenue, expenses, nil).Once()

	report, err := suite.service.ProfitAndLoss(ctx, suite.orgID, from, to, suite.userID)

	suite.Require().NoError(err)
	suite.Len(report.Revenue, 1)
	suite.Len(report.Expenses, 2)
	suite.True(report.TotalRevenue.Equal(decimal.RequireFromString("12000.00")))
	suite.True(report.TotalExpenses.Equal(decimal.RequireFromString("9700.00")))
	suite.True(report.NetIncome.Equal(decimal.RequireFromString("2300.00")), "net income %s", report.NetIncome)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_MissingDateRange() {
	ctx := context.Background()

	report, err := suite.service.ProfitAndLoss(ctx, suite.orgID, time.Time{}, time.Now(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMissingDateRange)
	suite.Nil(report)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_AppendsCurrentYearNetIncome() {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assets := []domain.AccountAmount{amount("Cash", "10000.00"), amount("Accounts Receivable", "3000.00")}
	liabilities := []domain.AccountAmount{amount("Accounts Payable", "4000.00")}
	equity := []domain.AccountAmount{amount("Owner's Capital", "6700.00")}
	netIncome := domain.AccountAmount{Amount: decimal.RequireFromString("2300.00")}

	suite.mockRepo.On("GetBalanceSheetData", ctx, suite.orgID, asOf).Return(assets, liabilities, equity, nil).Once()
	suite.mockRepo.On("GetNetIncome", ctx, suite.orgID, yearStart, asOf).Return(netIncome, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.orgID, asOf, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Equity, 2)
	suite.Equal("Current Year Net Income", report.Equity[1].AccountName)
	suite.True(report.TotalAssets.Equal(decimal.RequireFromString("13000.00")))
	suite.True(report.TotalLiabilities.Equal(decimal.RequireFromString("4000.00")))
	suite.True(report.TotalEquity.Equal(decimal.RequireFromString("9000.00")))
	suite.True(report.Verification.Balances)
	suite.True(report.Verification.Difference.IsZero())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_FlagsImbalance() {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assets := []domain.AccountAmount{amount("Cash", "10000.00")}
	liabilities := []domain.AccountAmount{amount("Accounts Payable", "4000.00")}
	equity := []domain.AccountAmount{amount("Owner's Capital", "5000.00")}
	netIncome := domain.AccountAmount{Amount: decimal.RequireFromString("500.00")}

	suite.mockRepo.On("GetBalanceSheetData", ctx, suite.orgID, asOf).Return(assets, liabilities, equity, nil).Once()
	suite.mockRepo.On("GetNetIncome", ctx, suite.orgID, yearStart, asOf).Return(netIncome, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.orgID, asOf, suite.userID)

	suite.Require().NoError(err)
	suite.False(report.Verification.Balances)
	suite.True(report.Verification.Difference.Equal(decimal.RequireFromString("500.00")), "difference %s", report.Verification.Difference)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_ToleratesRoundingResidue() {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assets := []domain.AccountAmount{amount("Cash", "10000.01")}
	liabilities := []domain.AccountAmount{amount("Accounts Payable", "4000.00")}
	equity := []domain.AccountAmount{amount("Owner's Capital", "6000.00")}
	netIncome := domain.AccountAmount{Amount: decimal.Zero}

	suite.mockRepo.On("GetBalanceSheetData", ctx, suite.orgID, asOf).Return(assets, liabilities, equity, nil).Once()
	suite.mockRepo.On("GetNetIncome", ctx, suite.orgID, yearStart, asOf).Return(netIncome, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.orgID, asOf, suite.userID)

	suite.Require().NoError(err)
	suite.True(report.Verification.Balances)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
