package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

type PayrollServiceTestSuite struct {
	suite.Suite
	mockPayrollRepo *MockPayrollRepository
	mockLedgerRepo  *MockLedgerRepository
	mockResolver    *MockAccountResolver
	service         portssvc.PayrollSvcFacade

	orgID  string
	userID string
}

func (suite *PayrollServiceTestSuite) SetupTest() {
	suite.mockPayrollRepo = new(MockPayrollRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockResolver = new(MockAccountResolver)
	suite.service = services.NewPayrollService(suite.mockPayrollRepo, suite.mockLedgerRepo, suite.mockResolver)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *PayrollServiceTestSuite) salariedEmployee(annualRate string) *domain.Employee {
	return &domain.Employee{
		EmployeeID:     uuid.NewString(),
		OrganizationID: suite.orgID,
		FirstName:      "Ada",
		LastName:       "Byron",
		Email:          "ada@acme.example",
		PayType:        domain.PaySalary,
		PayRate:        decimal.RequireFromString(annualRate),
		IsActive:       true,
	}
}

func (suite *PayrollServiceTestSuite) hourlyEmployee(rate string) *domain.Employee {
	emp := suite.salariedEmployee("0")
	emp.PayType = domain.PayHourly
	emp.PayRate = decimal.RequireFromString(rate)
	return emp
}

func (suite *PayrollServiceTestSuite) draftPayRun() *domain.PayRun {
	return &domain.PayRun{
		PayRunID:       uuid.NewString(),
		OrganizationID: suite.orgID,
		PayPeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PayPeriodEnd:   time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		PaymentDate:    time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		Status:         domain.PayRunDraft,
	}
}

func (suite *PayrollServiceTestSuite) resolverAccount(accountType domain.AccountType, name string) *domain.Account {
	return &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           name,
		AccountType:    accountType,
		IsActive:       true,
	}
}

func (suite *PayrollServiceTestSuite) expectDefaultAccounts() (expense, wages, deductions *domain.Account) {
	expense = suite.resolverAccount(domain.Expense, "Payroll Expenses (Default)")
	wages = suite.resolverAccount(domain.Liability, "Wages Payable (Default)")
	deductions = suite.resolverAccount(domain.Liability, "Deductions Payable (Default)")
	suite.mockResolver.On("ResolveOrCreateDefault", mock.Anything, suite.orgID, domain.Expense,
		"Payroll Expense", "Payroll Expenses (Default)", "payroll expense", suite.userID).Return(expense, nil).Once()
	suite.mockResolver.On("ResolveOrCreateDefault", mock.Anything, suite.orgID, domain.Liability,
		"Wages Payable", "Wages Payable (Default)", "wages payable", suite.userID).Return(wages, nil).Once()
	suite.mockResolver.On("ResolveOrCreateDefault", mock.Anything, suite.orgID, domain.Liability,
		"Deductions Payable", "Deductions Payable (Default)", "deductions payable", suite.userID).Return(deductions, nil).Once()
	return expense, wages, deductions
}

func (suite *PayrollServiceTestSuite) TestCalculateGrossPay_Salary() {
	ctx := context.Background()
	emp := suite.salariedEmployee("52000")

	gross, err := suite.service.CalculateGrossPay(ctx, *emp, nil)

	suite.Require().NoError(err)
	suite.True(gross.Equal(decimal.RequireFromString("2000.00")), "got %s", gross)
}

func (suite *PayrollServiceTestSuite) TestCalculateGrossPay_SalaryRoundsDivision() {
	ctx := context.Background()
	// 50000 / 26 = 1923.0769... rounds to 1923.08
	emp := suite.salariedEmployee("50000")

	gross, err := suite.service.CalculateGrossPay(ctx, *emp, nil)

	suite.Require().NoError(err)
	suite.True(gross.Equal(decimal.RequireFromString("1923.08")), "got %s", gross)
}

func (suite *PayrollServiceTestSuite) TestCalculateGrossPay_Hourly() {
	ctx := context.Background()
	emp := suite.hourlyEmployee("25.50")
	hours := decimal.RequireFromString("40")

	gross, err := suite.service.CalculateGrossPay(ctx, *emp, &hours)

	suite.Require().NoError(err)
	suite.True(gross.Equal(decimal.RequireFromString("1020.00")), "got %s", gross)
}

func (suite *PayrollServiceTestSuite) TestCalculateGrossPay_HourlyMissingHours() {
	ctx := context.Background()
	emp := suite.hourlyEmployee("25.50")

	_, err := suite.service.CalculateGrossPay(ctx, *emp, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMissingHours)
}

func (suite *PayrollServiceTestSuite) TestProcessPayRun_Success() {
	ctx := context.Background()
	payRun := suite.draftPayRun()
	emp := suite.salariedEmployee("52000")
	deductionType := &domain.DeductionType{
		DeductionTypeID: uuid.NewString(),
		OrganizationID:  suite.orgID,
		Name:            "401k",
		TaxTreatment:    domain.PreTax,
		IsActive:        true,
	}
	expense, wages, deductions := suite.expectDefaultAccounts()

	req := dto.ProcessPayRunRequest{
		Employees: []dto.PayRunEmployeeInput{
			{
				EmployeeID: emp.EmployeeID,
				Deductions: []dto.PayslipDeductionInput{
					{DeductionTypeID: deductionType.DeductionTypeID, Amount: decimal.RequireFromString("150.00")},
				},
			},
		},
	}

	suite.mockPayrollRepo.On("FindPayRunByID", ctx, payRun.PayRunID, false).Return(payRun, nil).Once()
	suite.mockPayrollRepo.On("UpdatePayRun", ctx, mock.MatchedBy(func(pr domain.PayRun) bool {
		return pr.Status == domain.PayRunProcessing
	})).Return(nil).Once()
	suite.mockPayrollRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockPayrollRepo.On("FindEmployeeByID", ctx, emp.EmployeeID).Return(emp, nil).Once()
	suite.mockPayrollRepo.On("FindDeductionTypeByID", ctx, deductionType.DeductionTypeID).Return(deductionType, nil).Once()
	suite.mockPayrollRepo.On("SavePayslipInTx", ctx, nil, mock.MatchedBy(func(slip domain.Payslip) bool {
		return slip.GrossPay.Equal(decimal.RequireFromString("2000.00")) &&
			slip.TotalDeductions.Equal(decimal.RequireFromString("150.00")) &&
			slip.NetPay.Equal(decimal.RequireFromString("1850.00"))
	})).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveTransactionInTx", ctx, nil, mock.MatchedBy(func(txn domain.Transaction) bool {
		if len(txn.Entries) != 3 || !txn.IsBalanced() {
			return false
		}
		return txn.Entries[0].AccountID == expense.AccountID &&
			txn.Entries[0].DebitAmount.Equal(decimal.RequireFromString("2000.00")) &&
			txn.Entries[1].AccountID == wages.AccountID &&
			txn.Entries[1].CreditAmount.Equal(decimal.RequireFromString("1850.00")) &&
			txn.Entries[2].AccountID == deductions.AccountID &&
			txn.Entries[2].CreditAmount.Equal(decimal.RequireFromString("150.00"))
	})).Return(nil).Once()
	suite.mockPayrollRepo.On("UpdatePayRunInTx", ctx, nil, mock.MatchedBy(func(pr domain.PayRun) bool {
		return pr.Status == domain.PayRunCompleted && pr.TransactionID != nil && pr.ProcessedAt != nil
	})).Return(nil).Once()
	suite.mockPayrollRepo.On("Commit", ctx, nil).Return(nil).Once()

	processed, err := suite.service.ProcessPayRun(ctx, suite.orgID, payRun.PayRunID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PayRunCompleted, processed.Status)
	suite.Require().NotNil(processed.TransactionID)
	suite.Len(processed.Payslips, 1)
	suite.mockPayrollRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestProcessPayRun_NoDeductionsPostsTwoLines() {
	ctx := context.Background()
	payRun := suite.draftPayRun()
	emp := suite.hourlyEmployee("30")
	hours := decimal.RequireFromString("40")
	expense, wages, _ := suite.expectDefaultAccounts()

	req := dto.ProcessPayRunRequest{
		Employees: []dto.PayRunEmployeeInput{{EmployeeID: emp.EmployeeID, HoursWorked: &hours}},
	}

	suite.mockPayrollRepo.On("FindPayRunByID", ctx, payRun.PayRunID, false).Return(payRun, nil).Once()
	suite.mockPayrollRepo.On("UpdatePayRun", ctx, mock.AnythingOfType("domain.PayRun")).Return(nil).Once()
	suite.mockPayrollRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockPayrollRepo.On("FindEmployeeByID", ctx, emp.EmployeeID).Return(emp, nil).Once()
	suite.mockPayrollRepo.On("SavePayslipInTx", ctx, nil, mock.AnythingOfType("domain.Payslip")).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveTransactionInTx", ctx, nil, mock.MatchedBy(func(txn domain.Transaction) bool {
		// No deductions payable line when nothing was withheld.
		return len(txn.Entries) == 2 &&
			txn.Entries[0].AccountID == expense.AccountID &&
			txn.Entries[1].AccountID == wages.AccountID &&
			txn.Entries[1].CreditAmount.Equal(decimal.RequireFromString("1200.00"))
	})).Return(nil).Once()
	suite.mockPayrollRepo.On("UpdatePayRunInTx", ctx, nil, mock.AnythingOfType("domain.PayRun")).Return(nil).Once()
	suite.mockPayrollRepo.On("Commit", ctx, nil).Return(nil).Once()

	processed, err := suite.service.ProcessPayRun(ctx, suite.orgID, payRun.PayRunID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PayRunCompleted, processed.Status)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestProcessPayRun_DuplicateEmployeeInputsLastWins() {
	ctx := context.Background()
	payRun := suite.draftPayRun()
	emp := suite.hourlyEmployee("30")
	tenHours := decimal.RequireFromString("10")
	fortyHours := decimal.RequireFromString("40")
	expense, wages, _ := suite.expectDefaultAccounts()

	// The same employee twice; only the last input counts, matching the
	// single payslip the repository keeps.
	req := dto.ProcessPayRunRequest{
		Employees: []dto.PayRunEmployeeInput{
			{EmployeeID: emp.EmployeeID, HoursWorked: &tenHours},
			{EmployeeID: emp.EmployeeID, HoursWorked: &fortyHours},
		},
	}

	suite.mockPayrollRepo.On("FindPayRunByID", ctx, payRun.PayRunID, false).Return(payRun, nil).Once()
	suite.mockPayrollRepo.On("UpdatePayRun", ctx, mock.AnythingOfType("domain.PayRun")).Return(nil).Once()
	suite.mockPayrollRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockPayrollRepo.On("FindEmployeeByID", ctx, emp.EmployeeID).Return(emp, nil).Once()
	suite.mockPayrollRepo.On("SavePayslipInTx", ctx, nil, mock.MatchedBy(func(slip domain.Payslip) bool {
		return slip.GrossPay.Equal(decimal.RequireFromString("1200.00"))
	})).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveTransactionInTx", ctx, nil, mock.MatchedBy(func(txn domain.Transaction) bool {
		return len(txn.Entries) == 2 &&
			txn.Entries[0].AccountID == expense.AccountID &&
			txn.Entries[0].DebitAmount.Equal(decimal.RequireFromString("1200.00")) &&
			txn.Entries[1].AccountID == wages.AccountID &&
			txn.Entries[1].CreditAmount.Equal(decimal.RequireFromString("1200.00"))
	})).Return(nil).Once()
	suite.mockPayrollRepo.On("UpdatePayRunInTx", ctx, nil, mock.AnythingOfType("domain.PayRun")).Return(nil).Once()
	suite.mockPayrollRepo.On("Commit", ctx, nil).Return(nil).Once()

	processed, err := suite.service.ProcessPayRun(ctx, suite.orgID, payRun.PayRunID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(processed.Payslips, 1)
	suite.mockPayrollRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestProcessPayRun_SkipsInvalidEmployeesAndFailsWhenNoneRemain() {
	ctx := context.Background()
	payRun := suite.draftPayRun()
	hourly := suite.hourlyEmployee("20")

	// Hourly employee without hours is skipped; with no payslips the run reverts.
	req := dto.ProcessPayRunRequest{
		Employees: []dto.PayRunEmployeeInput{{EmployeeID: hourly.EmployeeID}},
	}

	suite.mockPayrollRepo.On("FindPayRunByID", ctx, payRun.PayRunID, false).Return(payRun, nil).Once()
	suite.mockPayrollRepo.On("UpdatePayRun", ctx, mock.MatchedBy(func(pr domain.PayRun) bool {
		return pr.Status == domain.PayRunProcessing
	})).Return(nil).Once()
	suite.mockPayrollRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockPayrollRepo.On("FindEmployeeByID", ctx, hourly.EmployeeID).Return(hourly, nil).Once()
	suite.mockPayrollRepo.On("Rollback", ctx, nil).Return(nil).Once()
	suite.mockPayrollRepo.On("UpdatePayRun", ctx, mock.MatchedBy(func(pr domain.PayRun) bool {
		return pr.Status == domain.PayRunDraft
	})).Return(nil).Once()

	processed, err := suite.service.ProcessPayRun(ctx, suite.orgID, payRun.PayRunID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoValidEmployees)
	suite.Nil(processed)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestProcessPayRun_AlreadyPosted() {
	ctx := context.Background()
	payRun := suite.draftPayRun()
	txnID := uuid.NewString()
	payRun.Status = domain.PayRunCompleted
	payRun.TransactionID = &txnID

	suite.mockPayrollRepo.On("FindPayRunByID", ctx, payRun.PayRunID, false).Return(payRun, nil).Once()

	processed, err := suite.service.ProcessPayRun(ctx, suite.orgID, payRun.PayRunID, dto.ProcessPayRunRequest{
		Employees: []dto.PayRunEmployeeInput{{EmployeeID: uuid.NewString()}},
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPayRunAlreadyPosted)
	suite.Nil(processed)
}

func (suite *PayrollServiceTestSuite) TestProcessPayRun_VoidedStatusRejected() {
	ctx := context.Background()
	payRun := suite.draftPayRun()
	payRun.Status = domain.PayRunVoided

	suite.mockPayrollRepo.On("FindPayRunByID", ctx, payRun.PayRunID, false).Return(payRun, nil).Once()

	processed, err := suite.service.ProcessPayRun(ctx, suite.orgID, payRun.PayRunID, dto.ProcessPayRunRequest{
		Employees: []dto.PayRunEmployeeInput{{EmployeeID: uuid.NewString()}},
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidPayRunStatus)
	suite.Nil(processed)
}

func (suite *PayrollServiceTestSuite) TestCreatePayRun_EndBeforeStart() {
	ctx := context.Background()
	req := dto.CreatePayRunRequest{
		PayPeriodStart: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		PayPeriodEnd:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PaymentDate:    time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
	}

	created, err := suite.service.CreatePayRun(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "SavePayRun", mock.Anything, mock.Anything)
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
