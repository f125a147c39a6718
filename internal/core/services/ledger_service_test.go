package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.LedgerSvcFacade

	orgID  string
	userID string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockAccountRepo)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *LedgerServiceTestSuite) activeAccount(accountType domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Test " + string(accountType),
		AccountType:    accountType,
		IsActive:       true,
	}
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	cash := suite.activeAccount(domain.Asset)
	sales := suite.activeAccount(domain.Revenue)

	req := dto.CreateTransactionRequest{
		Date:        time.Now().UTC(),
		Description: "Cash sale",
		Entries: []dto.JournalLineRequest{
			{AccountID: cash.AccountID, DebitAmount: decimal.RequireFromString("100.00")},
			{AccountID: sales.AccountID, CreditAmount: decimal.RequireFromString("100.00")},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{cash.AccountID: cash, sales.AccountID: sales}, nil).Once()
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.PostTransaction(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(suite.orgID, txn.OrganizationID)
	suite.Len(txn.Entries, 2)
	suite.True(txn.IsBalanced())
	suite.Equal(suite.userID, txn.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_Unbalanced() {
	ctx := context.Background()
	cash := suite.activeAccount(domain.Asset)
	sales := suite.activeAccount(domain.Revenue)

	req := dto.CreateTransactionRequest{
		Date:        time.Now().UTC(),
		Description: "Does not balance",
		Entries: []dto.JournalLineRequest{
			{AccountID: cash.AccountID, DebitAmount: decimal.RequireFromString("100.00")},
			{AccountID: sales.AccountID, CreditAmount: decimal.RequireFromString("90.00")},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{cash.AccountID: cash, sales.AccountID: sales}, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnbalancedTransaction)
	suite.Nil(txn)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_WithinTolerance() {
	ctx := context.Background()
	expense := suite.activeAccount(domain.Expense)
	payable := suite.activeAccount(domain.Liability)

	// 0.005 off is still accepted; it absorbs upstream rounding.
	req := dto.CreateTransactionRequest{
		Date:        time.Now().UTC(),
		Description: "Rounding residue",
		Entries: []dto.JournalLineRequest{
			{AccountID: expense.AccountID, DebitAmount: decimal.RequireFromString("2000.005")},
			{AccountID: payable.AccountID, CreditAmount: decimal.RequireFromString("2000.00")},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{expense.AccountID: expense, payable.AccountID: payable}, nil).Once()
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.PostTransaction(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.True(txn.Entries[0].DebitAmount.Equal(decimal.RequireFromString("2000.005")), "amounts are stored as submitted")
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_TooFewLines() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		Date:        time.Now().UTC(),
		Description: "Single-sided",
		Entries: []dto.JournalLineRequest{
			{AccountID: uuid.NewString(), DebitAmount: decimal.RequireFromString("50.00")},
		},
	}

	txn, err := suite.service.PostTransaction(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidJournalLine)
	suite.Nil(txn)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_BothSidesSet() {
	ctx := context.Background()
	cash := suite.activeAccount(domain.Asset)
	sales := suite.activeAccount(domain.Revenue)

	req := dto.CreateTransactionRequest{
		Date:        time.Now().UTC(),
		Description: "Both sides on one line",
		Entries: []dto.JournalLineRequest{
			{AccountID: cash.AccountID, DebitAmount: decimal.RequireFromString("10.00"), CreditAmount: decimal.RequireFromString("10.00")},
			{AccountID: sales.AccountID, CreditAmount: decimal.RequireFromString("10.00")},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{cash.AccountID: cash, sales.AccountID: sales}, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidJournalLine)
	suite.ErrorIs(err, domain.ErrBothSidesSet)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_InactiveAccount() {
	ctx := context.Background()
	cash := suite.activeAccount(domain.Asset)
	closed := suite.activeAccount(domain.Revenue)
	closed.IsActive = false

	req := dto.CreateTransactionRequest{
		Date:        time.Now().UTC(),
		Description: "Posting to a closed account",
		Entries: []dto.JournalLineRequest{
			{AccountID: cash.AccountID, DebitAmount: decimal.RequireFromString("25.00")},
			{AccountID: closed.AccountID, CreditAmount: decimal.RequireFromString("25.00")},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{cash.AccountID: cash, closed.AccountID: closed}, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInactiveAccount)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_CrossOrganizationAccount() {
	ctx := context.Background()
	cash := suite.activeAccount(domain.Asset)
	foreign := suite.activeAccount(domain.Revenue)
	foreign.OrganizationID = uuid.NewString()

	req := dto.CreateTransactionRequest{
		Date:        time.Now().UTC(),
		Description: "Account from another organization",
		Entries: []dto.JournalLineRequest{
			{AccountID: cash.AccountID, DebitAmount: decimal.RequireFromString("25.00")},
			{AccountID: foreign.AccountID, CreditAmount: decimal.RequireFromString("25.00")},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{cash.AccountID: cash, foreign.AccountID: foreign}, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCrossOrganizationRef)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_AccountNotFound() {
	ctx := context.Background()
	cash := suite.activeAccount(domain.Asset)
	missingID := uuid.NewString()

	req := dto.CreateTransactionRequest{
		Date:        time.Now().UTC(),
		Description: "Unknown account",
		Entries: []dto.JournalLineRequest{
			{AccountID: cash.AccountID, DebitAmount: decimal.RequireFromString("25.00")},
			{AccountID: missingID, CreditAmount: decimal.RequireFromString("25.00")},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{cash.AccountID: cash}, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotFound)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestGetBalance_DebitNormalAccount() {
	ctx := context.Background()
	cash := suite.activeAccount(domain.Asset)

	suite.mockAccountRepo.On("FindAccountByID", ctx, cash.AccountID).Return(&cash, nil).Once()
	suite.mockLedgerRepo.On("SumEntriesByAccount", ctx, suite.orgID, cash.AccountID, (*time.Time)(nil)).
		Return(decimal.RequireFromString("500.00"), decimal.RequireFromString("120.00"), nil).Once()

	balance, err := suite.service.GetBalance(ctx, suite.orgID, cash.AccountID, nil, suite.userID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("380.00")), "got %s", balance)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestGetBalance_CreditNormalAccount() {
	ctx := context.Background()
	revenue := suite.activeAccount(domain.Revenue)

	suite.mockAccountRepo.On("FindAccountByID", ctx, revenue.AccountID).Return(&revenue, nil).Once()
	suite.mockLedgerRepo.On("SumEntriesByAccount", ctx, suite.orgID, revenue.AccountID, (*time.Time)(nil)).
		Return(decimal.RequireFromString("30.00"), decimal.RequireFromString("430.00"), nil).Once()

	balance, err := suite.service.GetBalance(ctx, suite.orgID, revenue.AccountID, nil, suite.userID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("400.00")), "got %s", balance)
}

func (suite *LedgerServiceTestSuite) TestGetBalance_WrongOrganization() {
	ctx := context.Background()
	account := suite.activeAccount(domain.Asset)
	account.OrganizationID = uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	_, err := suite.service.GetBalance(ctx, suite.orgID, account.AccountID, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SumEntriesByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestGetPeriodActivity_MissingDateRange() {
	ctx := context.Background()

	_, err := suite.service.GetPeriodActivity(ctx, suite.orgID, uuid.NewString(), time.Time{}, time.Now(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMissingDateRange)
}

func (suite *LedgerServiceTestSuite) TestGetPeriodActivity_Success() {
	ctx := context.Background()
	expense := suite.activeAccount(domain.Expense)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountByID", ctx, expense.AccountID).Return(&expense, nil).Once()
	suite.mockLedgerRepo.On("SumEntriesByAccountForPeriod", ctx, suite.orgID, expense.AccountID, from, to).
		Return(decimal.RequireFromString("250.00"), decimal.RequireFromString("50.00"), nil).Once()

	activity, err := suite.service.GetPeriodActivity(ctx, suite.orgID, expense.AccountID, from, to, suite.userID)

	suite.Require().NoError(err)
	suite.True(activity.Equal(decimal.RequireFromString("200.00")), "got %s", activity)
}

func (suite *LedgerServiceTestSuite) TestVoidTransaction_Success() {
	ctx := context.Background()
	txnID := uuid.NewString()
	existing := &domain.Transaction{TransactionID: txnID, OrganizationID: suite.orgID}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, txnID).Return(existing, nil).Once()
	suite.mockLedgerRepo.On("DeleteTransaction", ctx, txnID).Return(nil).Once()

	err := suite.service.VoidTransaction(ctx, suite.orgID, txnID, suite.userID)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestVoidTransaction_WrongOrganization() {
	ctx := context.Background()
	txnID := uuid.NewString()
	existing := &domain.Transaction{TransactionID: txnID, OrganizationID: uuid.NewString()}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, txnID).Return(existing, nil).Once()

	err := suite.service.VoidTransaction(ctx, suite.orgID, txnID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateTransaction_PreservesIdentityAndAudit() {
	ctx := context.Background()
	cash := suite.activeAccount(domain.Asset)
	sales := suite.activeAccount(domain.Revenue)
	txnID := uuid.NewString()
	createdAt := time.Now().UTC().Add(-48 * time.Hour)
	creator := uuid.NewString()
	existing := &domain.Transaction{
		TransactionID:  txnID,
		OrganizationID: suite.orgID,
		AuditFields:    domain.AuditFields{CreatedAt: createdAt, CreatedBy: creator},
	}

	req := dto.UpdateTransactionRequest{
		Date:        time.Now().UTC(),
		Description: "Corrected amount",
		Entries: []dto.JournalLineRequest{
			{AccountID: cash.AccountID, DebitAmount: decimal.RequireFromString("75.00")},
			{AccountID: sales.AccountID, CreditAmount: decimal.RequireFromString("75.00")},
		},
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, txnID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{cash.AccountID: cash, sales.AccountID: sales}, nil).Once()
	suite.mockLedgerRepo.On("ReplaceTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	updated, err := suite.service.UpdateTransaction(ctx, suite.orgID, txnID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(txnID, updated.TransactionID)
	suite.Equal(createdAt, updated.CreatedAt)
	suite.Equal(creator, updated.CreatedBy)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
	for _, e := range updated.Entries {
		suite.Equal(txnID, e.TransactionID)
	}
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
