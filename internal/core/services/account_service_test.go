package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockAccountRepository
	mockOrgReader *MockOrganizationReader
	service       portssvc.AccountSvcFacade

	orgID  string
	userID string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockOrgReader = new(MockOrganizationReader)
	suite.service = services.NewAccountService(suite.mockRepo, services.WithOrganizationReader(suite.mockOrgReader))
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Office Supplies",
		AccountType: domain.Expense,
		Description: "Pens, paper, toner",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(suite.orgID, created.OrganizationID)
	suite.Equal(req.Name, created.Name)
	suite.Equal(req.AccountType, created.AccountType)
	suite.True(created.IsActive)
	suite.Equal(suite.userID, created.CreatedBy)
	suite.Equal(suite.userID, created.LastUpdatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Duplicate() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(fmt.Errorf("unique violation: %w", apperrors.ErrDuplicate)).Once()

	created, err := suite.service.CreateAccount(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDuplicateAccount)
	suite.Nil(created)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_WrongOrganization() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: uuid.NewString(),
		Name:           "Someone else's cash",
		AccountType:    domain.Asset,
		IsActive:       true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	got, err := suite.service.GetAccountByID(ctx, suite.orgID, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(got)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RejectsDeactivationViaUpdate() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Cash",
		AccountType:    domain.Asset,
		IsActive:       true,
	}
	inactive := false
	req := dto.UpdateAccountRequest{IsActive: &inactive}

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.orgID, account.AccountID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(updated)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Old Equipment",
		AccountType:    domain.Asset,
		IsActive:       true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("HasJournalEntries", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, account.AccountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.orgID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Referenced() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Cash",
		AccountType:    domain.Asset,
		IsActive:       true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("HasJournalEntries", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.orgID, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountReferenced)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestResolveOrCreateDefault_ExactNameHit() {
	ctx := context.Background()
	existing := &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Accounts Receivable (Default)",
		AccountType:    domain.Asset,
		IsActive:       true,
	}

	suite.mockRepo.On("FindAccountByExactName", ctx, suite.orgID, domain.Asset, "Accounts Receivable (Default)").
		Return(existing, nil).Once()

	resolved, err := suite.service.ResolveOrCreateDefault(ctx, suite.orgID, domain.Asset,
		"accounts receivable", "Accounts Receivable (Default)", "accounts receivable", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing.AccountID, resolved.AccountID)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountsByNameSubstring", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestResolveOrCreateDefault_SingleSubstringMatch() {
	ctx := context.Background()
	match := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "AR - Trade Receivables",
		AccountType:    domain.Asset,
		IsActive:       true,
	}

	suite.mockRepo.On("FindAccountByExactName", ctx, suite.orgID, domain.Asset, "Accounts Receivable (Default)").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountsByNameSubstring", ctx, suite.orgID, domain.Asset, "receivable").
		Return([]domain.Account{match}, nil).Once()

	resolved, err := suite.service.ResolveOrCreateDefault(ctx, suite.orgID, domain.Asset,
		"receivable", "Accounts Receivable (Default)", "accounts receivable", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(match.AccountID, resolved.AccountID)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestResolveOrCreateDefault_MultipleMatchesUsesEarliest() {
	ctx := context.Background()
	earliest := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Sales Revenue",
		AccountType:    domain.Revenue,
		IsActive:       true,
	}
	later := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Online Sales Revenue",
		AccountType:    domain.Revenue,
		IsActive:       true,
	}

	suite.mockRepo.On("FindAccountByExactName", ctx, suite.orgID, domain.Revenue, "Sales Revenue (Default)").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountsByNameSubstring", ctx, suite.orgID, domain.Revenue, "sales revenue").
		Return([]domain.Account{earliest, later}, nil).Once()

	resolved, err := suite.service.ResolveOrCreateDefault(ctx, suite.orgID, domain.Revenue,
		"sales revenue", "Sales Revenue (Default)", "sales revenue", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(earliest.AccountID, resolved.AccountID)
}

func (suite *AccountServiceTestSuite) TestResolveOrCreateDefault_AutoCreates() {
	ctx := context.Background()
	org := &domain.Organization{OrganizationID: suite.orgID, Name: "Acme Corp"}

	suite.mockRepo.On("FindAccountByExactName", ctx, suite.orgID, domain.Liability, "Sales Tax Payable (Default)").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountsByNameSubstring", ctx, suite.orgID, domain.Liability, "sales tax").
		Return([]domain.Account{}, nil).Once()
	suite.mockOrgReader.On("FindOrganizationByID", ctx, suite.orgID).Return(org, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Sales Tax Payable (Default)" && a.AccountType == domain.Liability && a.IsActive
	})).Return(nil).Once()

	resolved, err := suite.service.ResolveOrCreateDefault(ctx, suite.orgID, domain.Liability,
		"sales tax", "Sales Tax Payable (Default)", "sales tax payable", suite.userID)

	suite.Require().NoError(err)
	suite.Equal("Sales Tax Payable (Default)", resolved.Name)
	suite.Contains(resolved.Description, "Acme Corp")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestResolveOrCreateDefault_RecoversFromCreateRace() {
	ctx := context.Background()
	winner := &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Wages Payable (Default)",
		AccountType:    domain.Liability,
		IsActive:       true,
	}

	suite.mockRepo.On("FindAccountByExactName", ctx, suite.orgID, domain.Liability, "Wages Payable (Default)").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountsByNameSubstring", ctx, suite.orgID, domain.Liability, "wages payable").
		Return([]domain.Account{}, nil).Once()
	suite.mockOrgReader.On("FindOrganizationByID", ctx, suite.orgID).
		Return(&domain.Organization{OrganizationID: suite.orgID, Name: "Acme Corp"}, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(fmt.Errorf("unique violation: %w", apperrors.ErrDuplicate)).Once()
	// Second exact-name lookup fetches the concurrently created winner.
	suite.mockRepo.On("FindAccountByExactName", ctx, suite.orgID, domain.Liability, "Wages Payable (Default)").
		Return(winner, nil).Once()

	resolved, err := suite.service.ResolveOrCreateDefault(ctx, suite.orgID, domain.Liability,
		"wages payable", "Wages Payable (Default)", "wages payable", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(winner.AccountID, resolved.AccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
