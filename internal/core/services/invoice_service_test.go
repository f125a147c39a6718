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

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockLedgerRepo  *MockLedgerRepository
	mockOrgReader   *MockOrganizationReader
	mockResolver    *MockAccountResolver
	mockEmailSender *MockEmailSender
	service         portssvc.InvoiceSvcFacade

	orgID  string
	userID string
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockOrgReader = new(MockOrganizationReader)
	suite.mockResolver = new(MockAccountResolver)
	suite.mockEmailSender = new(MockEmailSender)
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockLedgerRepo,
		suite.mockOrgReader,
		suite.mockResolver,
		services.WithEmailSender(suite.mockEmailSender),
	)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *InvoiceServiceTestSuite) customer() *domain.Customer {
	return &domain.Customer{
		CustomerID:     uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Globex",
		Email:          "billing@globex.example",
	}
}

func (suite *InvoiceServiceTestSuite) draftInvoice() *domain.Invoice {
	inv := &domain.Invoice{
		InvoiceID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		CustomerID:     uuid.NewString(),
		CustomerName:   "Globex",
		InvoiceNumber:  "INV-1001",
		IssueDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Status:         domain.InvoiceDraft,
		Items: []domain.InvoiceItem{
			{
				InvoiceItemID: uuid.NewString(),
				Description:   "Consulting",
				Quantity:      decimal.RequireFromString("10"),
				UnitPrice:     decimal.RequireFromString("100.00"),
				Amount:        decimal.RequireFromString("1000.00"),
				TaxAmount:     decimal.RequireFromString("80.00"),
			},
		},
	}
	inv.CalculateTotals()
	return inv
}

func (suite *InvoiceServiceTestSuite) resolverAccount(accountType domain.AccountType, name string) *domain.Account {
	return &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           name,
		AccountType:    accountType,
		IsActive:       true,
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DraftComputesTotals() {
	ctx := context.Background()
	customer := suite.customer()
	req := dto.CreateInvoiceRequest{
		CustomerID:    customer.CustomerID,
		InvoiceNumber: "INV-2001",
		IssueDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Items: []dto.InvoiceItemRequest{
			{Description: "Widgets", Quantity: decimal.RequireFromString("3"), UnitPrice: decimal.RequireFromString("19.99"), TaxAmount: decimal.RequireFromString("4.80")},
			{Description: "Shipping", Quantity: decimal.RequireFromString("1"), UnitPrice: decimal.RequireFromString("10.00")},
		},
	}

	suite.mockInvoiceRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(domain.InvoiceDraft, created.Status)
	suite.Equal(customer.Name, created.CustomerName)
	suite.True(created.Subtotal.Equal(decimal.RequireFromString("69.97")), "subtotal %s", created.Subtotal)
	suite.True(created.TotalTax.Equal(decimal.RequireFromString("4.80")), "tax %s", created.TotalTax)
	suite.True(created.TotalAmount.Equal(decimal.RequireFromString("74.77")), "total %s", created.TotalAmount)
	suite.Nil(created.TransactionID)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_AsSentSavesAndPostsTogether() {
	ctx := context.Background()
	customer := suite.customer()
	ar := suite.resolverAccount(domain.Asset, "Accounts Receivable (Default)")
	sales := suite.resolverAccount(domain.Revenue, "Sales Revenue (Default)")
	req := dto.CreateInvoiceRequest{
		CustomerID:    customer.CustomerID,
		InvoiceNumber: "INV-2002",
		IssueDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.InvoiceSent,
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.RequireFromString("10"), UnitPrice: decimal.RequireFromString("100.00")},
		},
	}

	suite.mockInvoiceRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()
	suite.mockResolver.On("ResolveOrCreateDefault", ctx, suite.orgID, domain.Asset,
		"Accounts Receivable", "Accounts Receivable (Default)", "accounts receivable", suite.userID).Return(ar, nil).Once()
	suite.mockResolver.On("ResolveOrCreateDefault", ctx, suite.orgID, domain.Revenue,
		"Sales Revenue", "Sales Revenue (Default)", "sales revenue", suite.userID).Return(sales, nil).Once()
	suite.mockInvoiceRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceInTx", ctx, nil, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoiceSent && inv.TransactionID != nil
	})).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveTransactionInTx", ctx, nil, mock.MatchedBy(func(txn domain.Transaction) bool {
		return len(txn.Entries) == 2 && txn.TotalDebits().Equal(decimal.RequireFromString("1000.00"))
	})).Return(nil).Once()
	suite.mockInvoiceRepo.On("Commit", ctx, nil).Return(nil).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, created.Status)
	suite.Require().NotNil(created.TransactionID)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_AsSentPostingFailureSavesNothing() {
	ctx := context.Background()
	customer := suite.customer()
	req := dto.CreateInvoiceRequest{
		CustomerID:    customer.CustomerID,
		InvoiceNumber: "INV-2003",
		IssueDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.InvoiceSent,
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.RequireFromString("10"), UnitPrice: decimal.RequireFromString("100.00")},
		},
	}

	suite.mockInvoiceRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()
	suite.mockResolver.On("ResolveOrCreateDefault", ctx, suite.orgID, domain.Asset,
		"Accounts Receivable", "Accounts Receivable (Default)", "accounts receivable", suite.userID).
		Return(nil, apperrors.ErrInternal).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_DraftToSentPostsToLedger() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	ar := suite.resolverAccount(domain.Asset, "Accounts Receivable (Default)")
	sales := suite.resolverAccount(domain.Revenue, "Sales Revenue (Default)")
	tax := suite.resolverAccount(domain.Liability, "Sales Tax Payable (Default)")

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockResolver.On("ResolveOrCreateDefault", ctx, suite.orgID, domain.Asset,
		"Accounts Receivable", "Accounts Receivable (Default)", "accounts receivable", suite.userID).Return(ar, nil).Once()
	suite.mockResolver.On("ResolveOrCreateDefault", ctx, suite.orgID, domain.Revenue,
		"Sales Revenue", "Sales Revenue (Default)", "sales revenue", suite.userID).Return(sales, nil).Once()
	suite.mockResolver.On("ResolveOrCreateDefault", ctx, suite.orgID, domain.Liability,
		"Sales Tax Payable", "Sales Tax Payable (Default)", "sales tax payable", suite.userID).Return(tax, nil).Once()
	suite.mockInvoiceRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockLedgerRepo.On("SaveTransactionInTx", ctx, nil, mock.MatchedBy(func(txn domain.Transaction) bool {
		if len(txn.Entries) != 3 || !txn.TotalDebits().Equal(txn.TotalCredits()) {
			return false
		}
		// A/R debit for the total, revenue credit for the subtotal, tax credit for the tax.
		return txn.Entries[0].AccountID == ar.AccountID &&
			txn.Entries[0].DebitAmount.Equal(decimal.RequireFromString("1080.00")) &&
			txn.Entries[1].AccountID == sales.AccountID &&
			txn.Entries[1].CreditAmount.Equal(decimal.RequireFromString("1000.00")) &&
			txn.Entries[2].AccountID == tax.AccountID &&
			txn.Entries[2].CreditAmount.Equal(decimal.RequireFromString("80.00"))
	})).Return(nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceInTx", ctx, nil, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoiceSent && inv.TransactionID != nil
	})).Return(nil).Once()
	suite.mockInvoiceRepo.On("Commit", ctx, nil).Return(nil).Once()

	updated, err := suite.service.UpdateInvoiceStatus(ctx, suite.orgID, invoice.InvoiceID, domain.InvoiceSent, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, updated.Status)
	suite.Require().NotNil(updated.TransactionID)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_InvalidTransition() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	invoice.Status = domain.InvoicePaid

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	updated, err := suite.service.UpdateInvoiceStatus(ctx, suite.orgID, invoice.InvoiceID, domain.InvoiceSent, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidStatusTransition)
	suite.Nil(updated)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_SentToPaidDoesNotRepost() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	txnID := uuid.NewString()
	invoice.Status = domain.InvoiceSent
	invoice.TransactionID = &txnID

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("ReplaceInvoice", ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoicePaid && inv.TransactionID != nil && *inv.TransactionID == txnID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateInvoiceStatus(ctx, suite.orgID, invoice.InvoiceID, domain.InvoicePaid, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, updated.Status)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockResolver.AssertNotCalled(suite.T(), "ResolveOrCreateDefault",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_NonDraftRejected() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	invoice.Status = domain.InvoiceSent

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	updated, err := suite.service.UpdateInvoice(ctx, suite.orgID, invoice.InvoiceID, dto.UpdateInvoiceRequest{
		CustomerID:    invoice.CustomerID,
		InvoiceNumber: invoice.InvoiceNumber,
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvoiceNotDraft)
	suite.Nil(updated)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "ReplaceInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_WrongOrgCustomer() {
	ctx := context.Background()
	customer := suite.customer()
	customer.OrganizationID = uuid.NewString()

	suite.mockInvoiceRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.orgID, dto.CreateInvoiceRequest{
		CustomerID:    customer.CustomerID,
		InvoiceNumber: "INV-3001",
		IssueDate:     time.Now().UTC(),
		DueDate:       time.Now().UTC(),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(created)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_CustomerMissingEmail() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	customer := suite.customer()
	customer.CustomerID = invoice.CustomerID
	customer.Email = ""

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindCustomerByID", ctx, invoice.CustomerID).Return(customer, nil).Once()

	sent, err := suite.service.SendInvoice(ctx, suite.orgID, invoice.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCustomerMissingEmail)
	suite.Nil(sent)
	suite.mockEmailSender.AssertNotCalled(suite.T(), "SendEmail",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_PaidNotSendable() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	invoice.Status = domain.InvoicePaid

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	sent, err := suite.service.SendInvoice(ctx, suite.orgID, invoice.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvoiceNotSendable)
	suite.Nil(sent)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_SentInvoiceEmailsWithoutReposting() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	txnID := uuid.NewString()
	invoice.Status = domain.InvoiceSent
	invoice.TransactionID = &txnID
	customer := suite.customer()
	customer.CustomerID = invoice.CustomerID
	org := &domain.Organization{OrganizationID: suite.orgID, Name: "Acme Corp", IsActive: true}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindCustomerByID", ctx, invoice.CustomerID).Return(customer, nil).Once()
	suite.mockOrgReader.On("FindOrganizationByID", ctx, suite.orgID).Return(org, nil).Once()
	suite.mockEmailSender.On("SendEmail", ctx, customer.Email,
		mock.AnythingOfType("string"), mock.AnythingOfType("string"),
		"invoice-INV-1001.pdf", mock.AnythingOfType("[]uint8")).Return(nil).Once()

	sent, err := suite.service.SendInvoice(ctx, suite.orgID, invoice.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, sent.Status)
	suite.mockEmailSender.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
