package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByExactName(ctx context.Context, organizationID string, accountType domain.AccountType, name string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountType, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByNameSubstring(ctx context.Context, organizationID string, accountType domain.AccountType, substring string) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, accountType, substring)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) HasJournalEntries(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryWithTx interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, organizationID string, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, organizationID, accountID, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) ReplaceTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error {
	args := m.Called(ctx, tx, transactionID)
	return args.Error(0)
}

func (m *MockLedgerRepository) SumEntriesByAccount(ctx context.Context, organizationID string, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedgerRepository) SumEntriesByAccountForPeriod(ctx context.Context, organizationID string, accountID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, accountID, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedgerRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockLedgerRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockOrganizationReader is a mock type for the OrganizationReader interface
type MockOrganizationReader struct {
	mock.Mock
}

func (m *MockOrganizationReader) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationReader) ListOrganizationsByUser(ctx context.Context, userID string) ([]domain.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

// MockInvoiceRepository is a mock type for the InvoiceRepositoryWithTx interface
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockInvoiceRepository) ListCustomers(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Customer, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockInvoiceRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, organizationID string, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error) {
	args := m.Called(ctx, organizationID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	args := m.Called(ctx, tx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ReplaceInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	args := m.Called(ctx, tx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockInvoiceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockPayrollRepository is a mock type for the PayrollRepositoryWithTx interface
type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockPayrollRepository) ListEmployees(ctx context.Context, organizationID string, activeOnly bool, limit int, offset int) ([]domain.Employee, error) {
	args := m.Called(ctx, organizationID, activeOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *MockPayrollRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockPayrollRepository) UpdateEmployee(ctx context.Context, employee domain.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindDeductionTypeByID(ctx context.Context, deductionTypeID string) (*domain.DeductionType, error) {
	args := m.Called(ctx, deductionTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeductionType), args.Error(1)
}

func (m *MockPayrollRepository) FindDeductionTypesByIDs(ctx context.Context, deductionTypeIDs []string) (map[string]domain.DeductionType, error) {
	args := m.Called(ctx, deductionTypeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.DeductionType), args.Error(1)
}

func (m *MockPayrollRepository) ListDeductionTypes(ctx context.Context, organizationID string) ([]domain.DeductionType, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeductionType), args.Error(1)
}

func (m *MockPayrollRepository) SaveDeductionType(ctx context.Context, dt domain.DeductionType) error {
	args := m.Called(ctx, dt)
	return args.Error(0)
}

func (m *MockPayrollRepository) UpdateDeductionType(ctx context.Context, dt domain.DeductionType) error {
	args := m.Called(ctx, dt)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindPayRunByID(ctx context.Context, payRunID string, withPayslips bool) (*domain.PayRun, error) {
	args := m.Called(ctx, payRunID, withPayslips)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayRun), args.Error(1)
}

func (m *MockPayrollRepository) ListPayRuns(ctx context.Context, organizationID string, limit int, offset int) ([]domain.PayRun, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayRun), args.Error(1)
}

func (m *MockPayrollRepository) ListPayslipsByPayRun(ctx context.Context, payRunID string) ([]domain.Payslip, error) {
	args := m.Called(ctx, payRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payslip), args.Error(1)
}

func (m *MockPayrollRepository) SavePayRun(ctx context.Context, payRun domain.PayRun) error {
	args := m.Called(ctx, payRun)
	return args.Error(0)
}

func (m *MockPayrollRepository) UpdatePayRun(ctx context.Context, payRun domain.PayRun) error {
	args := m.Called(ctx, payRun)
	return args.Error(0)
}

func (m *MockPayrollRepository) UpdatePayRunInTx(ctx context.Context, tx pgx.Tx, payRun domain.PayRun) error {
	args := m.Called(ctx, tx, payRun)
	return args.Error(0)
}

func (m *MockPayrollRepository) SavePayslipInTx(ctx context.Context, tx pgx.Tx, payslip domain.Payslip) error {
	args := m.Called(ctx, tx, payslip)
	return args.Error(0)
}

func (m *MockPayrollRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockPayrollRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPayrollRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockReconciliationRepository is a mock type for the ReconciliationRepositoryFacade interface
type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) FindBankFeedItemByID(ctx context.Context, bankFeedItemID string) (*domain.BankFeedItem, error) {
	args := m.Called(ctx, bankFeedItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankFeedItem), args.Error(1)
}

func (m *MockReconciliationRepository) ListBankFeedItems(ctx context.Context, organizationID string) ([]domain.BankFeedItem, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankFeedItem), args.Error(1)
}

func (m *MockReconciliationRepository) SaveBankFeedItem(ctx context.Context, item domain.BankFeedItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockReconciliationRepository) UpdateBankFeedItem(ctx context.Context, item domain.BankFeedItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindStagedTransactionByID(ctx context.Context, stagedTransactionID string) (*domain.StagedBankTransaction, error) {
	args := m.Called(ctx, stagedTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StagedBankTransaction), args.Error(1)
}

func (m *MockReconciliationRepository) ListStagedTransactions(ctx context.Context, organizationID string, status *domain.ReconciliationStatus, limit int, offset int) ([]domain.StagedBankTransaction, error) {
	args := m.Called(ctx, organizationID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StagedBankTransaction), args.Error(1)
}

func (m *MockReconciliationRepository) ListUnmatchedTransactions(ctx context.Context, organizationID string, limit int) ([]domain.StagedBankTransaction, error) {
	args := m.Called(ctx, organizationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StagedBankTransaction), args.Error(1)
}

func (m *MockReconciliationRepository) UpsertStagedTransaction(ctx context.Context, txn domain.StagedBankTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockReconciliationRepository) UpdateStagedTransaction(ctx context.Context, txn domain.StagedBankTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ReconciliationRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationRule), args.Error(1)
}

func (m *MockReconciliationRepository) ListActiveRules(ctx context.Context, organizationID string) ([]domain.ReconciliationRule, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationRule), args.Error(1)
}

func (m *MockReconciliationRepository) ListRules(ctx context.Context, organizationID string) ([]domain.ReconciliationRule, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationRule), args.Error(1)
}

func (m *MockReconciliationRepository) SaveRule(ctx context.Context, rule domain.ReconciliationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockReconciliationRepository) UpdateRule(ctx context.Context, rule domain.ReconciliationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockReconciliationRepository) DeleteRule(ctx context.Context, ruleID string) error {
	args := m.Called(ctx, ruleID)
	return args.Error(0)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetProfitAndLossData(ctx context.Context, organizationID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, organizationID, from, to)
	var revenue, expenses []domain.AccountAmount
	if args.Get(0) != nil {
		revenue = args.Get(0).([]domain.AccountAmount)
	}
	if args.Get(1) != nil {
		expenses = args.Get(1).([]domain.AccountAmount)
	}
	return revenue, expenses, args.Error(2)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, organizationID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, organizationID, asOf)
	var assets, liabilities, equity []domain.AccountAmount
	if args.Get(0) != nil {
		assets = args.Get(0).([]domain.AccountAmount)
	}
	if args.Get(1) != nil {
		liabilities = args.Get(1).([]domain.AccountAmount)
	}
	if args.Get(2) != nil {
		equity = args.Get(2).([]domain.AccountAmount)
	}
	return assets, liabilities, equity, args.Error(3)
}

func (m *MockReportingRepository) GetNetIncome(ctx context.Context, organizationID string, from, to time.Time) (domain.AccountAmount, error) {
	args := m.Called(ctx, organizationID, from, to)
	return args.Get(0).(domain.AccountAmount), args.Error(1)
}

// MockAccountResolver is a mock type for the AccountResolverSvc interface
type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) ResolveOrCreateDefault(ctx context.Context, organizationID string, accountType domain.AccountType, nameSubstring string, defaultName string, descriptionSuffix string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountType, nameSubstring, defaultName, descriptionSuffix, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// MockEmailSender is a mock type for the EmailSender interface
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, to string, subject string, body string, attachmentName string, attachment []byte) error {
	args := m.Called(ctx, to, subject, body, attachmentName, attachment)
	return args.Error(0)
}

// MockBankFeedProvider is a mock type for the BankFeedProvider interface
type MockBankFeedProvider struct {
	mock.Mock
}

func (m *MockBankFeedProvider) FetchTransactions(ctx context.Context, item domain.BankFeedItem) ([]domain.StagedBankTransaction, string, error) {
	args := m.Called(ctx, item)
	var staged []domain.StagedBankTransaction
	if args.Get(0) != nil {
		staged = args.Get(0).([]domain.StagedBankTransaction)
	}
	return staged, args.String(1), args.Error(2)
}
