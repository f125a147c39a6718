package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo   *MockReconciliationRepository
	mockLedgerRepo  *MockLedgerRepository
	mockAccountRepo *MockAccountRepository
	mockProvider    *MockBankFeedProvider
	service         portssvc.ReconciliationSvcFacade

	orgID  string
	userID string
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockProvider = new(MockBankFeedProvider)
	suite.service = services.NewReconciliationService(
		suite.mockReconRepo,
		suite.mockLedgerRepo,
		suite.mockAccountRepo,
		services.WithBankFeedProvider(suite.mockProvider),
	)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *ReconciliationServiceTestSuite) unmatchedStaged(name, amount string) domain.StagedBankTransaction {
	return domain.StagedBankTransaction{
		StagedTransactionID:  uuid.NewString(),
		OrganizationID:       suite.orgID,
		SourceTxnID:          uuid.NewString(),
		Date:                 time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Name:                 name,
		Amount:               decimal.RequireFromString(amount),
		CurrencyCode:         "USD",
		ReconciliationStatus: domain.ReconUnmatched,
		Source:               domain.SourceFeed,
	}
}

func (suite *ReconciliationServiceTestSuite) activeAccount(accountType domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Test " + string(accountType),
		AccountType:    accountType,
		IsActive:       true,
	}
}

func (suite *ReconciliationServiceTestSuite) TestSyncBankFeedItem_StagesAndAdvancesCursor() {
	ctx := context.Background()
	item := &domain.BankFeedItem{
		BankFeedItemID: uuid.NewString(),
		OrganizationID: suite.orgID,
		AccessToken:    "token",
		ItemID:         "item-1",
		SyncCursor:     "cursor-1",
	}
	fetched := []domain.StagedBankTransaction{
		{SourceTxnID: "txn-1", Name: "COFFEE SHOP", Amount: decimal.RequireFromString("-4.50")},
		{SourceTxnID: "txn-2", Name: "PAYROLL DEP", Amount: decimal.RequireFromString("1850.00")},
	}

	suite.mockReconRepo.On("FindBankFeedItemByID", ctx, item.BankFeedItemID).Return(item, nil).Once()
	suite.mockProvider.On("FetchTransactions", ctx, *item).Return(fetched, "cursor-2", nil).Once()
	suite.mockReconRepo.On("UpsertStagedTransaction", ctx, mock.MatchedBy(func(txn domain.StagedBankTransaction) bool {
		return txn.OrganizationID == suite.orgID &&
			txn.ReconciliationStatus == domain.ReconUnmatched &&
			txn.Source == domain.SourceFeed &&
			txn.BankFeedItemID != nil
	})).Return(nil).Twice()
	suite.mockReconRepo.On("UpdateBankFeedItem", ctx, mock.MatchedBy(func(updated domain.BankFeedItem) bool {
		return updated.SyncCursor == "cursor-2" && updated.LastSyncedAt != nil
	})).Return(nil).Once()

	result, err := suite.service.SyncBankFeedItem(ctx, suite.orgID, item.BankFeedItemID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, result.Staged)
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestSyncBankFeedItem_NoProviderConfigured() {
	ctx := context.Background()
	bare := services.NewReconciliationService(suite.mockReconRepo, suite.mockLedgerRepo, suite.mockAccountRepo)

	_, err := bare.SyncBankFeedItem(ctx, suite.orgID, uuid.NewString(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFeedNotConfigured)
}

func (suite *ReconciliationServiceTestSuite) TestImportBankStatementCSV_MixedRows() {
	ctx := context.Background()
	csvData := strings.Join([]string{
		"Date,Description,Amount,Currency",
		"2025-06-01,Coffee,-4.50,USD",
		"not-a-date,Broken row,10.00,USD",
		"2025-06-03,Deposit,abc,USD",
		"2025-06-04,Rent,-1500.00,",
	}, "\n")

	suite.mockReconRepo.On("UpsertStagedTransaction", ctx, mock.MatchedBy(func(txn domain.StagedBankTransaction) bool {
		return txn.Source == domain.SourceCSV &&
			txn.ReconciliationStatus == domain.ReconUnmatched &&
			txn.SourceAccountName == "Business Checking" &&
			txn.CurrencyCode != ""
	})).Return(nil).Twice()

	result, err := suite.service.ImportBankStatementCSV(ctx, suite.orgID, "Business Checking", strings.NewReader(csvData), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, result.Imported)
	suite.Equal(2, result.Failed)
	suite.Len(result.Errors, 2)
	suite.Equal(3, result.Errors[0].Line)
	suite.Equal(4, result.Errors[1].Line)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestImportBankStatementCSV_BOMHeader() {
	ctx := context.Background()
	csvData := "\ufeffDate,Description,Amount\n2025-06-01,Coffee,-4.50\n"

	suite.mockReconRepo.On("UpsertStagedTransaction", ctx, mock.MatchedBy(func(txn domain.StagedBankTransaction) bool {
		return txn.Name == "Coffee"
	})).Return(nil).Once()

	result, err := suite.service.ImportBankStatementCSV(ctx, suite.orgID, "Checking", strings.NewReader(csvData), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Imported)
	suite.Equal(0, result.Failed)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestImportBankStatementCSV_MissingAmountColumn() {
	ctx := context.Background()
	csvData := "Date,Description\n2025-06-01,Coffee\n"

	result, err := suite.service.ImportBankStatementCSV(ctx, suite.orgID, "Checking", strings.NewReader(csvData), suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
}

func (suite *ReconciliationServiceTestSuite) TestMatchStagedTransaction_Success() {
	ctx := context.Background()
	staged := suite.unmatchedStaged("Vendor payment", "-250.00")
	ledgerTxn := &domain.Transaction{TransactionID: uuid.NewString(), OrganizationID: suite.orgID}

	suite.mockReconRepo.On("FindStagedTransactionByID", ctx, staged.StagedTransactionID).Return(&staged, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionByID", ctx, ledgerTxn.TransactionID).Return(ledgerTxn, nil).Once()
	suite.mockReconRepo.On("UpdateStagedTransaction", ctx, mock.MatchedBy(func(txn domain.StagedBankTransaction) bool {
		return txn.ReconciliationStatus == domain.ReconMatched &&
			txn.LinkedTransactionID != nil && *txn.LinkedTransactionID == ledgerTxn.TransactionID
	})).Return(nil).Once()

	matched, err := suite.service.MatchStagedTransaction(ctx, suite.orgID, staged.StagedTransactionID, ledgerTxn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconMatched, matched.ReconciliationStatus)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestMatchStagedTransaction_AlreadyReconciled() {
	ctx := context.Background()
	staged := suite.unmatchedStaged("Vendor payment", "-250.00")
	staged.ReconciliationStatus = domain.ReconMatched

	suite.mockReconRepo.On("FindStagedTransactionByID", ctx, staged.StagedTransactionID).Return(&staged, nil).Once()

	matched, err := suite.service.MatchStagedTransaction(ctx, suite.orgID, staged.StagedTransactionID, uuid.NewString(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrStagedNotUnmatched)
	suite.Nil(matched)
}

func (suite *ReconciliationServiceTestSuite) TestCreateLedgerTransactionFromStaged_InflowDebitsBank() {
	ctx := context.Background()
	staged := suite.unmatchedStaged("Customer deposit", "500.00")
	bank := suite.activeAccount(domain.Asset)
	counter := suite.activeAccount(domain.Revenue)
	req := dto.CreateLedgerFromStagedRequest{BankAccountID: bank.AccountID, CounterAccountID: counter.AccountID}

	suite.mockReconRepo.On("FindStagedTransactionByID", ctx, staged.StagedTransactionID).Return(&staged, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{bank.AccountID, counter.AccountID}).
		Return(map[string]domain.Account{bank.AccountID: bank, counter.AccountID: counter}, nil).Once()
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return len(txn.Entries) == 2 &&
			txn.Entries[0].AccountID == bank.AccountID &&
			txn.Entries[0].DebitAmount.Equal(decimal.RequireFromString("500.00")) &&
			txn.Entries[1].AccountID == counter.AccountID &&
			txn.Entries[1].CreditAmount.Equal(decimal.RequireFromString("500.00"))
	})).Return(nil).Once()
	suite.mockReconRepo.On("UpdateStagedTransaction", ctx, mock.MatchedBy(func(txn domain.StagedBankTransaction) bool {
		return txn.ReconciliationStatus == domain.ReconCreatedTransaction && txn.LinkedTransactionID != nil
	})).Return(nil).Once()

	updated, err := suite.service.CreateLedgerTransactionFromStaged(ctx, suite.orgID, staged.StagedTransactionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconCreatedTransaction, updated.ReconciliationStatus)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCreateLedgerTransactionFromStaged_OutflowCreditsBank() {
	ctx := context.Background()
	staged := suite.unmatchedStaged("Office rent", "-1500.00")
	bank := suite.activeAccount(domain.Asset)
	counter := suite.activeAccount(domain.Expense)
	req := dto.CreateLedgerFromStagedRequest{BankAccountID: bank.AccountID, CounterAccountID: counter.AccountID, Description: "June rent"}

	suite.mockReconRepo.On("FindStagedTransactionByID", ctx, staged.StagedTransactionID).Return(&staged, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{bank.AccountID, counter.AccountID}).
		Return(map[string]domain.Account{bank.AccountID: bank, counter.AccountID: counter}, nil).Once()
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Description == "June rent" &&
			txn.Entries[0].AccountID == counter.AccountID &&
			txn.Entries[0].DebitAmount.Equal(decimal.RequireFromString("1500.00")) &&
			txn.Entries[1].AccountID == bank.AccountID &&
			txn.Entries[1].CreditAmount.Equal(decimal.RequireFromString("1500.00"))
	})).Return(nil).Once()
	suite.mockReconRepo.On("UpdateStagedTransaction", ctx, mock.AnythingOfType("domain.StagedBankTransaction")).Return(nil).Once()

	_, err := suite.service.CreateLedgerTransactionFromStaged(ctx, suite.orgID, staged.StagedTransactionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestRunRulesForOrganization_FirstMatchWins() {
	ctx := context.Background()
	staged := suite.unmatchedStaged("STARBUCKS #1234", "-6.75")
	first := domain.ReconciliationRule{
		RuleID:         uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Coffee shops",
		Priority:       1,
		IsActive:       true,
		Conditions:     []domain.RuleCondition{{Field: "name", Operator: domain.OpContains, Value: "starbucks"}},
		Actions:        []domain.RuleAction{{Type: domain.ActionSetCategory, Value: "Meals & Entertainment"}},
	}
	second := domain.ReconciliationRule{
		RuleID:         uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Everything else",
		Priority:       2,
		IsActive:       true,
		Conditions:     []domain.RuleCondition{{Field: "amount", Operator: domain.OpLessThan, Value: "0"}},
		Actions:        []domain.RuleAction{{Type: domain.ActionSetCategory, Value: "Uncategorized"}},
	}

	suite.mockReconRepo.On("ListActiveRules", ctx, suite.orgID).Return([]domain.ReconciliationRule{first, second}, nil).Once()
	suite.mockReconRepo.On("ListUnmatchedTransactions", ctx, suite.orgID, 100).Return([]domain.StagedBankTransaction{staged}, nil).Once()
	suite.mockReconRepo.On("UpdateStagedTransaction", ctx, mock.MatchedBy(func(txn domain.StagedBankTransaction) bool {
		return txn.ReconciliationStatus == domain.ReconRuleApplied &&
			txn.SourceCategory == "Meals & Entertainment" &&
			txn.AppliedRuleID != nil && *txn.AppliedRuleID == first.RuleID
	})).Return(nil).Once()

	result, err := suite.service.RunRulesForOrganization(ctx, suite.orgID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Evaluated)
	suite.Equal(1, result.Applied)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestRunRulesForOrganization_NoMatchLeavesUnmatched() {
	ctx := context.Background()
	staged := suite.unmatchedStaged("GROCERY STORE", "-80.00")
	rule := domain.ReconciliationRule{
		RuleID:         uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Coffee shops",
		Priority:       1,
		IsActive:       true,
		Conditions:     []domain.RuleCondition{{Field: "name", Operator: domain.OpContains, Value: "starbucks"}},
		Actions:        []domain.RuleAction{{Type: domain.ActionSetCategory, Value: "Meals & Entertainment"}},
	}

	suite.mockReconRepo.On("ListActiveRules", ctx, suite.orgID).Return([]domain.ReconciliationRule{rule}, nil).Once()
	suite.mockReconRepo.On("ListUnmatchedTransactions", ctx, suite.orgID, 100).Return([]domain.StagedBankTransaction{staged}, nil).Once()

	result, err := suite.service.RunRulesForOrganization(ctx, suite.orgID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Evaluated)
	suite.Equal(0, result.Applied)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "UpdateStagedTransaction", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCreateRule_UnknownOperatorRejected() {
	ctx := context.Background()
	req := dto.SaveRuleRequest{
		Name:       "Bad rule",
		Conditions: []dto.RuleConditionRequest{{Field: "name", Operator: "matches_regex", Value: ".*"}},
		Actions:    []dto.RuleActionRequest{{Type: "set_category", Value: "Misc"}},
	}

	rule, err := suite.service.CreateRule(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(rule)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCreateRule_AssignAccountRequiresAccount() {
	ctx := context.Background()
	req := dto.SaveRuleRequest{
		Name:       "Assign without account",
		Conditions: []dto.RuleConditionRequest{{Field: "name", Operator: "contains", Value: "rent"}},
		Actions:    []dto.RuleActionRequest{{Type: "assign_account"}},
	}

	rule, err := suite.service.CreateRule(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(rule)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

func TestEvaluateCondition(t *testing.T) {
	amount := decimal.RequireFromString("-42.50")

	tests := []struct {
		name      string
		stringVal string
		numeric   *decimal.Decimal
		operator  domain.RuleOperator
		ruleVal   string
		want      bool
	}{
		{"contains is case-insensitive", "STARBUCKS #1234", nil, domain.OpContains, "starbucks", true},
		{"contains miss", "GROCERY", nil, domain.OpContains, "starbucks", false},
		{"does_not_contain", "GROCERY", nil, domain.OpDoesNotContain, "starbucks", true},
		{"string equals", "USD", nil, domain.OpEquals, "USD", true},
		{"string equals is case-sensitive", "USD", nil, domain.OpEquals, "usd", false},
		{"string not_equals", "USD", nil, domain.OpNotEquals, "EUR", true},
		{"numeric equals", "-42.50", &amount, domain.OpEquals, "-42.5", true},
		{"numeric not_equals", "-42.50", &amount, domain.OpNotEquals, "-42.5", false},
		{"numeric greater_than", "-42.50", &amount, domain.OpGreaterThan, "-100", true},
		{"numeric less_than", "-42.50", &amount, domain.OpLessThan, "0", true},
		{"ordering on non-numeric is false", "STARBUCKS", nil, domain.OpGreaterThan, "10", false},
		{"unknown operator is false", "anything", nil, domain.RuleOperator("regex"), ".*", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.EvaluateCondition(tt.stringVal, tt.numeric, tt.operator, tt.ruleVal)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckRuleConditions(t *testing.T) {
	txn := &domain.StagedBankTransaction{
		Name:         "STARBUCKS #1234",
		MerchantName: "Starbucks",
		Amount:       decimal.RequireFromString("-6.75"),
		CurrencyCode: "USD",
		Date:         time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}

	t.Run("all conditions must hold", func(t *testing.T) {
		rule := &domain.ReconciliationRule{Conditions: []domain.RuleCondition{
			{Field: "name", Operator: domain.OpContains, Value: "starbucks"},
			{Field: "amount", Operator: domain.OpLessThan, Value: "0"},
		}}
		assert.True(t, services.CheckRuleConditions(txn, rule))
	})

	t.Run("one failing condition fails the rule", func(t *testing.T) {
		rule := &domain.ReconciliationRule{Conditions: []domain.RuleCondition{
			{Field: "name", Operator: domain.OpContains, Value: "starbucks"},
			{Field: "currency_code", Operator: domain.OpEquals, Value: "EUR"},
		}}
		assert.False(t, services.CheckRuleConditions(txn, rule))
	})

	t.Run("unknown field fails the rule", func(t *testing.T) {
		rule := &domain.ReconciliationRule{Conditions: []domain.RuleCondition{
			{Field: "account_number", Operator: domain.OpEquals, Value: "123"},
		}}
		assert.False(t, services.CheckRuleConditions(txn, rule))
	})

	t.Run("no conditions never matches", func(t *testing.T) {
		rule := &domain.ReconciliationRule{}
		assert.False(t, services.CheckRuleConditions(txn, rule))
	})
}
