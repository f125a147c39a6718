package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankFeedItem is the link record for one connected bank feed (one
// institution login). AccessToken is the provider credential and is never
// serialized to clients.
type BankFeedItem struct {
	BankFeedItemID  string     `json:"bankFeedItemID"` // Primary Key (UUID)
	OrganizationID  string     `json:"organizationID"` // FK -> organizations (NON-NULL)
	AccessToken     string     `json:"-"`              // Provider credential
	ItemID          string     `json:"itemID"`         // Provider-side item identifier
	InstitutionID   string     `json:"institutionID"`
	InstitutionName string     `json:"institutionName"`
	LastSyncedAt    *time.Time `json:"lastSyncedAt,omitempty"`
	SyncCursor      string     `json:"-"` // Incremental sync position
	AuditFields
}

// StagedSource identifies where a staged bank transaction came from.
type StagedSource string

const (
	SourceFeed StagedSource = "FEED"
	SourceCSV  StagedSource = "CSV"
)

// ReconciliationStatus is the workflow state of a staged bank transaction.
type ReconciliationStatus string

const (
	ReconUnmatched          ReconciliationStatus = "UNMATCHED"
	ReconMatched            ReconciliationStatus = "MATCHED"
	ReconRuleApplied        ReconciliationStatus = "RULE_APPLIED"
	ReconCreatedTransaction ReconciliationStatus = "CREATED_TRANSACTION"
)

// StagedBankTransaction is a bank-side transaction awaiting reconciliation
// against the general ledger. Amount follows the bank sign convention:
// positive is money into the bank account.
type StagedBankTransaction struct {
	StagedTransactionID string          `json:"stagedTransactionID"` // Primary Key (UUID)
	OrganizationID      string          `json:"organizationID"`      // FK -> organizations (NON-NULL)
	BankFeedItemID      *string         `json:"bankFeedItemID,omitempty"`
	SourceTxnID         string          `json:"sourceTxnID"` // Unique within organization
	SourceAccountID     string          `json:"sourceAccountID"`
	SourceAccountName   string          `json:"sourceAccountName"`
	Date                time.Time       `json:"date"`
	PostedDate          *time.Time      `json:"postedDate,omitempty"`
	Name                string          `json:"name"`
	MerchantName        string          `json:"merchantName"`
	Amount              decimal.Decimal `json:"amount"` // Positive = inflow
	CurrencyCode        string          `json:"currencyCode"`
	SourceCategory      string          `json:"sourceCategory"`

	ReconciliationStatus ReconciliationStatus `json:"reconciliationStatus"`
	LinkedTransactionID  *string              `json:"linkedTransactionID,omitempty"` // GL transaction, once matched/created
	AppliedRuleID        *string              `json:"appliedRuleID,omitempty"`
	Source               StagedSource         `json:"source"`
	AuditFields
}

// RuleOperator is a comparison applied by a rule condition.
type RuleOperator string

const (
	OpContains       RuleOperator = "contains"
	OpDoesNotContain RuleOperator = "does_not_contain"
	OpEquals         RuleOperator = "equals"
	OpNotEquals      RuleOperator = "not_equals"
	OpGreaterThan    RuleOperator = "greater_than"
	OpLessThan       RuleOperator = "less_than"
)

// RuleActionType is the kind of effect a matched rule applies.
type RuleActionType string

const (
	ActionSetCategory   RuleActionType = "set_category"
	ActionSetStatus     RuleActionType = "set_status"
	ActionAssignAccount RuleActionType = "assign_account"
)

// ConditionFields is the closed set of staged-transaction fields a rule
// condition may reference. Rules are validated against it at save time and
// re-checked at evaluation time.
var ConditionFields = map[string]bool{
	"name":                true,
	"merchant_name":       true,
	"amount":              true,
	"currency_code":       true,
	"source_category":     true,
	"source_account_name": true,
	"date":                true,
}

// RuleOperators is the closed operator vocabulary.
var RuleOperators = map[RuleOperator]bool{
	OpContains:       true,
	OpDoesNotContain: true,
	OpEquals:         true,
	OpNotEquals:      true,
	OpGreaterThan:    true,
	OpLessThan:       true,
}

// RuleActionTypes is the closed action vocabulary.
var RuleActionTypes = map[RuleActionType]bool{
	ActionSetCategory:   true,
	ActionSetStatus:     true,
	ActionAssignAccount: true,
}

// RuleCondition is one predicate of a reconciliation rule. All conditions of
// a rule must hold for the rule to match (AND semantics).
type RuleCondition struct {
	Field    string       `json:"field"`
	Operator RuleOperator `json:"operator"`
	Value    string       `json:"value"`
}

// RuleAction is one effect applied when a rule matches.
type RuleAction struct {
	Type      RuleActionType `json:"type"`
	Value     string         `json:"value,omitempty"`     // Category name or status value
	AccountID string         `json:"accountID,omitempty"` // For assign_account
}

// ReconciliationRule is a user-defined automation rule evaluated against
// unmatched staged transactions, ordered by (priority asc, name asc).
// First matching rule wins; later rules are not evaluated.
type ReconciliationRule struct {
	RuleID         string          `json:"ruleID"`         // Primary Key (UUID)
	OrganizationID string          `json:"organizationID"` // FK -> organizations (NON-NULL)
	Name           string          `json:"name"`
	Priority       int             `json:"priority"` // Lower runs first
	IsActive       bool            `json:"isActive"`
	Conditions     []RuleCondition `json:"conditions"`
	Actions        []RuleAction    `json:"actions"`
	AuditFields
}
