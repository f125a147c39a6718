package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankFeedItem represents a row of the bank_feed_items table.
type BankFeedItem struct {
	BankFeedItemID  string     `db:"bank_feed_item_id"`
	OrganizationID  string     `db:"organization_id"`
	AccessToken     string     `db:"access_token"`
	ItemID          string     `db:"item_id"`
	InstitutionID   string     `db:"institution_id"`
	InstitutionName string     `db:"institution_name"`
	LastSyncedAt    *time.Time `db:"last_synced_at"`
	SyncCursor      string     `db:"sync_cursor"`
	AuditFields
}

// StagedBankTransaction represents a row of the staged_bank_transactions table.
type StagedBankTransaction struct {
	StagedTransactionID  string          `db:"staged_transaction_id"`
	OrganizationID       string          `db:"organization_id"`
	BankFeedItemID       *string         `db:"bank_feed_item_id"`
	SourceTxnID          string          `db:"source_txn_id"`
	SourceAccountID      string          `db:"source_account_id"`
	SourceAccountName    string          `db:"source_account_name"`
	Date                 time.Time       `db:"date"`
	PostedDate           *time.Time      `db:"posted_date"`
	Name                 string          `db:"name"`
	MerchantName         string          `db:"merchant_name"`
	Amount               decimal.Decimal `db:"amount"`
	CurrencyCode         string          `db:"currency_code"`
	SourceCategory       string          `db:"source_category"`
	ReconciliationStatus string          `db:"reconciliation_status"`
	LinkedTransactionID  *string         `db:"linked_transaction_id"`
	AppliedRuleID        *string         `db:"applied_rule_id"`
	Source               string          `db:"source"`
	AuditFields
}

// ReconciliationRule represents a row of the reconciliation_rules table.
// Conditions and Actions are stored as JSONB.
type ReconciliationRule struct {
	RuleID         string `db:"rule_id"`
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	Priority       int    `db:"priority"`
	IsActive       bool   `db:"is_active"`
	Conditions     []byte `db:"conditions"`
	Actions        []byte `db:"actions"`
	AuditFields
}
