package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a row of the transactions table.
type Transaction struct {
	TransactionID   string    `db:"transaction_id"`
	OrganizationID  string    `db:"organization_id"`
	Date            time.Time `db:"date"`
	Description     string    `db:"description"`
	ReferenceNumber string    `db:"reference_number"`
	AuditFields
}

// JournalEntry represents a row of the journal_entries table.
type JournalEntry struct {
	JournalEntryID string          `db:"journal_entry_id"`
	TransactionID  string          `db:"transaction_id"`
	AccountID      string          `db:"account_id"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	Description    string          `db:"description"`
}
