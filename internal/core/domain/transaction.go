package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single balanced financial event composed of
// journal entry lines. The core invariant of the whole system: the sum of
// debit amounts across its entries equals the sum of credit amounts, within
// a tolerance of 0.005 currency units.
type Transaction struct {
	TransactionID   string    `json:"transactionID"`   // Primary Key (UUID)
	OrganizationID  string    `json:"organizationID"`  // FK -> organizations (NON-NULL)
	Date            time.Time `json:"date"`            // Date the event occurred
	Description     string    `json:"description"`     // Free-text description
	ReferenceNumber string    `json:"referenceNumber"` // Nullable external reference
	AuditFields
	Entries []JournalEntry `json:"entries,omitempty"` // Owned lines, cascade-deleted
}

// BalanceTolerance is the maximum allowed absolute difference between total
// debits and total credits of a transaction, absorbing rounding from
// upstream decimal division (e.g. salary / 26 pay periods).
var BalanceTolerance = decimal.RequireFromString("0.005")

// TotalDebits sums the debit side of the transaction's entries.
func (t Transaction) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.DebitAmount)
	}
	return total
}

// TotalCredits sums the credit side of the transaction's entries.
func (t Transaction) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.CreditAmount)
	}
	return total
}

// IsBalanced reports whether debits equal credits within BalanceTolerance.
func (t Transaction) IsBalanced() bool {
	return t.TotalDebits().Sub(t.TotalCredits()).Abs().LessThanOrEqual(BalanceTolerance)
}

// JournalEntry represents a single line of a Transaction, affecting one
// account. Exactly one of DebitAmount/CreditAmount must be strictly
// positive; the other must be zero.
type JournalEntry struct {
	JournalEntryID string          `json:"journalEntryID"` // Primary Key (UUID)
	TransactionID  string          `json:"transactionID"`  // FK -> transactions (NON-NULL)
	AccountID      string          `json:"accountID"`      // FK -> accounts (reference-protected)
	DebitAmount    decimal.Decimal `json:"debitAmount"`    // >= 0, 2 decimal places
	CreditAmount   decimal.Decimal `json:"creditAmount"`   // >= 0, 2 decimal places
	Description    string          `json:"description"`    // Nullable
}

// Validate checks the one-side-positive invariant for the entry.
func (e JournalEntry) Validate() error {
	if e.DebitAmount.IsNegative() || e.CreditAmount.IsNegative() {
		return ErrNegativeJournalAmount
	}
	if e.DebitAmount.IsPositive() && e.CreditAmount.IsPositive() {
		return ErrBothSidesSet
	}
	if e.DebitAmount.IsZero() && e.CreditAmount.IsZero() {
		return ErrNoSideSet
	}
	return nil
}
