package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsDebitNormal reports whether the account type's balance increases with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a general-ledger account within the core domain.
// The combination (organization, name, type) is unique. Accounts are
// soft-deactivated, never hard-deleted while journal entries reference them.
type Account struct {
	AccountID      string      `json:"accountID"`      // Primary Key (UUID)
	OrganizationID string      `json:"organizationID"` // FK -> organizations (NON-NULL)
	Name           string      `json:"name"`           // User-defined name
	AccountType    AccountType `json:"accountType"`    // ASSET, LIABILITY, etc.
	Description    string      `json:"description"`    // Nullable user description
	IsActive       bool        `json:"isActive"`       // Soft delete flag
	AuditFields
}
