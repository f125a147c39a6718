package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountAmount is one line of a report breakdown.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
}

// PAndLReport is a profit-and-loss statement over a period. The breakdown
// lists only accounts with non-zero activity; totals cover all active
// revenue/expense accounts.
type PAndLReport struct {
	OrganizationID string          `json:"organizationID"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	Revenue        []AccountAmount `json:"revenue"`
	Expenses       []AccountAmount `json:"expenses"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	NetIncome      decimal.Decimal `json:"netIncome"` // TotalRevenue - TotalExpenses
}

// BalanceSheetVerification reports whether the accounting equation holds
// for the generated balance sheet, within a 0.01 tolerance.
type BalanceSheetVerification struct {
	Balances   bool            `json:"balances"`
	Difference decimal.Decimal `json:"difference"` // assets - (liabilities + equity)
}

// BalanceSheetReport is a point-in-time statement of financial position.
// Equity includes a synthetic "Current Year Net Income" line so that the
// sheet balances without a formal year-end close.
type BalanceSheetReport struct {
	OrganizationID   string                   `json:"organizationID"`
	AsOfDate         time.Time                `json:"asOfDate"`
	Assets           []AccountAmount          `json:"assets"`
	Liabilities      []AccountAmount          `json:"liabilities"`
	Equity           []AccountAmount          `json:"equity"`
	TotalAssets      decimal.Decimal          `json:"totalAssets"`
	TotalLiabilities decimal.Decimal          `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal          `json:"totalEquity"`
	Verification     BalanceSheetVerification `json:"verification"`
}
