package accounting

import (
	"fmt"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalance computes the normal-side balance of an account from its
// debit and credit totals.
// ASSET/EXPENSE accounts increase with debits: balance = debits - credits.
// LIABILITY/EQUITY/REVENUE accounts increase with credits: balance = credits - debits.
func SignedBalance(accountType domain.AccountType, debits, credits decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debits.Sub(credits), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credits.Sub(debits), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
// All persisted amounts go through this before hitting the database.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ValidateTransactionBalance checks the core double-entry invariant for a set
// of journal entry lines: at least two lines, each line passing its own
// validation, and total debits equal to total credits within
// domain.BalanceTolerance.
func ValidateTransactionBalance(entries []domain.JournalEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("transaction must have at least two journal entry lines")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("journal entry line %d: %w", i, err)
		}
		debits = debits.Add(e.DebitAmount)
		credits = credits.Add(e.CreditAmount)
	}

	if debits.Sub(credits).Abs().GreaterThan(domain.BalanceTolerance) {
		return fmt.Errorf("transaction does not balance: debits %s, credits %s", debits.String(), credits.String())
	}

	return nil
}
