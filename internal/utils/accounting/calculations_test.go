package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/accounting"
)

func TestSignedBalance(t *testing.T) {
	debits := decimal.RequireFromString("500.00")
	credits := decimal.RequireFromString("120.00")

	tests := []struct {
		accountType domain.AccountType
		want        string
	}{
		{domain.Asset, "380.00"},
		{domain.Expense, "380.00"},
		{domain.Liability, "-380.00"},
		{domain.Equity, "-380.00"},
		{domain.Revenue, "-380.00"},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got, err := accounting.SignedBalance(tt.accountType, debits, credits)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}

	_, err := accounting.SignedBalance(domain.AccountType("BOGUS"), debits, credits)
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1923.0769230769", "1923.08"},
		{"2.005", "2.01"},
		{"-2.005", "-2.01"},
		{"10", "10"},
	}

	for _, tt := range tests {
		got := accounting.Round2(decimal.RequireFromString(tt.in))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "Round2(%s) = %s", tt.in, got)
	}
}

func TestValidateTransactionBalance(t *testing.T) {
	debit := func(v string) domain.JournalEntry {
		return domain.JournalEntry{DebitAmount: decimal.RequireFromString(v)}
	}
	credit := func(v string) domain.JournalEntry {
		return domain.JournalEntry{CreditAmount: decimal.RequireFromString(v)}
	}

	t.Run("balanced", func(t *testing.T) {
		err := accounting.ValidateTransactionBalance([]domain.JournalEntry{debit("100.00"), credit("100.00")})
		assert.NoError(t, err)
	})

	t.Run("within tolerance", func(t *testing.T) {
		err := accounting.ValidateTransactionBalance([]domain.JournalEntry{debit("100.005"), credit("100.00")})
		assert.NoError(t, err)
	})

	t.Run("beyond tolerance", func(t *testing.T) {
		err := accounting.ValidateTransactionBalance([]domain.JournalEntry{debit("100.01"), credit("100.00")})
		assert.Error(t, err)
	})

	t.Run("too few lines", func(t *testing.T) {
		err := accounting.ValidateTransactionBalance([]domain.JournalEntry{debit("100.00")})
		assert.Error(t, err)
	})

	t.Run("invalid line", func(t *testing.T) {
		both := domain.JournalEntry{
			DebitAmount:  decimal.RequireFromString("50.00"),
			CreditAmount: decimal.RequireFromString("50.00"),
		}
		err := accounting.ValidateTransactionBalance([]domain.JournalEntry{both, credit("0")})
		assert.ErrorIs(t, err, domain.ErrBothSidesSet)
	})
}
