package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

func entry(debit, credit string) domain.JournalEntry {
	return domain.JournalEntry{
		DebitAmount:  decimal.RequireFromString(debit),
		CreditAmount: decimal.RequireFromString(credit),
	}
}

func TestJournalEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   domain.JournalEntry
		wantErr error
	}{
		{"debit only", entry("100.00", "0"), nil},
		{"credit only", entry("0", "100.00"), nil},
		{"negative debit", entry("-1.00", "0"), domain.ErrNegativeJournalAmount},
		{"negative credit", entry("0", "-1.00"), domain.ErrNegativeJournalAmount},
		{"both sides set", entry("50.00", "50.00"), domain.ErrBothSidesSet},
		{"no side set", entry("0", "0"), domain.ErrNoSideSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTransactionIsBalanced(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.JournalEntry
		want    bool
	}{
		{"exact balance", []domain.JournalEntry{entry("100.00", "0"), entry("0", "100.00")}, true},
		{"off by tolerance", []domain.JournalEntry{entry("100.005", "0"), entry("0", "100.00")}, true},
		{"off beyond tolerance", []domain.JournalEntry{entry("100.006", "0"), entry("0", "100.00")}, false},
		{"grossly unbalanced", []domain.JournalEntry{entry("100.00", "0"), entry("0", "90.00")}, false},
		{"three lines", []domain.JournalEntry{entry("1080.00", "0"), entry("0", "1000.00"), entry("0", "80.00")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Entries: tt.entries}
			assert.Equal(t, tt.want, txn.IsBalanced())
		})
	}
}

func TestTransactionTotals(t *testing.T) {
	txn := domain.Transaction{Entries: []domain.JournalEntry{
		entry("250.00", "0"),
		entry("50.00", "0"),
		entry("0", "300.00"),
	}}

	assert.True(t, txn.TotalDebits().Equal(decimal.RequireFromString("300.00")))
	assert.True(t, txn.TotalCredits().Equal(decimal.RequireFromString("300.00")))
}
