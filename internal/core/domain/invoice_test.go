package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

func TestInvoiceStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from domain.InvoiceStatus
		to   domain.InvoiceStatus
		want bool
	}{
		{domain.InvoiceDraft, domain.InvoiceSent, true},
		{domain.InvoiceDraft, domain.InvoiceVoid, true},
		{domain.InvoiceDraft, domain.InvoicePaid, false},
		{domain.InvoiceSent, domain.InvoicePaid, true},
		{domain.InvoiceSent, domain.InvoiceVoid, true},
		{domain.InvoiceSent, domain.InvoiceDraft, false},
		{domain.InvoicePaid, domain.InvoiceVoid, false},
		{domain.InvoicePaid, domain.InvoiceSent, false},
		{domain.InvoiceVoid, domain.InvoiceDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestInvoiceCalculateTotals(t *testing.T) {
	inv := domain.Invoice{Items: []domain.InvoiceItem{
		{Amount: decimal.RequireFromString("1000.00"), TaxAmount: decimal.RequireFromString("80.00")},
		{Amount: decimal.RequireFromString("59.97"), TaxAmount: decimal.RequireFromString("4.80")},
		{Amount: decimal.RequireFromString("10.00")},
	}}

	inv.CalculateTotals()

	assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("1069.97")), "subtotal %s", inv.Subtotal)
	assert.True(t, inv.TotalTax.Equal(decimal.RequireFromString("84.80")), "tax %s", inv.TotalTax)
	assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("1154.77")), "total %s", inv.TotalAmount)
}

func TestInvoiceItemCalculateAmount(t *testing.T) {
	item := domain.InvoiceItem{
		Quantity:  decimal.RequireFromString("3"),
		UnitPrice: decimal.RequireFromString("19.99"),
	}

	item.CalculateAmount()

	assert.True(t, item.Amount.Equal(decimal.RequireFromString("59.97")))
}
