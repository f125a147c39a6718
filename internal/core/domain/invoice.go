package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a billable customer of an organization.
type Customer struct {
	CustomerID     string `json:"customerID"`     // Primary Key (UUID)
	OrganizationID string `json:"organizationID"` // FK -> organizations (NON-NULL)
	Name           string `json:"name"`           // Unique within organization
	Email          string `json:"email"`          // Nullable, required for sending invoices
	Phone          string `json:"phone"`          // Nullable
	AuditFields
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "DRAFT"
	InvoiceSent  InvoiceStatus = "SENT"
	InvoicePaid  InvoiceStatus = "PAID"
	InvoiceVoid  InvoiceStatus = "VOID"
)

// invoiceTransitions encodes the allowed status transitions:
// DRAFT -> SENT -> PAID; DRAFT -> VOID; SENT -> VOID.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft: {InvoiceSent, InvoiceVoid},
	InvoiceSent:  {InvoicePaid, InvoiceVoid},
}

// CanTransitionTo reports whether the status machine permits moving from s to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Invoice represents a customer invoice. Subtotal, TotalTax and TotalAmount
// are derived and recomputed from items whenever items change. Once the
// invoice is posted to the general ledger, TransactionID links the generated
// GL transaction and is immutable.
type Invoice struct {
	InvoiceID      string        `json:"invoiceID"`      // Primary Key (UUID)
	OrganizationID string        `json:"organizationID"` // FK -> organizations (NON-NULL)
	CustomerID     string        `json:"customerID"`     // FK -> customers (reference-protected)
	CustomerName   string        `json:"customerName"`   // Denormalized for display/posting
	InvoiceNumber  string        `json:"invoiceNumber"`  // Unique within organization
	IssueDate      time.Time     `json:"issueDate"`
	DueDate        time.Time     `json:"dueDate"`
	Status         InvoiceStatus `json:"status"`
	Notes          string        `json:"notes"`

	Subtotal    decimal.Decimal `json:"subtotal"`    // Derived: sum of item amounts
	TotalTax    decimal.Decimal `json:"totalTax"`    // Derived: sum of item tax amounts
	TotalAmount decimal.Decimal `json:"totalAmount"` // Derived: subtotal + total tax

	TransactionID *string `json:"transactionID,omitempty"` // Set once after GL posting
	AuditFields
	Items []InvoiceItem `json:"items,omitempty"`
}

// CalculateTotals recomputes the derived totals from the invoice's items.
func (inv *Invoice) CalculateTotals() {
	subtotal := decimal.Zero
	totalTax := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Amount)
		totalTax = totalTax.Add(item.TaxAmount)
	}
	inv.Subtotal = subtotal
	inv.TotalTax = totalTax
	inv.TotalAmount = subtotal.Add(totalTax)
}

// InvoiceItem is a single invoice line. Amount = Quantity * UnitPrice,
// recomputed on every write. TaxAmount is an explicit per-line total, not a rate.
type InvoiceItem struct {
	InvoiceItemID string          `json:"invoiceItemID"` // Primary Key (UUID)
	InvoiceID     string          `json:"invoiceID"`     // FK -> invoices (owned, cascade)
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Amount        decimal.Decimal `json:"amount"`    // Derived: quantity * unit price
	TaxAmount     decimal.Decimal `json:"taxAmount"` // Explicit per-line tax total
}

// CalculateAmount recomputes the derived line amount.
func (it *InvoiceItem) CalculateAmount() {
	it.Amount = it.Quantity.Mul(it.UnitPrice)
}
