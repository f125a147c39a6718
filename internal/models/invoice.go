package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a row of the customers table.
type Customer struct {
	CustomerID     string `db:"customer_id"`
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	Email          string `db:"email"`
	Phone          string `db:"phone"`
	AuditFields
}

// Invoice represents a row of the invoices table.
type Invoice struct {
	InvoiceID      string          `db:"invoice_id"`
	OrganizationID string          `db:"organization_id"`
	CustomerID     string          `db:"customer_id"`
	CustomerName   string          `db:"customer_name"`
	InvoiceNumber  string          `db:"invoice_number"`
	IssueDate      time.Time       `db:"issue_date"`
	DueDate        time.Time       `db:"due_date"`
	Status         string          `db:"status"`
	Notes          string          `db:"notes"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	TotalTax       decimal.Decimal `db:"total_tax"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	TransactionID  *string         `db:"transaction_id"`
	AuditFields
}

// InvoiceItem represents a row of the invoice_items table.
type InvoiceItem struct {
	InvoiceItemID string          `db:"invoice_item_id"`
	InvoiceID     string          `db:"invoice_id"`
	Description   string          `db:"description"`
	Quantity      decimal.Decimal `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Amount        decimal.Decimal `db:"amount"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
}
