package dto

import (
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest defines the data needed to create a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// UpdateCustomerRequest defines the data allowed for updating a customer.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

// InvoiceItemRequest defines one invoice line being created or replaced.
// The line amount is recomputed server-side from quantity and unit price.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// CreateInvoiceRequest defines the data needed to create an invoice.
// Status may be DRAFT or SENT; creating as SENT posts to the general ledger.
type CreateInvoiceRequest struct {
	CustomerID    string               `json:"customerID" binding:"required"`
	InvoiceNumber string               `json:"invoiceNumber" binding:"required"`
	IssueDate     time.Time            `json:"issueDate" binding:"required"`
	DueDate       time.Time            `json:"dueDate" binding:"required"`
	Status        domain.InvoiceStatus `json:"status" binding:"omitempty,oneof=DRAFT SENT"`
	Notes         string               `json:"notes"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest defines the data for updating a DRAFT invoice.
// The full item set is replaced and totals are recomputed.
type UpdateInvoiceRequest struct {
	CustomerID    string               `json:"customerID" binding:"required"`
	InvoiceNumber string               `json:"invoiceNumber" binding:"required"`
	IssueDate     time.Time            `json:"issueDate" binding:"required"`
	DueDate       time.Time            `json:"dueDate" binding:"required"`
	Notes         string               `json:"notes"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceStatusRequest defines a status machine transition.
type UpdateInvoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" binding:"required,oneof=DRAFT SENT PAID VOID"`
}

// ListCustomersParams defines query parameters for listing customers.
type ListCustomersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Status *domain.InvoiceStatus `form:"status" binding:"omitempty,oneof=DRAFT SENT PAID VOID"`
	Limit  int                   `form:"limit,default=20"`
	Offset int                   `form:"offset,default=0"`
}
