package services

import (
	"context"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

// CustomerSvc defines operations for customer data
type CustomerSvc interface {
	// GetCustomerByID retrieves a specific customer.
	GetCustomerByID(ctx context.Context, organizationID string, customerID string, userID string) (*domain.Customer, error)

	// ListCustomers retrieves a paginated list of customers.
	ListCustomers(ctx context.Context, organizationID string, userID string, limit int, offset int) ([]domain.Customer, error)

	// CreateCustomer persists a new customer.
	CreateCustomer(ctx context.Context, organizationID string, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error)

	// UpdateCustomer updates an existing customer.
	UpdateCustomer(ctx context.Context, organizationID string, customerID string, req dto.UpdateCustomerRequest, userID string) (*domain.Customer, error)
}

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its items.
	GetInvoiceByID(ctx context.Context, organizationID string, invoiceID string, userID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices, optionally by status.
	ListInvoices(ctx context.Context, organizationID string, userID string, params dto.ListInvoicesParams) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines write operations for invoice data
type InvoiceWriterSvc interface {
	// CreateInvoice persists a new invoice with its items; totals are recomputed.
	// Creating directly as SENT posts the invoice to the general ledger.
	CreateInvoice(ctx context.Context, organizationID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)

	// UpdateInvoice updates an invoice and replaces its items; totals are recomputed.
	UpdateInvoice(ctx context.Context, organizationID string, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error)

	// UpdateInvoiceStatus transitions the invoice status machine. The DRAFT to
	// SENT transition posts the invoice to the general ledger.
	UpdateInvoiceStatus(ctx context.Context, organizationID string, invoiceID string, newStatus domain.InvoiceStatus, userID string) (*domain.Invoice, error)
}

// InvoiceDeliverySvc defines invoice rendering and delivery operations
type InvoiceDeliverySvc interface {
	// RenderInvoicePDF renders the invoice as a PDF document.
	RenderInvoicePDF(ctx context.Context, organizationID string, invoiceID string, userID string) ([]byte, error)

	// SendInvoice emails the invoice PDF to the customer. DRAFT invoices become
	// SENT on successful delivery.
	SendInvoice(ctx context.Context, organizationID string, invoiceID string, userID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	CustomerSvc
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceDeliverySvc
}
