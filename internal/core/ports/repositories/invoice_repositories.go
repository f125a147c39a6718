package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// CustomerReader defines read operations for customer data
type CustomerReader interface {
	// FindCustomerByID retrieves a specific customer by its unique identifier.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves a paginated list of customers for an organization.
	ListCustomers(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customer data
type CustomerWriter interface {
	// SaveCustomer persists a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// UpdateCustomer updates an existing customer's details.
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
}

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its items.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices for an organization,
	// optionally filtered by status.
	ListInvoices(ctx context.Context, organizationID string, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice and its items atomically.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// SaveInvoiceInTx persists a new invoice and its items within a
	// caller-owned database transaction. Used when an invoice is created
	// directly as SENT so the invoice row and its GL rows commit together.
	SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error

	// ReplaceInvoice updates invoice fields and swaps the full item set atomically.
	ReplaceInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceInTx updates invoice fields (not items) within a caller-owned
	// database transaction. Used when posting to the ledger so the invoice row
	// and the generated GL rows commit together.
	UpdateInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	CustomerReader
	CustomerWriter
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
