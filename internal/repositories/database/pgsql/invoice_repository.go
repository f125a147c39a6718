package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	"github.com/ledgerpro/ledgerpro_backend/internal/models"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/mapping"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for customer and invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const customerColumns = `customer_id, organization_id, name, email, phone, created_at, created_by, last_updated_at, last_updated_by`
const invoiceColumns = `invoice_id, organization_id, customer_id, customer_name, invoice_number, issue_date, due_date, status, notes, subtotal, total_tax, total_amount, transaction_id, created_at, created_by, last_updated_at, last_updated_by`
const invoiceItemColumns = `invoice_item_id, invoice_id, description, quantity, unit_price, amount, tax_amount`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var m models.Customer
	err := row.Scan(
		&m.CustomerID,
		&m.OrganizationID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.OrganizationID,
		&m.CustomerID,
		&m.CustomerName,
		&m.InvoiceNumber,
		&m.IssueDate,
		&m.DueDate,
		&m.Status,
		&m.Notes,
		&m.Subtotal,
		&m.TotalTax,
		&m.TotalAmount,
		&m.TransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveCustomer persists a new customer.
func (r *PgxInvoiceRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	modelCustomer := mapping.ToModelCustomer(customer)
	query := `
		INSERT INTO customers (customer_id, organization_id, name, email, phone, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelCustomer.CustomerID,
		modelCustomer.OrganizationID,
		modelCustomer.Name,
		modelCustomer.Email,
		modelCustomer.Phone,
		modelCustomer.CreatedAt,
		modelCustomer.CreatedBy,
		modelCustomer.LastUpdatedAt,
		modelCustomer.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by its ID.
func (r *PgxInvoiceRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE customer_id = $1;`, customerColumns)
	modelCustomer, err := scanCustomer(r.Pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	domainCustomer := mapping.ToDomainCustomer(*modelCustomer)
	return &domainCustomer, nil
}

// ListCustomers retrieves a paginated list of customers for an organization.
func (r *PgxInvoiceRepository) ListCustomers(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE organization_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3;
	`, customerColumns)
	rows, err := r.Pool.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	modelCustomers := make([]models.Customer, 0, limit)
	for rows.Next() {
		m, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		modelCustomers = append(modelCustomers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return mapping.ToDomainCustomerSlice(modelCustomers), nil
}

// UpdateCustomer updates an existing customer's details.
func (r *PgxInvoiceRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	modelCustomer := mapping.ToModelCustomer(customer)
	query := `
		UPDATE customers
		SET name = $2,
			email = $3,
			phone = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE customer_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelCustomer.CustomerID,
		modelCustomer.Name,
		modelCustomer.Email,
		modelCustomer.Phone,
		modelCustomer.LastUpdatedAt,
		modelCustomer.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer %s: %w", customer.CustomerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveInvoice persists a new invoice and its items atomically.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.SaveInvoiceInTx(ctx, tx, invoice); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveInvoiceInTx persists a new invoice and its items within a caller-owned
// database transaction.
func (r *PgxInvoiceRepository) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	modelInvoice := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (invoice_id, organization_id, customer_id, customer_name, invoice_number, issue_date, due_date, status, notes, subtotal, total_tax, total_amount, transaction_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		modelInvoice.InvoiceID,
		modelInvoice.OrganizationID,
		modelInvoice.CustomerID,
		modelInvoice.CustomerName,
		modelInvoice.InvoiceNumber,
		modelInvoice.IssueDate,
		modelInvoice.DueDate,
		modelInvoice.Status,
		modelInvoice.Notes,
		modelInvoice.Subtotal,
		modelInvoice.TotalTax,
		modelInvoice.TotalAmount,
		modelInvoice.TransactionID,
		modelInvoice.CreatedAt,
		modelInvoice.CreatedBy,
		modelInvoice.LastUpdatedAt,
		modelInvoice.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice number %s already exists in organization", apperrors.ErrDuplicate, invoice.InvoiceNumber)
		}
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}

	return r.insertItemsInTx(ctx, tx, invoice.Items)
}

func (r *PgxInvoiceRepository) insertItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.InvoiceItem) error {
	itemQuery := `
		INSERT INTO invoice_items (invoice_item_id, invoice_id, description, quantity, unit_price, amount, tax_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		modelItem := mapping.ToModelInvoiceItem(item)
		batch.Queue(itemQuery,
			modelItem.InvoiceItemID,
			modelItem.InvoiceID,
			modelItem.Description,
			modelItem.Quantity,
			modelItem.UnitPrice,
			modelItem.Amount,
			modelItem.TaxAmount,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}
	return nil
}

// FindInvoiceByID retrieves an invoice together with its items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE invoice_id = $1;`, invoiceColumns)
	modelInvoice, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	itemQuery := fmt.Sprintf(`SELECT %s FROM invoice_items WHERE invoice_id = $1 ORDER BY invoice_item_id;`, invoiceItemColumns)
	rows, err := r.Pool.Query(ctx, itemQuery, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var modelItems []models.InvoiceItem
	for rows.Next() {
		var m models.InvoiceItem
		err := rows.Scan(
			&m.InvoiceItemID,
			&m.InvoiceID,
			&m.Description,
			&m.Quantity,
			&m.UnitPrice,
			&m.Amount,
			&m.TaxAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice item row: %w", err)
		}
		modelItems = append(modelItems, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice item rows: %w", err)
	}

	domainInvoice := mapping.ToDomainInvoice(*modelInvoice)
	domainInvoice.Items = mapping.ToDomainInvoiceItemSlice(modelItems)
	return &domainInvoice, nil
}

// ListInvoices retrieves a paginated list of invoices for an organization,
// optionally filtered by status. Items are not loaded.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, organizationID string, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error) {
	args := []any{organizationID, limit, offset}
	query := fmt.Sprintf(`
		SELECT %s FROM invoices
		WHERE organization_id = $1
	`, invoiceColumns)
	if status != nil {
		query += ` AND status = $4`
		args = append(args, string(*status))
	}
	query += ` ORDER BY issue_date DESC, created_at DESC LIMIT $2 OFFSET $3;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	modelInvoices := make([]models.Invoice, 0, limit)
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		modelInvoices = append(modelInvoices, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return mapping.ToDomainInvoiceSlice(modelInvoices), nil
}

// ReplaceInvoice updates invoice fields and swaps the full item set atomically.
func (r *PgxInvoiceRepository) ReplaceInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.UpdateInvoiceInTx(ctx, tx, invoice); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice items for invoice %s: %w", invoice.InvoiceID, err)
	}
	if err := r.insertItemsInTx(ctx, tx, invoice.Items); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateInvoiceInTx updates invoice fields (not items) within a caller-owned
// database transaction.
func (r *PgxInvoiceRepository) UpdateInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	modelInvoice := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices
		SET customer_id = $2,
			customer_name = $3,
			invoice_number = $4,
			issue_date = $5,
			due_date = $6,
			status = $7,
			notes = $8,
			subtotal = $9,
			total_tax = $10,
			total_amount = $11,
			transaction_id = $12,
			last_updated_at = $13,
			last_updated_by = $14
		WHERE invoice_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		modelInvoice.InvoiceID,
		modelInvoice.CustomerID,
		modelInvoice.CustomerName,
		modelInvoice.InvoiceNumber,
		modelInvoice.IssueDate,
		modelInvoice.DueDate,
		modelInvoice.Status,
		modelInvoice.Notes,
		modelInvoice.Subtotal,
		modelInvoice.TotalTax,
		modelInvoice.TotalAmount,
		modelInvoice.TransactionID,
		modelInvoice.LastUpdatedAt,
		modelInvoice.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice number %s already exists in organization", apperrors.ErrDuplicate, invoice.InvoiceNumber)
		}
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
