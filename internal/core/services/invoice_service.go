package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/accounting"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/invoicepdf"
)

var (
	ErrInvalidStatusTransition = errors.New("invoice status transition not allowed")
	ErrInvoiceNotDraft         = errors.New("only draft invoices can be edited")
	ErrInvoiceTotalsMismatch   = errors.New("invoice totals do not reconcile for posting")
	ErrCustomerMissingEmail    = errors.New("customer has no email address")
	ErrInvoiceNotSendable      = errors.New("invoice cannot be sent in its current status")
	ErrDuplicateInvoiceNumber  = errors.New("an invoice with this number already exists")
)

// invoiceService manages customers, invoices, the invoice status machine and
// the posting of sent invoices into the general ledger.
type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	ledgerRepo  portsrepo.LedgerRepositoryWithTx
	orgReader   portsrepo.OrganizationReader
	resolver    portssvc.AccountResolverSvc
	emailSender portssvc.EmailSender
}

// InvoiceServiceOption configures the invoice service.
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceAuthorizer sets the organization authorizer.
func WithInvoiceAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.OrgAuthorizer = authorizer
	}
}

// WithEmailSender sets the outbound email adapter used by SendInvoice.
func WithEmailSender(sender portssvc.EmailSender) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.emailSender = sender
	}
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
	orgReader portsrepo.OrganizationReader,
	resolver portssvc.AccountResolverSvc,
	opts ...InvoiceServiceOption,
) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		invoiceRepo: invoiceRepo,
		ledgerRepo:  ledgerRepo,
		orgReader:   orgReader,
		resolver:    resolver,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// GetCustomerByID retrieves a specific customer.
func (s *invoiceService) GetCustomerByID(ctx context.Context, organizationID string, customerID string, userID string) (*domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	customer, err := s.invoiceRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return customer, nil
}

// ListCustomers retrieves a paginated list of customers.
func (s *invoiceService) ListCustomers(ctx context.Context, organizationID string, userID string, limit int, offset int) ([]domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	customers, err := s.invoiceRepo.ListCustomers(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list customers", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// CreateCustomer persists a new customer.
func (s *invoiceService) CreateCustomer(ctx context.Context, organizationID string, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:     uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.invoiceRepo.SaveCustomer(ctx, customer); err != nil {
		s.LogError(ctx, err, "Failed to save customer", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return &customer, nil
}

// UpdateCustomer updates an existing customer.
func (s *invoiceService) UpdateCustomer(ctx context.Context, organizationID string, customerID string, req dto.UpdateCustomerRequest, userID string) (*domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	customer, err := s.invoiceRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	customer.LastUpdatedAt = time.Now().UTC()
	customer.LastUpdatedBy = userID

	if err := s.invoiceRepo.UpdateCustomer(ctx, *customer); err != nil {
		s.LogError(ctx, err, "Failed to update customer", slog.String("customer_id", customerID))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// GetInvoiceByID retrieves an invoice with its items.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, organizationID string, invoiceID string, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return invoice, nil
}

// ListInvoices retrieves a paginated list of invoices, optionally by status.
func (s *invoiceService) ListInvoices(ctx context.Context, organizationID string, userID string, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	invoices, err := s.invoiceRepo.ListInvoices(ctx, organizationID, params.Status, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// CreateInvoice persists a new invoice with its items. Creating directly as
// SENT posts the invoice to the general ledger in the same unit of work.
func (s *invoiceService) CreateInvoice(ctx context.Context, organizationID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	customer, err := s.invoiceRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	status := req.Status
	if status == "" {
		status = domain.InvoiceDraft
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		OrganizationID: organizationID,
		CustomerID:     customer.CustomerID,
		CustomerName:   customer.Name,
		InvoiceNumber:  req.InvoiceNumber,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		Status:         domain.InvoiceDraft,
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	invoice.Items = buildInvoiceItems(invoice.InvoiceID, req.Items)
	invoice.CalculateTotals()

	if status == domain.InvoiceSent {
		// Creating directly as SENT writes the invoice row and its GL rows in
		// one unit of work so a posting failure leaves no orphan invoice.
		txn, err := s.buildInvoicePosting(ctx, &invoice, userID)
		if err != nil {
			return nil, err
		}
		invoice.Status = domain.InvoiceSent
		invoice.TransactionID = &txn.TransactionID

		tx, err := s.invoiceRepo.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to begin invoice creation: %w", err)
		}
		if err := s.invoiceRepo.SaveInvoiceInTx(ctx, tx, invoice); err != nil {
			_ = s.invoiceRepo.Rollback(ctx, tx)
			if errors.Is(err, apperrors.ErrDuplicate) {
				return nil, ErrDuplicateInvoiceNumber
			}
			s.LogError(ctx, err, "Failed to save invoice", slog.String("organization_id", organizationID))
			return nil, fmt.Errorf("failed to save invoice: %w", err)
		}
		if err := s.ledgerRepo.SaveTransactionInTx(ctx, tx, *txn); err != nil {
			_ = s.invoiceRepo.Rollback(ctx, tx)
			s.LogError(ctx, err, "Failed to save GL transaction for invoice", slog.String("invoice_id", invoice.InvoiceID))
			return nil, fmt.Errorf("failed to post invoice to ledger: %w", err)
		}
		if err := s.invoiceRepo.Commit(ctx, tx); err != nil {
			s.LogError(ctx, err, "Failed to commit invoice creation", slog.String("invoice_id", invoice.InvoiceID))
			return nil, fmt.Errorf("failed to commit invoice creation: %w", err)
		}
	} else {
		if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return nil, ErrDuplicateInvoiceNumber
			}
			s.LogError(ctx, err, "Failed to save invoice", slog.String("organization_id", organizationID))
			return nil, fmt.Errorf("failed to save invoice: %w", err)
		}
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("status", string(invoice.Status)))
	return &invoice, nil
}

// UpdateInvoice updates a DRAFT invoice and replaces its items.
func (s *invoiceService) UpdateInvoice(ctx context.Context, organizationID string, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, ErrInvoiceNotDraft
	}

	customer, err := s.invoiceRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	invoice.CustomerID = customer.CustomerID
	invoice.CustomerName = customer.Name
	invoice.InvoiceNumber = req.InvoiceNumber
	invoice.IssueDate = req.IssueDate
	invoice.DueDate = req.DueDate
	invoice.Notes = req.Notes
	invoice.Items = buildInvoiceItems(invoice.InvoiceID, req.Items)
	invoice.CalculateTotals()
	invoice.LastUpdatedAt = time.Now().UTC()
	invoice.LastUpdatedBy = userID

	if err := s.invoiceRepo.ReplaceInvoice(ctx, *invoice); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, ErrDuplicateInvoiceNumber
		}
		s.LogError(ctx, err, "Failed to replace invoice", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return invoice, nil
}

// UpdateInvoiceStatus transitions the invoice status machine. DRAFT to SENT
// posts the invoice to the general ledger exactly once.
func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, organizationID string, invoiceID string, newStatus domain.InvoiceStatus, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if !invoice.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, invoice.Status, newStatus)
	}

	if newStatus == domain.InvoiceSent && invoice.TransactionID == nil {
		if err := s.postInvoiceToLedger(ctx, invoice, userID); err != nil {
			return nil, err
		}
		return invoice, nil
	}

	invoice.Status = newStatus
	invoice.LastUpdatedAt = time.Now().UTC()
	invoice.LastUpdatedBy = userID
	if err := s.invoiceRepo.ReplaceInvoice(ctx, *invoice); err != nil {
		s.LogError(ctx, err, "Failed to update invoice status", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.LogInfo(ctx, "Invoice status updated",
		slog.String("invoice_id", invoiceID),
		slog.String("status", string(newStatus)))
	return invoice, nil
}

// RenderInvoicePDF renders the invoice as a PDF document.
func (s *invoiceService) RenderInvoicePDF(ctx context.Context, organizationID string, invoiceID string, userID string) ([]byte, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	org, err := s.orgReader.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	pdf, err := invoicepdf.Render(org, invoice)
	if err != nil {
		s.LogError(ctx, err, "Failed to render invoice PDF", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return pdf, nil
}

// SendInvoice emails the invoice PDF to the customer. A DRAFT invoice becomes
// SENT (posting it to the ledger) before delivery.
func (s *invoiceService) SendInvoice(ctx context.Context, organizationID string, invoiceID string, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if s.emailSender == nil {
		return nil, fmt.Errorf("email delivery is not configured: %w", apperrors.ErrInternal)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if invoice.Status == domain.InvoicePaid || invoice.Status == domain.InvoiceVoid {
		return nil, ErrInvoiceNotSendable
	}

	customer, err := s.invoiceRepo.FindCustomerByID(ctx, invoice.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Email == "" {
		return nil, ErrCustomerMissingEmail
	}

	org, err := s.orgReader.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	pdf, err := invoicepdf.Render(org, invoice)
	if err != nil {
		s.LogError(ctx, err, "Failed to render invoice PDF for delivery", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}

	if invoice.Status == domain.InvoiceDraft {
		if err := s.postInvoiceToLedger(ctx, invoice, userID); err != nil {
			return nil, err
		}
	}

	subject := fmt.Sprintf("Invoice %s from %s", invoice.InvoiceNumber, org.Name)
	body := fmt.Sprintf("Hello %s,\n\nPlease find attached invoice %s for %s.\n\nRegards,\n%s",
		customer.Name, invoice.InvoiceNumber, invoice.TotalAmount.StringFixed(2), org.Name)
	attachmentName := fmt.Sprintf("invoice-%s.pdf", invoice.InvoiceNumber)

	if err := s.emailSender.SendEmail(ctx, customer.Email, subject, body, attachmentName, pdf); err != nil {
		s.LogError(ctx, err, "Failed to send invoice email", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to send invoice: %w", err)
	}

	s.LogInfo(ctx, "Invoice sent",
		slog.String("invoice_id", invoiceID),
		slog.String("customer_id", customer.CustomerID))
	return invoice, nil
}

// buildInvoicePosting constructs the balanced GL transaction for an invoice:
// A/R debit for the total, Sales Revenue credit for the subtotal and, when tax
// applies, Sales Tax Payable credit for the tax.
func (s *invoiceService) buildInvoicePosting(ctx context.Context, invoice *domain.Invoice, userID string) (*domain.Transaction, error) {
	if !invoice.TotalAmount.Equal(invoice.Subtotal.Add(invoice.TotalTax)) {
		return nil, fmt.Errorf("%w: total %s, subtotal %s, tax %s", ErrInvoiceTotalsMismatch,
			invoice.TotalAmount.String(), invoice.Subtotal.String(), invoice.TotalTax.String())
	}

	arAccount, err := s.resolver.ResolveOrCreateDefault(ctx, invoice.OrganizationID, domain.Asset,
		"Accounts Receivable", "Accounts Receivable (Default)", "accounts receivable", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts receivable: %w", err)
	}
	salesAccount, err := s.resolver.ResolveOrCreateDefault(ctx, invoice.OrganizationID, domain.Revenue,
		"Sales Revenue", "Sales Revenue (Default)", "sales revenue", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sales revenue: %w", err)
	}

	transactionID := uuid.NewString()
	entries := []domain.JournalEntry{
		{
			JournalEntryID: uuid.NewString(),
			TransactionID:  transactionID,
			AccountID:      arAccount.AccountID,
			DebitAmount:    accounting.Round2(invoice.TotalAmount),
		},
		{
			JournalEntryID: uuid.NewString(),
			TransactionID:  transactionID,
			AccountID:      salesAccount.AccountID,
			CreditAmount:   accounting.Round2(invoice.Subtotal),
		},
	}

	if invoice.TotalTax.IsPositive() {
		taxAccount, err := s.resolver.ResolveOrCreateDefault(ctx, invoice.OrganizationID, domain.Liability,
			"Sales Tax Payable", "Sales Tax Payable (Default)", "sales tax payable", userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sales tax payable: %w", err)
		}
		entries = append(entries, domain.JournalEntry{
			JournalEntryID: uuid.NewString(),
			TransactionID:  transactionID,
			AccountID:      taxAccount.AccountID,
			CreditAmount:   accounting.Round2(invoice.TotalTax),
		})
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   transactionID,
		OrganizationID:  invoice.OrganizationID,
		Date:            invoice.IssueDate,
		Description:     fmt.Sprintf("Invoice %s to %s", invoice.InvoiceNumber, invoice.CustomerName),
		ReferenceNumber: invoice.InvoiceNumber,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Entries: entries,
	}

	// Only 2-3 known lines participate, so demand exact equality.
	if !txn.TotalDebits().Equal(txn.TotalCredits()) {
		return nil, fmt.Errorf("%w: debits %s, credits %s", ErrInvoiceTotalsMismatch,
			txn.TotalDebits().String(), txn.TotalCredits().String())
	}

	return &txn, nil
}

// postInvoiceToLedger posts an already-persisted, not-yet-posted invoice to
// the general ledger. The invoice update and the GL rows commit together. The
// invoice is mutated to SENT with the linked transaction on success.
func (s *invoiceService) postInvoiceToLedger(ctx context.Context, invoice *domain.Invoice, userID string) error {
	if invoice.TransactionID != nil {
		// Already posted; the link is immutable.
		return nil
	}

	txn, err := s.buildInvoicePosting(ctx, invoice, userID)
	if err != nil {
		return err
	}

	tx, err := s.invoiceRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin posting transaction: %w", err)
	}

	if err := s.ledgerRepo.SaveTransactionInTx(ctx, tx, *txn); err != nil {
		_ = s.invoiceRepo.Rollback(ctx, tx)
		s.LogError(ctx, err, "Failed to save GL transaction for invoice", slog.String("invoice_id", invoice.InvoiceID))
		return fmt.Errorf("failed to post invoice to ledger: %w", err)
	}

	invoice.Status = domain.InvoiceSent
	invoice.TransactionID = &txn.TransactionID
	invoice.LastUpdatedAt = txn.CreatedAt
	invoice.LastUpdatedBy = userID
	if err := s.invoiceRepo.UpdateInvoiceInTx(ctx, tx, *invoice); err != nil {
		_ = s.invoiceRepo.Rollback(ctx, tx)
		invoice.Status = domain.InvoiceDraft
		invoice.TransactionID = nil
		s.LogError(ctx, err, "Failed to link GL transaction to invoice", slog.String("invoice_id", invoice.InvoiceID))
		return fmt.Errorf("failed to link invoice transaction: %w", err)
	}

	if err := s.invoiceRepo.Commit(ctx, tx); err != nil {
		invoice.Status = domain.InvoiceDraft
		invoice.TransactionID = nil
		s.LogError(ctx, err, "Failed to commit invoice posting", slog.String("invoice_id", invoice.InvoiceID))
		return fmt.Errorf("failed to commit invoice posting: %w", err)
	}

	s.LogInfo(ctx, "Invoice posted to ledger",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", invoice.TotalAmount.StringFixed(2)))
	return nil
}

// buildInvoiceItems converts request lines into owned invoice items with
// recomputed amounts.
func buildInvoiceItems(invoiceID string, items []dto.InvoiceItemRequest) []domain.InvoiceItem {
	out := make([]domain.InvoiceItem, len(items))
	for i, item := range items {
		out[i] = domain.InvoiceItem{
			InvoiceItemID: uuid.NewString(),
			InvoiceID:     invoiceID,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			TaxAmount:     accounting.Round2(item.TaxAmount),
		}
		out[i].CalculateAmount()
		out[i].Amount = accounting.Round2(out[i].Amount)
	}
	return out
}
