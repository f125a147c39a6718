package mapping

import (
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/models"
)

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:     d.CustomerID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:     m.CustomerID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCustomerSlice converts model Customers to domain Customers
func ToDomainCustomerSlice(ms []models.Customer) []domain.Customer {
	ds := make([]domain.Customer, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCustomer(m)
	}
	return ds
}

// ToModelInvoice converts a domain Invoice to a model Invoice.
// Items are mapped separately.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:      d.InvoiceID,
		OrganizationID: d.OrganizationID,
		CustomerID:     d.CustomerID,
		CustomerName:   d.CustomerName,
		InvoiceNumber:  d.InvoiceNumber,
		IssueDate:      d.IssueDate,
		DueDate:        d.DueDate,
		Status:         string(d.Status),
		Notes:          d.Notes,
		Subtotal:       d.Subtotal,
		TotalTax:       d.TotalTax,
		TotalAmount:    d.TotalAmount,
		TransactionID:  d.TransactionID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		OrganizationID: m.OrganizationID,
		CustomerID:     m.CustomerID,
		CustomerName:   m.CustomerName,
		InvoiceNumber:  m.InvoiceNumber,
		IssueDate:      m.IssueDate,
		DueDate:        m.DueDate,
		Status:         domain.InvoiceStatus(m.Status),
		Notes:          m.Notes,
		Subtotal:       m.Subtotal,
		TotalTax:       m.TotalTax,
		TotalAmount:    m.TotalAmount,
		TransactionID:  m.TransactionID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceSlice converts model Invoices to domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoice(m)
	}
	return ds
}

// ToModelInvoiceItem converts a domain InvoiceItem to a model InvoiceItem
func ToModelInvoiceItem(d domain.InvoiceItem) models.InvoiceItem {
	return models.InvoiceItem{
		InvoiceItemID: d.InvoiceItemID,
		InvoiceID:     d.InvoiceID,
		Description:   d.Description,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		Amount:        d.Amount,
		TaxAmount:     d.TaxAmount,
	}
}

// ToDomainInvoiceItem converts a model InvoiceItem to a domain InvoiceItem
func ToDomainInvoiceItem(m models.InvoiceItem) domain.InvoiceItem {
	return domain.InvoiceItem{
		InvoiceItemID: m.InvoiceItemID,
		InvoiceID:     m.InvoiceID,
		Description:   m.Description,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Amount:        m.Amount,
		TaxAmount:     m.TaxAmount,
	}
}

// ToDomainInvoiceItemSlice converts model InvoiceItems to domain InvoiceItems
func ToDomainInvoiceItemSlice(ms []models.InvoiceItem) []domain.InvoiceItem {
	ds := make([]domain.InvoiceItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceItem(m)
	}
	return ds
}
