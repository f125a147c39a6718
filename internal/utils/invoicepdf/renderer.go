// Package invoicepdf renders customer invoices as PDF documents.
package invoicepdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

const dateLayout = "2006-01-02"

// Render produces a single-page A4 PDF for the invoice.
func Render(org *domain.Organization, invoice *domain.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "INVOICE")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 10, invoice.InvoiceNumber, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, org.Name)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 6, "Bill To: "+invoice.CustomerName)
	pdf.CellFormat(0, 6, "Issue Date: "+invoice.IssueDate.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.Cell(100, 6, "")
	pdf.CellFormat(0, 6, "Due Date: "+invoice.DueDate.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Item table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range invoice.Items {
		pdf.CellFormat(90, 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, item.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// Totals
	pdf.Ln(2)
	pdf.CellFormat(145, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, invoice.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(145, 7, "Tax", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, invoice.TotalTax.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(145, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, invoice.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	if invoice.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, "Notes: "+invoice.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}
