package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"invogen/internal/domain"
)

// WritePDF renders the invoice summary as an A4 PDF document.
func WritePDF(summary *domain.InvoiceSummary, company *domain.CompanyProfile) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, company.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("%s | %s", company.Email, company.Phone), "", 1, "C", false, 0, "")
	if company.Address != "" {
		pdf.CellFormat(190, 6, company.Address, "", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Invoice Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Invoice %s", summary.InvoiceID), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", summary.Date), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("GST Rate: %s", summary.GSTRateDisplay), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", summary.CustomerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Mobile: %s", summary.Mobile), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Address: %s", summary.Address), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("GSTIN: %s", summary.GSTNumber), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Line items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(85, 7, "Item", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "GST", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range summary.Items {
		pdf.CellFormat(85, 7, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, item.PriceDisplay, "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, item.GSTAmountDisplay, "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, item.TotalDisplay, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(120, 7, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, summary.SubtotalDisplay, "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 7, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("GST (%s)", summary.GSTRateDisplay), "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, summary.TotalGSTDisplay, "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, "Grand Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, summary.GrandTotalDisplay, "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}
