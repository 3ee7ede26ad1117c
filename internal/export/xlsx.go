package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"invogen/internal/domain"
)

const sheetName = "Invoice"

// WriteXLSX renders the invoice summary as a single-sheet Excel workbook.
func WriteXLSX(summary *domain.InvoiceSummary, company *domain.CompanyProfile) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	rows := [][]interface{}{
		{company.Name},
		{fmt.Sprintf("%s | %s", company.Email, company.Phone)},
		{},
		{"Invoice", summary.InvoiceID},
		{"Date", summary.Date},
		{"Customer", summary.CustomerName},
		{"Address", summary.Address},
		{"Mobile", summary.Mobile},
		{"GSTIN", summary.GSTNumber},
		{"GST Rate", summary.GSTRateDisplay},
		{},
		{"Item", "Price", "GST", "Total"},
	}
	for _, item := range summary.Items {
		rows = append(rows, []interface{}{item.Name, item.PriceDisplay, item.GSTAmountDisplay, item.TotalDisplay})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Subtotal", summary.SubtotalDisplay},
		[]interface{}{"Total GST", summary.TotalGSTDisplay},
		[]interface{}{"Grand Total", summary.GrandTotalDisplay},
	)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("computing cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing invoice workbook: %w", err)
	}
	return buf.Bytes(), nil
}
