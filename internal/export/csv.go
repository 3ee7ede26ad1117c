package export

import (
	"encoding/csv"
	"io"

	"invogen/internal/domain"
)

// BOM is the UTF-8 byte order mark written before CSV output for Excel
// compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row for line items.
var columns = []string{
	"Invoice ID",
	"Date",
	"Customer Name",
	"Item",
	"Price",
	"GST Amount",
	"Total",
}

// CSVWriter wraps csv.Writer for exporting invoice line items as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes CSV to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteSummary converts an invoice summary to one CSV row per line item and
// writes them. A summary with no items produces no rows.
func (w *CSVWriter) WriteSummary(summary *domain.InvoiceSummary) error {
	for _, item := range summary.Items {
		row := []string{
			summary.InvoiceID,
			summary.Date,
			summary.CustomerName,
			item.Name,
			item.PriceDisplay,
			item.GSTAmountDisplay,
			item.TotalDisplay,
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error reports any error that occurred during a previous write or flush.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}
