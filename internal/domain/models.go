package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceIDRange is the inclusive range used when drawing a random invoice number.
type InvoiceIDRange struct {
	Lower int64 `json:"lower"`
	Upper int64 `json:"upper"`
}

// CompanyProfile holds the issuing company's identity and billing defaults.
// It is set once when a session is created and never mutated afterwards.
type CompanyProfile struct {
	Name           string         `json:"name"`
	LogoURL        string         `json:"logo_url"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	GSTRatePercent float64        `json:"gst_rate_percent"`
	InvoiceRange   InvoiceIDRange `json:"invoice_range"`
}

// Session scopes a company profile to one interactive billing session.
// LogoKey is the object-storage key of the session's uploaded logo, kept so
// the object can be removed when the session is torn down.
type Session struct {
	ID        uuid.UUID      `json:"id"`
	Profile   CompanyProfile `json:"profile"`
	LogoKey   string         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// ExtractedItem is a single item as returned by the LLM. The price arrives as
// free-form JSON (string or number) and is untrusted.
type ExtractedItem struct {
	Name  string     `json:"name"`
	Price FlexString `json:"price"`
}

// ExtractedInvoice is the best-effort structured record produced by the field
// extractor. Every field is optional: the model may omit, misformat, or
// hallucinate any of them, so nothing here is used without an explicit default.
type ExtractedInvoice struct {
	Date          string          `json:"date"`
	CustomerName  string          `json:"customer_name"`
	Items         []ExtractedItem `json:"items"`
	Mobile        string          `json:"mobile"`
	Address       string          `json:"address"`
	InvoiceNumber string          `json:"invoice_number"`
	GSTNumber     string          `json:"gst_number"`
	GSTRate       FlexString      `json:"gst_rate"`
}

// LineItem is a computed invoice line. Numeric values keep full float64
// precision; the display strings are fixed to two decimals.
type LineItem struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	GSTAmount float64 `json:"gst_amount"`
	Total     float64 `json:"total"`

	PriceDisplay     string `json:"price_display"`
	GSTAmountDisplay string `json:"gst_amount_display"`
	TotalDisplay     string `json:"total_display"`
}

// InvoiceSummary is the finalized invoice handed to the renderer and exporters.
// Totals are sums of the unrounded per-item values, formatted to two decimals
// only for display.
type InvoiceSummary struct {
	InvoiceID    string     `json:"invoice_id"`
	Date         string     `json:"date"`
	CustomerName string     `json:"customer_name"`
	Address      string     `json:"address"`
	Mobile       string     `json:"mobile"`
	GSTNumber    string     `json:"gst_number"`
	Items        []LineItem `json:"items"`

	Subtotal   float64 `json:"subtotal"`
	TotalGST   float64 `json:"total_gst"`
	GrandTotal float64 `json:"grand_total"`

	SubtotalDisplay   string `json:"subtotal_display"`
	TotalGSTDisplay   string `json:"total_gst_display"`
	GrandTotalDisplay string `json:"grand_total_display"`

	GSTRatePercent float64 `json:"gst_rate_percent"`
	GSTRateDisplay string  `json:"gst_rate_display"` // "%"-suffixed, e.g. "18%"
}
