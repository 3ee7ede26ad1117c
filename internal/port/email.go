package port

import "context"

// InvoiceEmail carries a rendered invoice for delivery.
type InvoiceEmail struct {
	ToAddress string
	ToName    string
	InvoiceID string
	HTMLBody  string
	TextBody  string
}

// EmailSender defines the contract for sending invoice emails.
type EmailSender interface {
	SendInvoice(ctx context.Context, email InvoiceEmail) error
}
