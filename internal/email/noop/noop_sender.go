package noop

import (
	"context"
	"log"

	"invogen/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs deliveries to stdout.
// Used in development when no email provider is configured.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendInvoice(_ context.Context, email port.InvoiceEmail) error {
	log.Printf("[NOOP EMAIL] Invoice %s for %s (%s), %d bytes of HTML",
		email.InvoiceID, email.ToName, email.ToAddress, len(email.HTMLBody))
	return nil
}
