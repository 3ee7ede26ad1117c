package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"invogen/internal/domain"
	"invogen/internal/export"
	"invogen/internal/invoice"
	"invogen/internal/port"
	"invogen/internal/render"
	"invogen/internal/session"
)

// PreviewInput is the DTO for the extraction phase of invoice generation.
type PreviewInput struct {
	SessionID uuid.UUID
	RawText   string
}

// FinalizeInput is the DTO for the finalization phase: the extracted record
// from a preview plus the user's price corrections.
type FinalizeInput struct {
	SessionID      uuid.UUID
	Extracted      domain.ExtractedInvoice
	PriceOverrides map[int]float64
}

// EmailInput is the DTO for rendering and emailing an invoice.
type EmailInput struct {
	FinalizeInput
	ToAddress string
}

// GenerationResult carries one computed and rendered invoice.
type GenerationResult struct {
	Extracted *domain.ExtractedInvoice
	Summary   domain.InvoiceSummary
	HTML      string
	Checks    []invoice.CheckResult
	// RenderFailed is set when the template could not be executed; HTML then
	// holds the minimal fallback document.
	RenderFailed bool
}

// InvoiceService orchestrates the extract-compute-render pipeline.
type InvoiceService interface {
	Preview(ctx context.Context, input *PreviewInput) (*GenerationResult, error)
	Finalize(ctx context.Context, input *FinalizeInput) (*GenerationResult, error)
	ExportPDF(ctx context.Context, input *FinalizeInput) ([]byte, *domain.InvoiceSummary, error)
	ExportXLSX(ctx context.Context, input *FinalizeInput) ([]byte, *domain.InvoiceSummary, error)
	ExportCSV(ctx context.Context, input *FinalizeInput) ([]byte, *domain.InvoiceSummary, error)
	Email(ctx context.Context, input *EmailInput) (*GenerationResult, error)
}

type invoiceService struct {
	store     *session.Store
	extractor port.Extractor
	computer  *invoice.Computer
	renderer  *render.Renderer
	sender    port.EmailSender
}

// NewInvoiceService creates an InvoiceService.
func NewInvoiceService(store *session.Store, ext port.Extractor, computer *invoice.Computer, renderer *render.Renderer, sender port.EmailSender) InvoiceService {
	return &invoiceService{
		store:     store,
		extractor: ext,
		computer:  computer,
		renderer:  renderer,
		sender:    sender,
	}
}

// Preview runs extraction against the raw text and computes a naive summary
// with no price overrides. The caller corrects prices against the returned
// extracted record and finalizes in a second request.
func (s *invoiceService) Preview(ctx context.Context, input *PreviewInput) (*GenerationResult, error) {
	sess, err := s.store.Get(input.SessionID)
	if err != nil {
		return nil, err
	}

	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		RawText:        input.RawText,
		TaxRatePercent: sess.Profile.GSTRatePercent,
	})
	if err != nil {
		return nil, err
	}

	result := s.generate(out.Invoice, &sess.Profile, nil)
	log.Printf("invoiceService.Preview: session %s extracted %d items (model %s)",
		input.SessionID, len(out.Invoice.Items), out.ModelUsed)
	return result, nil
}

// Finalize computes and renders the invoice from a previously extracted
// record, applying the user's price overrides.
func (s *invoiceService) Finalize(ctx context.Context, input *FinalizeInput) (*GenerationResult, error) {
	sess, err := s.store.Get(input.SessionID)
	if err != nil {
		return nil, err
	}
	return s.generate(&input.Extracted, &sess.Profile, input.PriceOverrides), nil
}

func (s *invoiceService) ExportPDF(ctx context.Context, input *FinalizeInput) ([]byte, *domain.InvoiceSummary, error) {
	sess, err := s.store.Get(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	summary := s.computer.Compute(&input.Extracted, &sess.Profile, input.PriceOverrides)
	data, err := export.WritePDF(&summary, &sess.Profile)
	if err != nil {
		return nil, nil, err
	}
	return data, &summary, nil
}

func (s *invoiceService) ExportXLSX(ctx context.Context, input *FinalizeInput) ([]byte, *domain.InvoiceSummary, error) {
	sess, err := s.store.Get(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	summary := s.computer.Compute(&input.Extracted, &sess.Profile, input.PriceOverrides)
	data, err := export.WriteXLSX(&summary, &sess.Profile)
	if err != nil {
		return nil, nil, err
	}
	return data, &summary, nil
}

func (s *invoiceService) ExportCSV(ctx context.Context, input *FinalizeInput) ([]byte, *domain.InvoiceSummary, error) {
	sess, err := s.store.Get(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	summary := s.computer.Compute(&input.Extracted, &sess.Profile, input.PriceOverrides)

	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewCSVWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, nil, err
	}
	if err := w.WriteSummary(&summary); err != nil {
		return nil, nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), &summary, nil
}

// Email renders the invoice and sends it to the given address.
func (s *invoiceService) Email(ctx context.Context, input *EmailInput) (*GenerationResult, error) {
	if s.sender == nil {
		return nil, domain.ErrEmailUnavailable
	}
	sess, err := s.store.Get(input.SessionID)
	if err != nil {
		return nil, err
	}

	result := s.generate(&input.Extracted, &sess.Profile, input.PriceOverrides)
	if result.RenderFailed {
		return nil, fmt.Errorf("invoice could not be rendered for email delivery")
	}

	err = s.sender.SendInvoice(ctx, port.InvoiceEmail{
		ToAddress: input.ToAddress,
		ToName:    result.Summary.CustomerName,
		InvoiceID: result.Summary.InvoiceID,
		HTMLBody:  result.HTML,
		TextBody: fmt.Sprintf("Invoice %s from %s\nDate: %s\nGrand Total: %s",
			result.Summary.InvoiceID, sess.Profile.Name, result.Summary.Date, result.Summary.GrandTotalDisplay),
	})
	if err != nil {
		return nil, fmt.Errorf("sending invoice email: %w", err)
	}
	return result, nil
}

// generate is the compute+render tail shared by all operations. A rendering
// failure is reported in the result rather than returned: the flow yields the
// fallback document instead of aborting.
func (s *invoiceService) generate(extracted *domain.ExtractedInvoice, profile *domain.CompanyProfile, overrides map[int]float64) *GenerationResult {
	summary := s.computer.Compute(extracted, profile, overrides)

	html, err := s.renderer.Render(&summary, profile)
	renderFailed := err != nil
	if renderFailed {
		log.Printf("invoiceService: rendering invoice %s failed: %v", summary.InvoiceID, err)
	}

	return &GenerationResult{
		Extracted:    extracted,
		Summary:      summary,
		HTML:         html,
		Checks:       invoice.CheckSummary(&summary),
		RenderFailed: renderFailed,
	}
}
