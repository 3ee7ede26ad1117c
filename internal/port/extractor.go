package port

import (
	"context"

	"invogen/internal/domain"
)

// ExtractInput carries the data needed for field extraction.
type ExtractInput struct {
	RawText        string
	TaxRatePercent float64
}

// ExtractOutput contains the structured record scraped from an LLM response.
type ExtractOutput struct {
	Invoice    *domain.ExtractedInvoice
	ModelUsed  string
	PromptUsed string
}

// Extractor abstracts LLM-based invoice field extraction.
type Extractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
