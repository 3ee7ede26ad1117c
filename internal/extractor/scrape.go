package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"invogen/internal/domain"
)

// ScrapeInvoiceJSON locates the JSON object embedded in free-text LLM output
// and parses it as an extracted invoice. The object is taken as the substring
// from the first '{' to the last '}' in the response; models routinely wrap
// their JSON in prose or code fences, so nothing outside the braces is
// consulted.
func ScrapeInvoiceJSON(response string) (*domain.ExtractedInvoice, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSONFound
	}

	raw := response[start : end+1]

	var inv domain.ExtractedInvoice
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)", ErrInvalidJSON, err, truncate(raw, 500))
	}
	return &inv, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
