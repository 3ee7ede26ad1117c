package extractor

import "fmt"

// BuildExtractionPrompt returns the instruction sent to the LLM for a single
// raw-text extraction request. The configured tax rate is embedded so the
// returned gst_rate matches the caller's rate rather than one inferred from
// the text.
func BuildExtractionPrompt(rawText string, taxRatePercent float64) string {
	rate := fmt.Sprintf("%g", taxRatePercent)
	return fmt.Sprintf(`You are an invoice data extraction assistant. Extract invoice details from the following customer text.

Return ONLY a valid JSON object with no markdown formatting, no code fences, no explanation. The object must have exactly these keys:
{
  "date": "DD/MM/YYYY",
  "customer_name": "",
  "items": [{"name": "", "price": 0}],
  "mobile": "",
  "address": "",
  "invoice_number": "",
  "gst_number": "",
  "gst_rate": %s
}

Rules:
- The text is free-form; items, prices, and contact details may appear in any order, with or without spaces.
- Extract every purchased item with its price into the "items" array.
- gst_rate must be exactly %s regardless of any rate mentioned in the text.
- Use "-" for any field not present in the text.

Text: %s`, rate, rate, rawText)
}
