package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"invogen/internal/domain"
)

//go:embed template.html
var defaultTemplate string

// fallbackDocument is served when the template cannot be loaded or executed,
// so a rendering failure never aborts the generation flow.
const fallbackDocument = "<p>Error generating invoice</p>"

// TemplateData is what the invoice template is executed against. All numeric
// fields arrive pre-formatted as strings; the renderer does no arithmetic.
type TemplateData struct {
	Company *domain.CompanyProfile
	Summary *domain.InvoiceSummary
}

// Renderer binds a computed invoice summary into an HTML template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer loads the invoice template from path, or the embedded default
// template when path is empty.
func NewRenderer(path string) (*Renderer, error) {
	src := defaultTemplate
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading invoice template: %w", err)
		}
		src = string(b)
	}

	tmpl, err := template.New("invoice").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing invoice template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// NewRendererFromSource parses a template from an in-memory source (for testing).
func NewRendererFromSource(src string) (*Renderer, error) {
	tmpl, err := template.New("invoice").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing invoice template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template against the summary and company profile.
// On failure it returns the minimal fallback document together with the error;
// callers report the failure but still have a displayable document.
func (r *Renderer) Render(summary *domain.InvoiceSummary, company *domain.CompanyProfile) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, TemplateData{Company: company, Summary: summary}); err != nil {
		return fallbackDocument, fmt.Errorf("executing invoice template: %w", err)
	}
	return buf.String(), nil
}

// FallbackDocument returns the minimal error document used when rendering fails.
func FallbackDocument() string {
	return fallbackDocument
}
