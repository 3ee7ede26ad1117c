package render_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invogen/internal/domain"
	"invogen/internal/invoice"
	"invogen/internal/render"
)

func computedSummary(t *testing.T, extracted *domain.ExtractedInvoice, profile *domain.CompanyProfile) domain.InvoiceSummary {
	t.Helper()
	c := invoice.NewComputerWithClock(
		func() time.Time { return time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC) },
		rand.New(rand.NewSource(1)),
	)
	return c.Compute(extracted, profile, nil)
}

func TestRenderer_DefaultTemplate(t *testing.T) {
	r, err := render.NewRenderer("")
	require.NoError(t, err)

	profile := &domain.CompanyProfile{
		Name:           "Acme Traders",
		Email:          "billing@acme.test",
		Phone:          "9876543210",
		Address:        "12 MG Road, Pune",
		GSTRatePercent: 18,
	}
	summary := computedSummary(t, &domain.ExtractedInvoice{
		CustomerName:  "bhagya patel",
		InvoiceNumber: "INV-42",
		GSTRate:       "18",
		Items: []domain.ExtractedItem{
			{Name: "Laptop", Price: "40000"},
			{Name: "Mobile", Price: "3000"},
		},
	}, profile)

	html, err := r.Render(&summary, profile)
	require.NoError(t, err)

	assert.Contains(t, html, "Acme Traders")
	assert.Contains(t, html, "bhagya patel")
	assert.Contains(t, html, "INV-42")
	assert.Contains(t, html, "Laptop")
	assert.Contains(t, html, "40000.00")
	assert.Contains(t, html, "7200.00")
	assert.Contains(t, html, "50740.00")
}

func TestRenderer_ZeroItems(t *testing.T) {
	r, err := render.NewRenderer("")
	require.NoError(t, err)

	profile := &domain.CompanyProfile{Name: "Acme Traders"}
	summary := computedSummary(t, &domain.ExtractedInvoice{}, profile)

	html, err := r.Render(&summary, profile)
	require.NoError(t, err)
	assert.Contains(t, html, "0.00")
}

func TestRenderer_EscapesCustomerInput(t *testing.T) {
	r, err := render.NewRenderer("")
	require.NoError(t, err)

	profile := &domain.CompanyProfile{Name: "Acme Traders"}
	summary := computedSummary(t, &domain.ExtractedInvoice{
		CustomerName: `<script>alert("x")</script>`,
	}, profile)

	html, err := r.Render(&summary, profile)
	require.NoError(t, err)
	assert.NotContains(t, html, `<script>alert`)
}

func TestRenderer_ExecutionFailureReturnsFallback(t *testing.T) {
	r, err := render.NewRendererFromSource(`{{.Summary.NoSuchField}}`)
	require.NoError(t, err)

	profile := &domain.CompanyProfile{Name: "Acme Traders"}
	summary := computedSummary(t, &domain.ExtractedInvoice{}, profile)

	html, err := r.Render(&summary, profile)
	require.Error(t, err)
	assert.Equal(t, render.FallbackDocument(), html)
}

func TestRenderer_MissingTemplateFile(t *testing.T) {
	_, err := render.NewRenderer("/does/not/exist.html")
	assert.Error(t, err)
}
