package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invogen/internal/extractor"
)

func TestScrapeInvoiceJSON_BareObject(t *testing.T) {
	inv, err := extractor.ScrapeInvoiceJSON(`{"customer_name":"bhagya patel","items":[{"name":"Laptop","price":"40000"}]}`)

	require.NoError(t, err)
	assert.Equal(t, "bhagya patel", inv.CustomerName)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Laptop", inv.Items[0].Name)
	assert.Equal(t, "40000", inv.Items[0].Price.String())
}

func TestScrapeInvoiceJSON_ProseWrapped(t *testing.T) {
	inv, err := extractor.ScrapeInvoiceJSON(`Here is the result: {"customer_name": "A", "items": []} done`)

	require.NoError(t, err)
	assert.Equal(t, "A", inv.CustomerName)
	assert.Empty(t, inv.Items)
}

func TestScrapeInvoiceJSON_CodeFenced(t *testing.T) {
	response := "```json\n{\"customer_name\": \"B\", \"gst_rate\": \"18%\"}\n```"

	inv, err := extractor.ScrapeInvoiceJSON(response)

	require.NoError(t, err)
	assert.Equal(t, "B", inv.CustomerName)
	assert.Equal(t, "18%", inv.GSTRate.String())
}

func TestScrapeInvoiceJSON_NumericPrice(t *testing.T) {
	inv, err := extractor.ScrapeInvoiceJSON(`{"items":[{"name":"Mobile","price":3000}]}`)

	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "3000", inv.Items[0].Price.String())
}

func TestScrapeInvoiceJSON_NoBraces(t *testing.T) {
	_, err := extractor.ScrapeInvoiceJSON("I could not extract any invoice fields.")

	assert.ErrorIs(t, err, extractor.ErrNoJSONFound)
}

func TestScrapeInvoiceJSON_ClosingBraceBeforeOpening(t *testing.T) {
	_, err := extractor.ScrapeInvoiceJSON("} nothing useful {")

	assert.ErrorIs(t, err, extractor.ErrNoJSONFound)
}

func TestScrapeInvoiceJSON_MalformedJSON(t *testing.T) {
	_, err := extractor.ScrapeInvoiceJSON(`{bad json}`)

	assert.ErrorIs(t, err, extractor.ErrInvalidJSON)
}

func TestScrapeInvoiceJSON_EmptyString(t *testing.T) {
	_, err := extractor.ScrapeInvoiceJSON("")

	assert.ErrorIs(t, err, extractor.ErrNoJSONFound)
}
