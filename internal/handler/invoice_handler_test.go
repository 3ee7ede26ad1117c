package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invogen/internal/domain"
	"invogen/internal/extractor"
	"invogen/internal/handler"
	"invogen/internal/invoice"
	"invogen/internal/service"
)

// MockInvoiceService mocks service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Preview(ctx context.Context, input *service.PreviewInput) (*service.GenerationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationResult), args.Error(1)
}

func (m *MockInvoiceService) Finalize(ctx context.Context, input *service.FinalizeInput) (*service.GenerationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationResult), args.Error(1)
}

func (m *MockInvoiceService) ExportPDF(ctx context.Context, input *service.FinalizeInput) ([]byte, *domain.InvoiceSummary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(*domain.InvoiceSummary), args.Error(2)
}

func (m *MockInvoiceService) ExportXLSX(ctx context.Context, input *service.FinalizeInput) ([]byte, *domain.InvoiceSummary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(*domain.InvoiceSummary), args.Error(2)
}

func (m *MockInvoiceService) ExportCSV(ctx context.Context, input *service.FinalizeInput) ([]byte, *domain.InvoiceSummary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(*domain.InvoiceSummary), args.Error(2)
}

func (m *MockInvoiceService) Email(ctx context.Context, input *service.EmailInput) (*service.GenerationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationResult), args.Error(1)
}

func newInvoiceHandler() (*handler.InvoiceHandler, *MockInvoiceService) {
	mockSvc := new(MockInvoiceService)
	return handler.NewInvoiceHandler(mockSvc), mockSvc
}

func testGenerationResult() *service.GenerationResult {
	summary := domain.InvoiceSummary{
		InvoiceID:    "INV-42",
		CustomerName: "bhagya patel",
		Items: []domain.LineItem{
			{Name: "Laptop", Price: 40000, GSTAmount: 7200, Total: 47200},
		},
		Subtotal: 40000, TotalGST: 7200, GrandTotal: 47200,
	}
	return &service.GenerationResult{
		Extracted: &domain.ExtractedInvoice{CustomerName: "bhagya patel"},
		Summary:   summary,
		HTML:      "<html>invoice</html>",
		Checks:    invoice.CheckSummary(&summary),
	}
}

func sessionParams(id uuid.UUID) gin.Params {
	return gin.Params{{Key: "id", Value: id.String()}}
}

func TestInvoiceHandler_Preview_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Preview", mock.Anything, mock.MatchedBy(func(input *service.PreviewInput) bool {
		return input.SessionID == id && input.RawText == "bhagya patel buy laptop 40000"
	})).Return(testGenerationResult(), nil)

	w := postJSON(t, h.Preview, "/api/v1/sessions/"+id.String()+"/invoices/preview",
		sessionParams(id), map[string]string{"raw_text": "bhagya patel buy laptop 40000"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.NotNil(t, data["extracted"])
	assert.Equal(t, true, data["checks_passed"])
	assert.Contains(t, data["html"], "invoice")
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Preview_BlankText(t *testing.T) {
	h, _ := newInvoiceHandler()

	id := uuid.New()
	w := postJSON(t, h.Preview, "/api/v1/sessions/"+id.String()+"/invoices/preview",
		sessionParams(id), map[string]string{"raw_text": "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_Preview_ExtractionNoJSON(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Preview", mock.Anything, mock.Anything).Return(nil, extractor.ErrNoJSONFound)

	w := postJSON(t, h.Preview, "/api/v1/sessions/"+id.String()+"/invoices/preview",
		sessionParams(id), map[string]string{"raw_text": "x"})

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EXTRACTION_NO_JSON", resp.Error.Code)
}

func TestInvoiceHandler_Preview_RateLimited(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Preview", mock.Anything, mock.Anything).
		Return(nil, extractor.NewRateLimitError("gemini", errors.New("429"), 30))

	w := postJSON(t, h.Preview, "/api/v1/sessions/"+id.String()+"/invoices/preview",
		sessionParams(id), map[string]string{"raw_text": "x"})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestInvoiceHandler_Finalize_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Finalize", mock.Anything, mock.MatchedBy(func(input *service.FinalizeInput) bool {
		return input.SessionID == id && input.PriceOverrides[0] == 35000
	})).Return(testGenerationResult(), nil)

	w := postJSON(t, h.Finalize, "/api/v1/sessions/"+id.String()+"/invoices",
		sessionParams(id), map[string]interface{}{
			"extracted": map[string]interface{}{
				"customer_name": "bhagya patel",
				"items":         []map[string]interface{}{{"name": "Laptop", "price": 40000}},
			},
			"price_overrides": map[string]float64{"0": 35000},
		})

	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	// Finalize responses omit the echoed extraction
	assert.Nil(t, data["extracted"])
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Finalize_SessionNotFound(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Finalize", mock.Anything, mock.Anything).Return(nil, domain.ErrSessionNotFound)

	w := postJSON(t, h.Finalize, "/api/v1/sessions/"+id.String()+"/invoices",
		sessionParams(id), map[string]interface{}{"extracted": map[string]interface{}{}})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoiceHandler_ExportPDF_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	summary := &domain.InvoiceSummary{InvoiceID: "INV-42"}
	mockSvc.On("ExportPDF", mock.Anything, mock.Anything).Return([]byte("%PDF-1.4 fake"), summary, nil)

	w := postJSON(t, h.ExportPDF, "/api/v1/sessions/"+id.String()+"/invoices/pdf",
		sessionParams(id), map[string]interface{}{"extracted": map[string]interface{}{}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice-INV-42.pdf")
	assert.Equal(t, "%PDF-1.4 fake", w.Body.String())
}

func TestInvoiceHandler_ExportCSV_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	summary := &domain.InvoiceSummary{InvoiceID: "101"}
	mockSvc.On("ExportCSV", mock.Anything, mock.Anything).Return([]byte("Invoice ID,Item\n"), summary, nil)

	w := postJSON(t, h.ExportCSV, "/api/v1/sessions/"+id.String()+"/invoices/csv",
		sessionParams(id), map[string]interface{}{"extracted": map[string]interface{}{}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice-101.csv")
}

func TestInvoiceHandler_Email_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Email", mock.Anything, mock.MatchedBy(func(input *service.EmailInput) bool {
		return input.ToAddress == "customer@example.com"
	})).Return(testGenerationResult(), nil)

	w := postJSON(t, h.Email, "/api/v1/sessions/"+id.String()+"/invoices/email",
		sessionParams(id), map[string]interface{}{
			"extracted":  map[string]interface{}{},
			"to_address": "customer@example.com",
		})

	require.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Email_MissingAddress(t *testing.T) {
	h, _ := newInvoiceHandler()

	id := uuid.New()
	w := postJSON(t, h.Email, "/api/v1/sessions/"+id.String()+"/invoices/email",
		sessionParams(id), map[string]interface{}{"extracted": map[string]interface{}{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_Email_NotConfigured(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Email", mock.Anything, mock.Anything).Return(nil, domain.ErrEmailUnavailable)

	w := postJSON(t, h.Email, "/api/v1/sessions/"+id.String()+"/invoices/email",
		sessionParams(id), map[string]interface{}{
			"extracted":  map[string]interface{}{},
			"to_address": "customer@example.com",
		})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
