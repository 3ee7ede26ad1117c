package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invogen/internal/domain"
	"invogen/internal/invoice"
	"invogen/internal/service"
)

// InvoiceHandler handles invoice generation endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// PreviewRequest represents the extraction-phase request body.
type PreviewRequest struct {
	RawText string `json:"raw_text" binding:"required" example:"bhagya patel buy laptop and mobile 40000 and 3000"`
}

// FinalizeRequest represents the finalization-phase request body: the
// extracted record returned by preview plus any price corrections keyed by
// item index.
type FinalizeRequest struct {
	Extracted      domain.ExtractedInvoice `json:"extracted"`
	PriceOverrides map[int]float64         `json:"price_overrides"`
}

// EmailRequest represents the email delivery request body.
type EmailRequest struct {
	FinalizeRequest
	ToAddress string `json:"to_address" binding:"required" example:"customer@example.com"`
}

// generationResponse is the envelope payload for preview and finalize.
type generationResponse struct {
	Extracted    *domain.ExtractedInvoice `json:"extracted,omitempty"`
	Summary      domain.InvoiceSummary    `json:"summary"`
	HTML         string                   `json:"html"`
	Checks       []invoice.CheckResult    `json:"checks"`
	ChecksPassed bool                     `json:"checks_passed"`
	RenderError  bool                     `json:"render_error,omitempty"`
}

// Preview handles POST /api/v1/sessions/:id/invoices/preview
// @Summary Extract invoice fields from raw text
// @Description Run LLM extraction on free-form customer text and compute a naive summary with no price corrections
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body PreviewRequest true "Raw customer text"
// @Success 200 {object} APIResponse "Extracted record, summary, and rendered HTML"
// @Failure 400 {object} APIResponse "Missing raw text"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 502 {object} APIResponse "Extraction failed"
// @Router /sessions/{id}/invoices/preview [post]
func (h *InvoiceHandler) Preview(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.RawText) == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "raw_text is required")
		return
	}

	result, err := h.invoiceService.Preview(c.Request.Context(), &service.PreviewInput{
		SessionID: id,
		RawText:   req.RawText,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	respondGeneration(c, result, true)
}

// Finalize handles POST /api/v1/sessions/:id/invoices
// @Summary Finalize an invoice
// @Description Compute totals from an extracted record with price corrections applied, and render the invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body FinalizeRequest true "Extracted record and price overrides"
// @Success 200 {object} APIResponse "Finalized summary and rendered HTML"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id}/invoices [post]
func (h *InvoiceHandler) Finalize(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	input, ok := bindFinalize(c, id)
	if !ok {
		return
	}

	result, err := h.invoiceService.Finalize(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	respondGeneration(c, result, false)
}

// ExportPDF handles POST /api/v1/sessions/:id/invoices/pdf
// @Summary Export an invoice as PDF
// @Tags invoices
// @Accept json
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Param request body FinalizeRequest true "Extracted record and price overrides"
// @Success 200 {file} binary "PDF document"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id}/invoices/pdf [post]
func (h *InvoiceHandler) ExportPDF(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	input, ok := bindFinalize(c, id)
	if !ok {
		return
	}

	data, summary, err := h.invoiceService.ExportPDF(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, summary.InvoiceID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportXLSX handles POST /api/v1/sessions/:id/invoices/xlsx
// @Summary Export an invoice as an Excel workbook
// @Tags invoices
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Param request body FinalizeRequest true "Extracted record and price overrides"
// @Success 200 {file} binary "XLSX workbook"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id}/invoices/xlsx [post]
func (h *InvoiceHandler) ExportXLSX(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	input, ok := bindFinalize(c, id)
	if !ok {
		return
	}

	data, summary, err := h.invoiceService.ExportXLSX(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%s.xlsx"`, summary.InvoiceID))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportCSV handles POST /api/v1/sessions/:id/invoices/csv
// @Summary Export invoice line items as CSV
// @Tags invoices
// @Accept json
// @Produce text/csv
// @Param id path string true "Session ID"
// @Param request body FinalizeRequest true "Extracted record and price overrides"
// @Success 200 {file} binary "CSV file"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id}/invoices/csv [post]
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	input, ok := bindFinalize(c, id)
	if !ok {
		return
	}

	data, summary, err := h.invoiceService.ExportCSV(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%s.csv"`, summary.InvoiceID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Email handles POST /api/v1/sessions/:id/invoices/email
// @Summary Email a rendered invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body EmailRequest true "Extracted record, price overrides, and recipient"
// @Success 200 {object} APIResponse "Invoice sent"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 503 {object} APIResponse "Email delivery not configured"
// @Router /sessions/{id}/invoices/email [post]
func (h *InvoiceHandler) Email(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ToAddress) == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "extracted record and to_address are required")
		return
	}

	result, err := h.invoiceService.Email(c.Request.Context(), &service.EmailInput{
		FinalizeInput: service.FinalizeInput{
			SessionID:      id,
			Extracted:      req.Extracted,
			PriceOverrides: req.PriceOverrides,
		},
		ToAddress: req.ToAddress,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"sent": true, "invoice_id": result.Summary.InvoiceID})
}

func bindFinalize(c *gin.Context, id uuid.UUID) (*service.FinalizeInput, bool) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "extracted record is required")
		return nil, false
	}

	return &service.FinalizeInput{
		SessionID:      id,
		Extracted:      req.Extracted,
		PriceOverrides: req.PriceOverrides,
	}, true
}

func respondGeneration(c *gin.Context, result *service.GenerationResult, includeExtracted bool) {
	resp := generationResponse{
		Summary:      result.Summary,
		HTML:         result.HTML,
		Checks:       result.Checks,
		ChecksPassed: invoice.AllPassed(result.Checks),
		RenderError:  result.RenderFailed,
	}
	if includeExtracted {
		resp.Extracted = result.Extracted
	}
	RespondOK(c, resp)
}
