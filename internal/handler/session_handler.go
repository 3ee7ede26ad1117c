package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invogen/internal/service"
)

// SessionHandler handles billing session endpoints.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSessionRequest represents the session creation request body.
type CreateSessionRequest struct {
	Name           string   `json:"name" binding:"required" example:"ABC Pvt Ltd"`
	LogoURL        string   `json:"logo_url" example:"https://example.com/logo.png"`
	Email          string   `json:"email" binding:"required" example:"contact@abc.com"`
	Phone          string   `json:"phone" binding:"required" example:"+91 9999999999"`
	Address        string   `json:"address" example:"123, Tech Park, India"`
	GSTRatePercent *float64 `json:"gst_rate_percent" example:"18"`
	RangeLower     *int64   `json:"range_lower" example:"100"`
	RangeUpper     *int64   `json:"range_upper" example:"500"`
}

// Create handles POST /api/v1/sessions
// @Summary Start a billing session
// @Description Register the issuing company's profile for an interactive billing session
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Company profile"
// @Success 201 {object} APIResponse "Session created"
// @Failure 400 {object} APIResponse "Missing or invalid fields"
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name, email, and phone are required")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Phone) == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name, email, and phone must not be blank")
		return
	}
	if req.GSTRatePercent != nil && *req.GSTRatePercent < 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_GST_RATE", "gst_rate_percent must be non-negative")
		return
	}
	if (req.RangeLower != nil && *req.RangeLower < 0) || (req.RangeUpper != nil && *req.RangeUpper < 0) {
		RespondError(c, http.StatusBadRequest, "INVALID_RANGE", "invoice number range bounds must be non-negative")
		return
	}

	sess, err := h.sessionService.Create(c.Request.Context(), &service.CreateSessionInput{
		Name:           req.Name,
		LogoURL:        req.LogoURL,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		GSTRatePercent: req.GSTRatePercent,
		RangeLower:     req.RangeLower,
		RangeUpper:     req.RangeUpper,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, sess)
}

// GetByID handles GET /api/v1/sessions/:id
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse "Session"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetByID(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	sess, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sess)
}

// Delete handles DELETE /api/v1/sessions/:id
// @Summary End a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse "Session deleted"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

// UploadLogo handles POST /api/v1/sessions/:id/logo
// @Summary Upload a company logo
// @Description Upload a logo image (PNG, JPG, or SVG) and receive a URL for the company profile
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Logo image"
// @Success 200 {object} APIResponse "Logo URL"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 503 {object} APIResponse "Logo storage not configured"
// @Router /sessions/{id}/logo [post]
func (h *SessionHandler) UploadLogo(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.sessionService.UploadLogo(c.Request.Context(), &service.LogoUploadInput{
		SessionID: id,
		File:      file,
		Header:    header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"logo_url": url})
}

// parseSessionID extracts and validates the :id path parameter.
// Returns false if invalid (error response already written).
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "session id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
