package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"invogen/internal/domain"
	"invogen/internal/extractor"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain and extraction errors to HTTP status codes
// and error codes. Every failure surfaces as a visible message; nothing is
// silently dropped.
func MapDomainError(err error) (status int, code, msg string) {
	var rlErr *extractor.RateLimitError
	var svcErr *extractor.ServiceError

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "session not found; create a session first"
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusGone, "SESSION_EXPIRED", "session expired; create a new session"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "logo storage is not configured"
	case errors.Is(err, domain.ErrEmailUnavailable):
		return http.StatusServiceUnavailable, "EMAIL_UNAVAILABLE", "email delivery is not configured"
	case errors.Is(err, domain.ErrUnsupportedLogo):
		return http.StatusBadRequest, "UNSUPPORTED_LOGO_TYPE", "unsupported logo file type; allowed: png, jpg, svg"
	case errors.Is(err, domain.ErrLogoTooLarge):
		return http.StatusRequestEntityTooLarge, "LOGO_TOO_LARGE", "logo exceeds maximum allowed size"
	case errors.Is(err, extractor.ErrNoJSONFound):
		return http.StatusBadGateway, "EXTRACTION_NO_JSON", "extraction service returned no JSON object; retry with edited text"
	case errors.Is(err, extractor.ErrInvalidJSON):
		return http.StatusBadGateway, "EXTRACTION_INVALID_JSON", "extraction service returned malformed JSON; retry with edited text"
	case errors.As(err, &rlErr):
		return http.StatusTooManyRequests, "EXTRACTION_RATE_LIMITED", "extraction service is rate limited; retry shortly"
	case errors.As(err, &svcErr):
		return http.StatusBadGateway, "EXTRACTION_FAILED", "extraction service is unavailable; retry shortly"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	RespondError(c, status, code, msg)
}
