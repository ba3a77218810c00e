package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wahajaslm/tarco/internal/domain"
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

// RespondAccepted sends a 202 success response.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest, "INVALID_CODE", "commodity code must be 4-10 digits"
	case errors.Is(err, domain.ErrInvalidCountry):
		return http.StatusBadRequest, "INVALID_COUNTRY", "country code must be 2-3 letters"
	case errors.Is(err, domain.ErrMissingDescription):
		return http.StatusBadRequest, "MISSING_DESCRIPTION", "product description is required"
	case errors.Is(err, domain.ErrInvalidOption):
		return http.StatusBadRequest, "INVALID_OPTION", "selected clarification option is invalid"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "clarification session not found or already answered"
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusGone, "SESSION_EXPIRED", "clarification session expired"
	case errors.Is(err, domain.ErrSchemaViolation):
		return http.StatusUnprocessableEntity, "SCHEMA_VIOLATION", "payload failed structural validation"
	case errors.Is(err, domain.ErrReferenceStoreUnavailable):
		return http.StatusServiceUnavailable, "REFERENCE_STORE_UNAVAILABLE", "reference store unreachable"
	case errors.Is(err, domain.ErrRerankUnavailable):
		return http.StatusServiceUnavailable, "RERANKER_UNAVAILABLE", "reranking service unreachable"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
