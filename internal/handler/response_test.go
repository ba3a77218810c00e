package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wahajaslm/tarco/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidCode, http.StatusBadRequest, "INVALID_CODE"},
		{domain.ErrInvalidCountry, http.StatusBadRequest, "INVALID_COUNTRY"},
		{domain.ErrMissingDescription, http.StatusBadRequest, "MISSING_DESCRIPTION"},
		{domain.ErrInvalidOption, http.StatusBadRequest, "INVALID_OPTION"},
		{domain.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{domain.ErrSessionExpired, http.StatusGone, "SESSION_EXPIRED"},
		{domain.ErrSchemaViolation, http.StatusUnprocessableEntity, "SCHEMA_VIOLATION"},
		{domain.ErrReferenceStoreUnavailable, http.StatusServiceUnavailable, "REFERENCE_STORE_UNAVAILABLE"},
		{fmt.Errorf("wrapped: %w", domain.ErrSchemaViolation), http.StatusUnprocessableEntity, "SCHEMA_VIOLATION"},
		{fmt.Errorf("something else"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, _ := MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
