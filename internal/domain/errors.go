package domain

import "errors"

var (
	ErrNotFound                  = errors.New("resource not found")
	ErrUnauthorized              = errors.New("unauthorized")
	ErrForbidden                 = errors.New("forbidden")
	ErrRetrievalEmpty            = errors.New("no candidates retrieved from index")
	ErrRerankUnavailable         = errors.New("reranker unavailable")
	ErrCalibrationDegraded       = errors.New("calibrator degraded, default confidence in effect")
	ErrInvalidOption             = errors.New("selected clarification option is invalid")
	ErrSessionNotFound           = errors.New("clarification session not found")
	ErrSessionExpired            = errors.New("clarification session expired")
	ErrReferenceStoreUnavailable = errors.New("reference store unreachable")
	ErrSchemaViolation           = errors.New("payload violates response schema")
	ErrInvalidCode               = errors.New("commodity code must be 4-10 digits")
	ErrInvalidCountry            = errors.New("country code must be 2-3 letters")
	ErrMissingDescription        = errors.New("product description is required")
)
