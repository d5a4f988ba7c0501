package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/question-extractor/internal/errors"
	"github.com/SAP-F-2025/question-extractor/internal/export"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Session specific errors
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidLetter   = errors.New("invalid option letter")
	ErrInvalidTarget   = errors.New("invalid assignment target")

	// Extraction specific errors
	ErrNoPages = errors.New("document has no pages")

	// ErrUnsupportedFormat is shared with the exporter so either side matches.
	ErrUnsupportedFormat = export.ErrUnsupportedFormat
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	return apperrors.IsValidationError(err)
}

// IsBadRequest checks if error was caused by malformed caller input
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrInvalidLetter) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrNoPages)
}

// IsExtraction checks if error describes a page without usable text
func IsExtraction(err error) bool {
	return apperrors.IsExtraction(err)
}
