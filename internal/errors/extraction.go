package errors

import (
	"errors"
	"fmt"
)

type ExtractionErrorKind string

const (
	// ExtractionNoText means the unit exists but carries no text layer,
	// e.g. an image-only page.
	ExtractionNoText ExtractionErrorKind = "no_text"
	// ExtractionFailed means the source could not produce the unit at all.
	ExtractionFailed ExtractionErrorKind = "failed"
)

// ErrNoText is returned by text sources for units without a text layer.
var ErrNoText = errors.New("no text present")

// ExtractionError reports that one unit of a source document produced no
// usable text. It is always scoped to a single page.
type ExtractionError struct {
	Page  int                 `json:"page"`
	Kind  ExtractionErrorKind `json:"kind"`
	Cause error               `json:"-"`
}

func (e *ExtractionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("page %d: %s", e.Page, e.Kind)
	}
	return fmt.Sprintf("page %d: %s: %v", e.Page, e.Kind, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewExtractionError classifies cause for the given page. Errors wrapping
// ErrNoText become ExtractionNoText, everything else ExtractionFailed.
func NewExtractionError(page int, cause error) *ExtractionError {
	kind := ExtractionFailed
	if errors.Is(cause, ErrNoText) {
		kind = ExtractionNoText
	}
	return &ExtractionError{Page: page, Kind: kind, Cause: cause}
}

// IsExtraction reports whether err carries an ExtractionError.
func IsExtraction(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
