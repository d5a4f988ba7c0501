package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	// Test NewValidationError
	err := NewValidationError("stem", "must not be empty", "")

	if err.Field != "stem" {
		t.Errorf("Expected field to be 'stem', got '%s'", err.Field)
	}

	if err.Message != "must not be empty" {
		t.Errorf("Expected message to be 'must not be empty', got '%s'", err.Message)
	}

	if err.Value != "" {
		t.Errorf("Expected empty value, got '%v'", err.Value)
	}

	// Test Error method
	expected := "validation error on field 'stem': must not be empty"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	// Test empty ValidationErrors
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	// Test single ValidationError
	errs = append(errs, *NewValidationError("options[3]", "must not be empty", nil))
	expected := "validation failed: options[3] must not be empty"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	// Test multiple ValidationErrors
	errs = append(errs, *NewValidationError("stem", "must not be empty", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("answer", "must be one of A, B, C or D", "option_letter", "E")

	if err.Rule != "option_letter" {
		t.Errorf("Expected rule to be 'option_letter', got '%s'", err.Rule)
	}

	if err.Field != "answer" {
		t.Errorf("Expected field to be 'answer', got '%s'", err.Field)
	}
}

func TestToValidationErrorsIgnoresForeignErrors(t *testing.T) {
	if errs := ToValidationErrors(errors.New("boom")); len(errs) != 0 {
		t.Errorf("Expected no validation errors, got %d", len(errs))
	}
}

func TestExtractionError(t *testing.T) {
	noText := NewExtractionError(2, fmt.Errorf("render: %w", ErrNoText))
	if noText.Kind != ExtractionNoText {
		t.Errorf("Expected kind %s, got %s", ExtractionNoText, noText.Kind)
	}
	if !errors.Is(noText, ErrNoText) {
		t.Error("Expected extraction error to unwrap to ErrNoText")
	}

	failed := NewExtractionError(3, errors.New("corrupt xref table"))
	if failed.Kind != ExtractionFailed {
		t.Errorf("Expected kind %s, got %s", ExtractionFailed, failed.Kind)
	}
	expected := "page 3: failed: corrupt xref table"
	if failed.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, failed.Error())
	}

	wrapped := fmt.Errorf("extract: %w", failed)
	if !IsExtraction(wrapped) {
		t.Error("Expected IsExtraction to see through wrapping")
	}
	if IsExtraction(errors.New("other")) {
		t.Error("Expected IsExtraction to reject plain errors")
	}
}
