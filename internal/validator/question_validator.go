package validator

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/question-extractor/internal/errors"
	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/go-playground/validator/v10"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct {
	validate *validator.Validate
}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator(validate *validator.Validate) *QuestionValidator {
	return &QuestionValidator{validate: validate}
}

// ValidateDraft reports every field that keeps the draft from being
// committed. A nil result means the draft is committable.
func (v *QuestionValidator) ValidateDraft(draft *models.QuestionDraft) ValidationErrors {
	if err := v.validate.Struct(draft); err != nil {
		errs := ToValidationErrors(err)
		if len(errs) == 0 {
			return ValidationErrors{{Field: "draft", Message: err.Error()}}
		}
		return errs
	}
	return nil
}

// ValidateRecords applies the commit rules to records that did not come
// through a draft, such as imported questions. Fields are reported as
// records[i].field; a nil result means every record is acceptable.
func (v *QuestionValidator) ValidateRecords(records []models.QuestionRecord) ValidationErrors {
	var errs ValidationErrors
	for i, record := range records {
		errs = append(errs, v.validateRecord(i, record)...)
	}
	return errs
}

func (v *QuestionValidator) validateRecord(index int, record models.QuestionRecord) ValidationErrors {
	prefix := fmt.Sprintf("records[%d].", index)
	draft := models.QuestionDraft{
		Number:  record.Number,
		Stem:    record.Stem,
		Images:  record.Images,
		Options: record.Options,
		Answer:  record.Answer,
	}

	var errs ValidationErrors
	for _, err := range v.ValidateDraft(&draft) {
		err.Field = prefix + err.Field
		errs = append(errs, err)
	}
	if !record.Answer.Valid() {
		errs = append(errs, *apperrors.NewValidationErrorWithRule(prefix+"answer", "must be one of A, B, C or D", "option_letter", string(record.Answer)))
	}
	return errs
}

// ValidateExportSet checks the invariants every export must satisfy before
// it is serialized: positive, distinct numbers, a non-blank stem and options
// and a valid answer letter.
func (v *QuestionValidator) ValidateExportSet(set models.ExportSet) error {
	seen := make(map[int]bool, len(set))
	for i, record := range set {
		if record.Number < 1 {
			return fmt.Errorf("record %d has invalid number %d", i, record.Number)
		}
		if seen[record.Number] {
			return fmt.Errorf("duplicate question number %d", record.Number)
		}
		seen[record.Number] = true

		if errs := v.validateRecord(i, record); errs != nil {
			return errs
		}
	}
	return nil
}
