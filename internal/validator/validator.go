package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(structValidator),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts the result to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	// Non-blank strings (whitespace only counts as empty)
	validate.RegisterValidation("nonblank", validateNonBlank)

	// Option letter validation
	validate.RegisterValidation("option_letter", validateOptionLetter)

	// Fragment role validation
	validate.RegisterValidation("fragment_role", validateFragmentRole)

	// Classifier strategy validation
	validate.RegisterValidation("classifier_strategy", validateClassifierStrategy)

	// Export format validation
	validate.RegisterValidation("export_format", validateExportFormat)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateOptionLetter(fl validator.FieldLevel) bool {
	return models.OptionLetter(fl.Field().String()).Valid()
}

func validateFragmentRole(fl validator.FieldLevel) bool {
	return models.FragmentRole(fl.Field().String()).Valid()
}

func validateClassifierStrategy(fl validator.FieldLevel) bool {
	validStrategies := []string{"block", "line"}

	value := fl.Field().String()
	for _, validStrategy := range validStrategies {
		if validStrategy == value {
			return true
		}
	}
	return false
}

func validateExportFormat(fl validator.FieldLevel) bool {
	validFormats := []models.ExportFormat{
		models.ExportJSON,
		models.ExportCSV,
		models.ExportXLSX,
	}

	value := fl.Field().String()
	for _, validFormat := range validFormats {
		if string(validFormat) == value {
			return true
		}
	}
	return false
}
