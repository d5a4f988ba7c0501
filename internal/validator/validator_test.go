package validator

import (
	"testing"

	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledDraft() models.QuestionDraft {
	draft := models.NewQuestionDraft(1)
	draft.Stem = "What is 2+2?"
	draft.Options = [models.OptionCount]string{"3", "4", "5", "6"}
	return draft
}

func TestQuestionValidator_ValidateDraft(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		mutate     func(*models.QuestionDraft)
		wantFields []string
	}{
		{
			name:   "complete draft",
			mutate: func(d *models.QuestionDraft) {},
		},
		{
			name:       "empty stem",
			mutate:     func(d *models.QuestionDraft) { d.Stem = "" },
			wantFields: []string{"stem"},
		},
		{
			name:       "whitespace stem",
			mutate:     func(d *models.QuestionDraft) { d.Stem = " \t\n" },
			wantFields: []string{"stem"},
		},
		{
			name:       "missing option D",
			mutate:     func(d *models.QuestionDraft) { d.Options[3] = "" },
			wantFields: []string{"options[3]"},
		},
		{
			name: "blank stem and two blank options",
			mutate: func(d *models.QuestionDraft) {
				d.Stem = ""
				d.Options[0] = "  "
				d.Options[2] = ""
			},
			wantFields: []string{"stem", "options[0]", "options[2]"},
		},
		{
			name:   "answer letter is not part of the predicate",
			mutate: func(d *models.QuestionDraft) { d.Answer = models.LetterD },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := filledDraft()
			tt.mutate(&draft)

			errs := v.Question().ValidateDraft(&draft)
			if len(tt.wantFields) == 0 {
				assert.Empty(t, errs)
				return
			}

			require.Len(t, errs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, errs[i].Field)
				assert.Equal(t, "nonblank", errs[i].Rule)
				assert.Equal(t, "must not be empty", errs[i].Message)
			}
		})
	}
}

func TestQuestionValidator_ValidateExportSet(t *testing.T) {
	v := New()

	record := func(n int, answer models.OptionLetter) models.QuestionRecord {
		return models.QuestionRecord{Number: n, Stem: "q", Options: [models.OptionCount]string{"a", "b", "c", "d"}, Answer: answer}
	}

	assert.NoError(t, v.Question().ValidateExportSet(nil))
	assert.NoError(t, v.Question().ValidateExportSet(models.ExportSet{record(1, "A"), record(2, "C")}))
	assert.Error(t, v.Question().ValidateExportSet(models.ExportSet{record(1, "A"), record(1, "B")}))
	assert.Error(t, v.Question().ValidateExportSet(models.ExportSet{record(0, "A")}))
	assert.Error(t, v.Question().ValidateExportSet(models.ExportSet{record(1, "E")}))

	blankStem := record(1, "A")
	blankStem.Stem = " "
	err := v.Question().ValidateExportSet(models.ExportSet{blankStem})
	assert.True(t, IsValidationError(err))

	blankOption := record(2, "B")
	blankOption.Options[3] = ""
	err = v.Question().ValidateExportSet(models.ExportSet{record(1, "A"), blankOption})
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "records[1].options[3]", errs[0].Field)
	assert.Equal(t, "nonblank", errs[0].Rule)
}

func TestQuestionValidator_ValidateRecords(t *testing.T) {
	v := New()

	valid := models.QuestionRecord{Number: 1, Stem: "q", Options: [models.OptionCount]string{"a", "b", "c", "d"}, Answer: models.LetterA}
	assert.Nil(t, v.Question().ValidateRecords([]models.QuestionRecord{valid}))
	assert.Nil(t, v.Question().ValidateRecords(nil))

	badAnswer := valid
	badAnswer.Answer = "E"
	errs := v.Question().ValidateRecords([]models.QuestionRecord{valid, badAnswer})
	require.Len(t, errs, 1)
	assert.Equal(t, "records[1].answer", errs[0].Field)
	assert.Equal(t, "option_letter", errs[0].Rule)
	assert.Equal(t, "E", errs[0].Value)
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	type request struct {
		Role     models.FragmentRole `json:"role" validate:"fragment_role"`
		Letter   string              `json:"letter" validate:"option_letter"`
		Strategy string              `json:"strategy" validate:"classifier_strategy"`
		Format   string              `json:"format" validate:"export_format"`
	}

	assert.NoError(t, v.Validate(request{Role: models.RoleOption, Letter: "B", Strategy: "line", Format: "xlsx"}))

	err := v.Validate(request{Role: "heading", Letter: "b", Strategy: "regex", Format: "pdf"})
	require.Error(t, err)

	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"role", "letter", "strategy", "format"}, fields)
}
