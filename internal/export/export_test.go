package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() models.ExportSet {
	return models.ExportSet{
		{
			Number:  1,
			Stem:    "What is 2+2?",
			Images:  []string{},
			Options: [models.OptionCount]string{"3", "4", "5", "6"},
			Answer:  models.LetterB,
		},
		{
			Number:  2,
			Stem:    `Which tag opens a <div> & closes "it"?`,
			Images:  []string{},
			Options: [models.OptionCount]string{"<div>", "</div>", "a, b", "none"},
			Answer:  models.LetterA,
		},
	}
}

func TestMarshalJSON_Layout(t *testing.T) {
	data, err := MarshalJSON(sampleSet()[:1])
	require.NoError(t, err)

	want := `[
  {
    "questionNumber": 1,
    "questionText": "What is 2+2?",
    "question_images": [],
    "option_with_images_": [
      "3",
      "4",
      "5",
      "6"
    ],
    "correct_answer": "B"
  }
]`
	assert.Equal(t, want, string(data))
}

func TestMarshalJSON_EmptySet(t *testing.T) {
	data, err := MarshalJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestMarshalJSON_Reproducible(t *testing.T) {
	first, err := MarshalJSON(sampleSet())
	require.NoError(t, err)
	second, err := MarshalJSON(sampleSet())
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
	assert.Contains(t, string(first), `"<div>"`)
}

func TestMarshalJSON_ShapeOfEveryElement(t *testing.T) {
	data, err := MarshalJSON(sampleSet())
	require.NoError(t, err)

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &items))
	require.Len(t, items, 2)

	for _, item := range items {
		assert.Len(t, item, 5)
		assert.Equal(t, []interface{}{}, item["question_images"])
		options, ok := item["option_with_images_"].([]interface{})
		require.True(t, ok)
		assert.Len(t, options, models.OptionCount)
	}
	assert.Equal(t, []interface{}{"<div>", "</div>", "a, b", "none"}, items[1]["option_with_images_"])
}

func TestExporter_Formats(t *testing.T) {
	e := NewExporter(nil)

	tests := []struct {
		format      models.ExportFormat
		filename    string
		contentType string
	}{
		{models.ExportJSON, "questions.json", "application/json"},
		{"", "questions.json", "application/json"},
		{models.ExportCSV, "questions.csv", "text/csv"},
		{models.ExportXLSX, "questions.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			artifact, err := e.Export(sampleSet(), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.filename, artifact.Filename)
			assert.Equal(t, tt.contentType, artifact.ContentType)
			assert.Equal(t, 2, artifact.Count)
			assert.NotEmpty(t, artifact.Data)

			back, err := Import(bytes.NewReader(artifact.Data), artifact.Format)
			require.NoError(t, err)
			if diff := cmp.Diff(sampleSet(), back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExporter_RejectsInvalidSets(t *testing.T) {
	e := NewExporter(nil)

	_, err := e.Export(sampleSet(), "pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	dup := sampleSet()
	dup[1].Number = 1
	_, err = e.Export(dup, models.ExportJSON)
	assert.Error(t, err)
}

func TestMarshalCSV_Header(t *testing.T) {
	data, err := MarshalCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Question Number,Question Text,Option A,Option B,Option C,Option D,Correct Answer\n", string(data))
}

func TestImport_Errors(t *testing.T) {
	_, err := UnmarshalJSON(bytes.NewBufferString(`[{"questionNumber":1,"option_with_images_":["a"],"correct_answer":"A"}]`))
	assert.Error(t, err)

	_, err = UnmarshalJSON(bytes.NewBufferString(`[{"questionNumber":1,"option_with_images_":["a","b","c","d"],"correct_answer":"E"}]`))
	assert.Error(t, err)

	_, err = UnmarshalCSV(bytes.NewBufferString("h1,h2\n"))
	assert.Error(t, err)

	_, err = Import(bytes.NewBufferString("[]"), "yaml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatFromFilename(t *testing.T) {
	f, err := FormatFromFilename("Quiz.XLSX")
	require.NoError(t, err)
	assert.Equal(t, models.ExportXLSX, f)

	_, err = FormatFromFilename("quiz.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
