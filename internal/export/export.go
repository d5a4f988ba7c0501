// Package export serializes an export set into downloadable artifacts.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/SAP-F-2025/question-extractor/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	JSONFilename = "questions.json"
	CSVFilename  = "questions.csv"
	XLSXFilename = "questions.xlsx"

	sheetName = "Questions"
)

var headers = []string{
	"Question Number", "Question Text", "Option A", "Option B", "Option C", "Option D", "Correct Answer",
}

// Exporter turns export sets into artifacts. Every set is checked before it
// is written.
type Exporter struct {
	validator *validator.Validator
}

func NewExporter(v *validator.Validator) *Exporter {
	if v == nil {
		v = validator.New()
	}
	return &Exporter{validator: v}
}

// Export renders the set in the requested format.
func (e *Exporter) Export(set models.ExportSet, format models.ExportFormat) (*models.Artifact, error) {
	if err := e.validator.Question().ValidateExportSet(set); err != nil {
		return nil, fmt.Errorf("invalid export set: %w", err)
	}

	var (
		data        []byte
		err         error
		filename    string
		contentType string
	)
	switch format {
	case models.ExportJSON, "":
		format = models.ExportJSON
		data, err = MarshalJSON(set)
		filename, contentType = JSONFilename, "application/json"
	case models.ExportCSV:
		data, err = MarshalCSV(set)
		filename, contentType = CSVFilename, "text/csv"
	case models.ExportXLSX:
		data, err = MarshalXLSX(set)
		filename, contentType = XLSXFilename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return &models.Artifact{
		Filename:    filename,
		ContentType: contentType,
		Format:      format,
		Data:        data,
		Count:       len(set),
	}, nil
}

// ToExported maps records onto the questions.json element layout.
func ToExported(set models.ExportSet) []models.ExportedQuestion {
	out := make([]models.ExportedQuestion, 0, len(set))
	for _, record := range set {
		options := make([]string, models.OptionCount)
		copy(options, record.Options[:])
		out = append(out, models.ExportedQuestion{
			QuestionNumber:   record.Number,
			QuestionText:     record.Stem,
			QuestionImages:   []string{},
			OptionWithImages: options,
			CorrectAnswer:    string(record.Answer),
		})
	}
	return out
}

// MarshalJSON writes the questions.json artifact: a pretty-printed array
// with 2-space indentation and no trailing newline. Identical sets always
// produce identical bytes.
func MarshalJSON(set models.ExportSet) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToExported(set)); err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func MarshalCSV(set models.ExportSet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range set {
		if err := writer.Write(recordRow(record)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func MarshalXLSX(set models.ExportSet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet so the workbook holds a single sheet.
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}
	for i, record := range set {
		row := make([]interface{}, 0, len(headers))
		row = append(row, record.Number)
		for _, value := range recordRow(record)[1:] {
			row = append(row, value)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func recordRow(record models.QuestionRecord) []string {
	row := []string{fmt.Sprint(record.Number), record.Stem}
	row = append(row, record.Options[:]...)
	return append(row, string(record.Answer))
}
