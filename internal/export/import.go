package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// FormatFromFilename picks the format by file extension.
func FormatFromFilename(name string) (models.ExportFormat, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return models.ExportJSON, nil
	case ".csv":
		return models.ExportCSV, nil
	case ".xlsx":
		return models.ExportXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Import reads a previously exported artifact back into an export set.
func Import(r io.Reader, format models.ExportFormat) (models.ExportSet, error) {
	switch format {
	case models.ExportJSON, "":
		return UnmarshalJSON(r)
	case models.ExportCSV:
		return UnmarshalCSV(r)
	case models.ExportXLSX:
		return UnmarshalXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func UnmarshalJSON(r io.Reader) (models.ExportSet, error) {
	var items []models.ExportedQuestion
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}

	set := make(models.ExportSet, 0, len(items))
	for i, item := range items {
		if len(item.OptionWithImages) != models.OptionCount {
			return nil, fmt.Errorf("question %d: expected %d options, got %d", i+1, models.OptionCount, len(item.OptionWithImages))
		}
		row := append([]string{strconv.Itoa(item.QuestionNumber), item.QuestionText}, item.OptionWithImages...)
		record, err := rowToRecord(append(row, item.CorrectAnswer))
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		if item.QuestionImages != nil {
			record.Images = append([]string{}, item.QuestionImages...)
		}
		set = append(set, record)
	}
	return set, nil
}

func UnmarshalCSV(r io.Reader) (models.ExportSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(headers)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rowsToSet(rows)
}

func UnmarshalXLSX(r io.Reader) (models.ExportSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rowsToSet(rows)
}

// rowsToSet converts tabular rows; the first row is the header.
func rowsToSet(rows [][]string) (models.ExportSet, error) {
	set := models.ExportSet{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		// Spreadsheets drop trailing empty cells.
		for len(row) < len(headers) {
			row = append(row, "")
		}
		record, err := rowToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		set = append(set, record)
	}
	return set, nil
}

func rowToRecord(row []string) (models.QuestionRecord, error) {
	number, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return models.QuestionRecord{}, fmt.Errorf("invalid question number %q", row[0])
	}
	answer, ok := models.ParseOptionLetter(row[6])
	if !ok {
		return models.QuestionRecord{}, fmt.Errorf("invalid correct answer %q", row[6])
	}

	record := models.QuestionRecord{
		Number: number,
		Stem:   row[1],
		Images: []string{},
		Answer: answer,
	}
	copy(record.Options[:], row[2:6])
	return record, nil
}
