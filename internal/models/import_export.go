package models

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ExportedQuestion is one element of the questions.json artifact. Field
// names and order are part of the artifact format.
type ExportedQuestion struct {
	QuestionNumber   int      `json:"questionNumber"`
	QuestionText     string   `json:"questionText"`
	QuestionImages   []string `json:"question_images"`
	OptionWithImages []string `json:"option_with_images_"`
	CorrectAnswer    string   `json:"correct_answer"`
}

// Artifact is a serialized export ready to be delivered as a download.
type Artifact struct {
	Filename    string       `json:"filename"`
	ContentType string       `json:"content_type"`
	Format      ExportFormat `json:"format"`
	Data        []byte       `json:"-"`
	Count       int          `json:"count"`
}

type PageStatus string

const (
	PageOK     PageStatus = "ok"
	PageNoText PageStatus = "no_text"
	PageFailed PageStatus = "failed"
)

// PageText is what the document-loading collaborator hands over for one
// unit: its 1-based number, its text, and an explicit status.
type PageText struct {
	Number int        `json:"page" validate:"min=1"`
	Text   string     `json:"text"`
	Status PageStatus `json:"status" validate:"omitempty,oneof=ok no_text failed"`
	Error  string     `json:"error,omitempty"`
}

// PageResult is the classification outcome for one unit.
type PageResult struct {
	Page      int        `json:"page"`
	Status    PageStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	Fragments []Fragment `json:"fragments"`
}

// ExtractionResult collects per-page results in page order. Fragments is
// the concatenation of every page's fragments. Failed counts pages whose
// extraction failed and NoText pages the extractor reported as having no
// text layer; blank pages count as neither.
type ExtractionResult struct {
	PageCount int          `json:"page_count"`
	Pages     []PageResult `json:"pages"`
	Fragments []Fragment   `json:"fragments"`
	Failed    int          `json:"failed"`
	NoText    int          `json:"no_text"`
}
