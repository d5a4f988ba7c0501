package events

import (
	"time"

	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/google/uuid"
)

// EventType represents the kinds of events the extractor emits
type EventType string

const (
	// Extraction events
	EventPageExtractionFailed EventType = "page.extraction_failed"
	EventDocumentClassified   EventType = "document.classified"

	// Session events
	EventQuestionCommitted EventType = "question.committed"
	EventExportGenerated   EventType = "export.generated"
)

const (
	eventSource  = "question-extractor"
	eventVersion = "1.0"
)

// Event is the envelope shared by every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type PageExtractionFailedEvent struct {
	DocumentID string            `json:"document_id"`
	Page       int               `json:"page"`
	Status     models.PageStatus `json:"status"`
	Error      string            `json:"error,omitempty"`
}

type DocumentClassifiedEvent struct {
	DocumentID string `json:"document_id"`
	Strategy   string `json:"strategy"`
	PageCount  int    `json:"page_count"`
	Failed     int    `json:"failed"`
	NoText     int    `json:"no_text"`
	Fragments  int    `json:"fragments"`
}

type QuestionCommittedEvent struct {
	SessionID      string              `json:"session_id"`
	QuestionNumber int                 `json:"question_number"`
	QuestionText   string              `json:"question_text"`
	CorrectAnswer  models.OptionLetter `json:"correct_answer"`
	CommittedCount int                 `json:"committed_count"`
}

type ExportGeneratedEvent struct {
	SessionID string              `json:"session_id"`
	Format    models.ExportFormat `json:"format"`
	Filename  string              `json:"filename"`
	Questions int                 `json:"questions"`
	Bytes     int                 `json:"bytes"`
}

// Event factory functions

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewPageExtractionFailedEvent(documentID string, page models.PageText) *Event {
	return newEvent(EventPageExtractionFailed, PageExtractionFailedEvent{
		DocumentID: documentID,
		Page:       page.Number,
		Status:     page.Status,
		Error:      page.Error,
	})
}

func NewDocumentClassifiedEvent(documentID, strategy string, result *models.ExtractionResult) *Event {
	return newEvent(EventDocumentClassified, DocumentClassifiedEvent{
		DocumentID: documentID,
		Strategy:   strategy,
		PageCount:  result.PageCount,
		Failed:     result.Failed,
		NoText:     result.NoText,
		Fragments:  len(result.Fragments),
	})
}

func NewQuestionCommittedEvent(sessionID string, record models.QuestionRecord, committedCount int) *Event {
	return newEvent(EventQuestionCommitted, QuestionCommittedEvent{
		SessionID:      sessionID,
		QuestionNumber: record.Number,
		QuestionText:   record.Stem,
		CorrectAnswer:  record.Answer,
		CommittedCount: committedCount,
	})
}

func NewExportGeneratedEvent(sessionID string, artifact *models.Artifact) *Event {
	return newEvent(EventExportGenerated, ExportGeneratedEvent{
		SessionID: sessionID,
		Format:    artifact.Format,
		Filename:  artifact.Filename,
		Questions: artifact.Count,
		Bytes:     len(artifact.Data),
	})
}

// GenerateEventID returns a random unique event id
func GenerateEventID() string {
	return uuid.NewString()
}
