package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/question-extractor/internal/assembly"
	"github.com/SAP-F-2025/question-extractor/internal/events"
	"github.com/SAP-F-2025/question-extractor/internal/export"
	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/SAP-F-2025/question-extractor/internal/validator"
	"github.com/google/uuid"
)

// SessionService owns the editing sessions. Every operation on one session
// runs under that session's lock; sessions never share state.
type SessionService interface {
	Create(ctx context.Context) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	List(ctx context.Context) ([]SessionSummary, error)
	Delete(ctx context.Context, id string) error

	SetStem(ctx context.Context, id, text string) (*SessionView, error)
	SetOption(ctx context.Context, id, letter, text string) (*SessionView, error)
	SetAnswer(ctx context.Context, id, letter string) (*SessionView, error)
	Assign(ctx context.Context, id string, req *AssignRequest) (*SessionView, error)
	ResetDraft(ctx context.Context, id string) (*SessionView, error)

	CanCommit(ctx context.Context, id string) (*CommitStatus, error)
	Commit(ctx context.Context, id string) (*models.QuestionRecord, error)
	Autofill(ctx context.Context, id string, fragments []models.Fragment) (*assembly.AutofillReport, error)

	Export(ctx context.Context, id string, format models.ExportFormat) (*models.Artifact, error)
	Import(ctx context.Context, id string, r io.Reader, format models.ExportFormat) (*SessionView, error)
}

// SessionView is a read-only snapshot of a session.
type SessionView struct {
	ID        string                  `json:"id"`
	Draft     models.QuestionDraft    `json:"draft"`
	Committed []models.QuestionRecord `json:"committed"`
	CanCommit bool                    `json:"can_commit"`
	Missing   []string                `json:"missing"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

type SessionSummary struct {
	ID        string    `json:"id"`
	Committed int       `json:"committed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommitStatus struct {
	CanCommit bool     `json:"can_commit"`
	Missing   []string `json:"missing"`
}

// AssignRequest transfers a fragment into a draft slot. Target is "stem",
// a letter, or "option:<letter>".
type AssignRequest struct {
	Fragment models.Fragment `json:"fragment"`
	Target   string          `json:"target" validate:"required"`
}

type sessionEntry struct {
	mu        sync.Mutex
	session   *assembly.Session
	createdAt time.Time
	updatedAt time.Time
}

type sessionService struct {
	mu        sync.RWMutex
	sessions  map[string]*sessionEntry
	validator *validator.Validator
	exporter  *export.Exporter
	publisher events.EventPublisher
	logger    *ServiceLogger
	now       func() time.Time
}

func NewSessionService(v *validator.Validator, publisher events.EventPublisher, logger *slog.Logger) SessionService {
	if v == nil {
		v = validator.New()
	}
	if publisher == nil {
		publisher = events.NewMockEventPublisher(logger)
	}
	return &sessionService{
		sessions:  make(map[string]*sessionEntry),
		validator: v,
		exporter:  export.NewExporter(v),
		publisher: publisher,
		logger:    NewServiceLogger(logger, LogConfig{Service: "question-extractor", Component: "session"}),
		now:       time.Now,
	}
}

// ===== LIFECYCLE =====

func (s *sessionService) Create(ctx context.Context) (*SessionView, error) {
	id := uuid.NewString()
	op := s.logger.WithOperation(ctx, "create_session", id)

	now := s.now()
	entry := &sessionEntry{
		session:   assembly.NewSession(s.validator),
		createdAt: now,
		updatedAt: now,
	}

	result := view(id, entry)

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	op.LogResult("session", nil)
	return result, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return view(id, entry), nil
}

func (s *sessionService) List(ctx context.Context) ([]SessionSummary, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	entries := make(map[string]*sessionEntry, len(s.sessions))
	for id, entry := range s.sessions {
		ids = append(ids, id)
		entries[id] = entry
	}
	s.mu.RUnlock()

	summaries := make([]SessionSummary, 0, len(ids))
	for _, id := range ids {
		entry := entries[id]
		entry.mu.Lock()
		summaries = append(summaries, SessionSummary{
			ID:        id,
			Committed: len(entry.session.Committed()),
			CreatedAt: entry.createdAt,
			UpdatedAt: entry.updatedAt,
		})
		entry.mu.Unlock()
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *sessionService) Delete(ctx context.Context, id string) (err error) {
	op := s.logger.WithOperation(ctx, "delete_session", id)
	defer func() { op.LogResult("session", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// ===== DRAFT EDITING =====

func (s *sessionService) SetStem(ctx context.Context, id, text string) (*SessionView, error) {
	return s.mutate(ctx, "set_stem", id, func(session *assembly.Session) error {
		session.SetStem(text)
		return nil
	})
}

func (s *sessionService) SetOption(ctx context.Context, id, letter, text string) (*SessionView, error) {
	l, ok := models.ParseOptionLetter(letter)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
	return s.mutate(ctx, "set_option", id, func(session *assembly.Session) error {
		session.SetOption(l, text)
		return nil
	})
}

func (s *sessionService) SetAnswer(ctx context.Context, id, letter string) (*SessionView, error) {
	l, ok := models.ParseOptionLetter(letter)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
	return s.mutate(ctx, "set_answer", id, func(session *assembly.Session) error {
		session.SetAnswer(l)
		return nil
	})
}

func (s *sessionService) Assign(ctx context.Context, id string, req *AssignRequest) (*SessionView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	target, ok := assembly.ParseTarget(req.Target)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, req.Target)
	}
	return s.mutate(ctx, "assign_fragment", id, func(session *assembly.Session) error {
		session.Assign(req.Fragment, target)
		return nil
	})
}

func (s *sessionService) ResetDraft(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, "reset_draft", id, func(session *assembly.Session) error {
		session.ResetDraft()
		return nil
	})
}

// ===== COMMIT =====

func (s *sessionService) CanCommit(ctx context.Context, id string) (*CommitStatus, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return &CommitStatus{
		CanCommit: entry.session.CanCommit(),
		Missing:   entry.session.Missing(),
	}, nil
}

func (s *sessionService) Commit(ctx context.Context, id string) (*models.QuestionRecord, error) {
	var (
		record    models.QuestionRecord
		committed int
	)
	_, err := s.mutate(ctx, "commit_question", id, func(session *assembly.Session) error {
		r, err := session.Commit()
		if err != nil {
			return err
		}
		record = r
		committed = len(session.Committed())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewQuestionCommittedEvent(id, record, committed))
	return &record, nil
}

func (s *sessionService) Autofill(ctx context.Context, id string, fragments []models.Fragment) (*assembly.AutofillReport, error) {
	var report assembly.AutofillReport
	_, err := s.mutate(ctx, "autofill_session", id, func(session *assembly.Session) error {
		report = assembly.Autofill(session, fragments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ===== EXPORT / IMPORT =====

func (s *sessionService) Export(ctx context.Context, id string, format models.ExportFormat) (artifact *models.Artifact, err error) {
	op := s.logger.WithOperation(ctx, "export_session", id)
	defer func() { op.LogResult("session", err) }()

	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	set := entry.session.ExportAll()
	entry.mu.Unlock()

	artifact, err = s.exporter.Export(set, format)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewExportGeneratedEvent(id, artifact))
	return artifact, nil
}

func (s *sessionService) Import(ctx context.Context, id string, r io.Reader, format models.ExportFormat) (*SessionView, error) {
	set, err := export.Import(r, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return s.mutate(ctx, "import_questions", id, func(session *assembly.Session) error {
		return session.Append(set)
	})
}

// ===== HELPERS =====

func (s *sessionService) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

// mutate runs fn under the session lock and returns the resulting view. The
// update time only moves when fn succeeds.
func (s *sessionService) mutate(ctx context.Context, operation, id string, fn func(*assembly.Session) error) (result *SessionView, err error) {
	op := s.logger.WithOperation(ctx, operation, id)
	defer func() { op.LogResult("session", err) }()

	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := fn(entry.session); err != nil {
		return nil, err
	}
	entry.updatedAt = s.now()
	return view(id, entry), nil
}

func (s *sessionService) publish(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

// view must be called with the entry lock held.
func view(id string, entry *sessionEntry) *SessionView {
	return &SessionView{
		ID:        id,
		Draft:     entry.session.Draft(),
		Committed: entry.session.Committed(),
		CanCommit: entry.session.CanCommit(),
		Missing:   entry.session.Missing(),
		CreatedAt: entry.createdAt,
		UpdatedAt: entry.updatedAt,
	}
}
