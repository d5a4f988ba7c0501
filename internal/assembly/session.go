// Package assembly holds the question assembly engine: one session owns a
// single draft question and the ordered list of committed records.
package assembly

import (
	"strings"

	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/SAP-F-2025/question-extractor/internal/validator"
)

// Session is one editing session. It is not safe for concurrent use; callers
// that share a session across goroutines must serialize access.
type Session struct {
	validator *validator.QuestionValidator
	draft     models.QuestionDraft
	committed []models.QuestionRecord
}

// NewSession starts a session with an empty draft numbered 1. A nil
// validator gets a fresh one.
func NewSession(v *validator.Validator) *Session {
	if v == nil {
		v = validator.New()
	}
	return &Session{
		validator: v.Question(),
		draft:     models.NewQuestionDraft(1),
	}
}

// SetStem replaces the draft stem.
func (s *Session) SetStem(text string) {
	s.draft.Stem = text
}

// SetOption replaces the text of one option. Letters outside A-D are ignored.
func (s *Session) SetOption(letter models.OptionLetter, text string) {
	if i := letter.Index(); i >= 0 {
		s.draft.Options[i] = text
	}
}

// SetAnswer records the correct option. The option text may still be empty.
// Letters outside A-D are ignored.
func (s *Session) SetAnswer(letter models.OptionLetter) {
	if letter.Valid() {
		s.draft.Answer = letter
	}
}

// Assign moves a fragment's text into a draft slot.
func (s *Session) Assign(fragment models.Fragment, target Target) {
	switch target.Kind {
	case TargetStem:
		s.SetStem(fragment.Text)
	case TargetOption:
		s.SetOption(target.Letter, fragment.Text)
	}
}

// ResetDraft clears the draft content but keeps its number.
func (s *Session) ResetDraft() {
	s.draft = models.NewQuestionDraft(s.draft.Number)
}

// CanCommit reports whether the draft has a stem and four options.
func (s *Session) CanCommit() bool {
	return s.validate() == nil
}

// Commit freezes the draft into the committed list and starts a new draft.
// On a validation failure nothing changes.
func (s *Session) Commit() (models.QuestionRecord, error) {
	if errs := s.validate(); errs != nil {
		return models.QuestionRecord{}, errs
	}

	record := s.draft.Snapshot()
	s.committed = append(s.committed, record)
	s.draft = models.NewQuestionDraft(len(s.committed) + 1)
	return record, nil
}

// Append adds previously exported records after the committed list. They
// are renumbered to continue the sequence and the draft number follows.
// Every record must pass the commit rules; if any fails, nothing is added.
func (s *Session) Append(records []models.QuestionRecord) error {
	if errs := s.validator.ValidateRecords(records); errs != nil {
		return errs
	}
	for _, record := range records {
		record = copyRecord(record)
		record.Number = len(s.committed) + 1
		s.committed = append(s.committed, record)
	}
	s.draft.Number = len(s.committed) + 1
	return nil
}

// ExportAll returns the committed records, followed by the draft when it is
// committable. It does not change the session.
func (s *Session) ExportAll() models.ExportSet {
	set := make(models.ExportSet, 0, len(s.committed)+1)
	for _, record := range s.committed {
		set = append(set, copyRecord(record))
	}
	if s.CanCommit() {
		set = append(set, s.draft.Snapshot())
	}
	return set
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() models.QuestionDraft {
	draft := s.draft
	draft.Images = append([]string{}, s.draft.Images...)
	return draft
}

// Committed returns a copy of the committed list.
func (s *Session) Committed() []models.QuestionRecord {
	out := make([]models.QuestionRecord, len(s.committed))
	for i, record := range s.committed {
		out[i] = copyRecord(record)
	}
	return out
}

// Missing lists the draft fields that block a commit.
func (s *Session) Missing() []string {
	errs := s.validate()
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func (s *Session) validate() validator.ValidationErrors {
	return s.validator.ValidateDraft(&s.draft)
}

func copyRecord(r models.QuestionRecord) models.QuestionRecord {
	r.Images = append([]string{}, r.Images...)
	return r
}

type TargetKind string

const (
	TargetStem   TargetKind = "stem"
	TargetOption TargetKind = "option"
)

// Target is the draft slot a fragment is transferred into.
type Target struct {
	Kind   TargetKind          `json:"kind"`
	Letter models.OptionLetter `json:"letter,omitempty"`
}

func StemTarget() Target {
	return Target{Kind: TargetStem}
}

func OptionTarget(letter models.OptionLetter) Target {
	return Target{Kind: TargetOption, Letter: letter}
}

// ParseTarget reads "stem", "option:B" or a bare letter such as "b".
func ParseTarget(s string) (Target, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == string(TargetStem) {
		return StemTarget(), true
	}
	s = strings.TrimPrefix(s, string(TargetOption)+":")
	letter, ok := models.ParseOptionLetter(s)
	if !ok {
		return Target{}, false
	}
	return OptionTarget(letter), true
}
