package assembly

import (
	"strings"

	"github.com/SAP-F-2025/question-extractor/internal/models"
)

// AutofillReport summarizes an unattended assembly run.
type AutofillReport struct {
	Committed int `json:"committed"`
	// Discarded counts question blocks that never reached a committable
	// state and were dropped when the next question started.
	Discarded int `json:"discarded"`
	Skipped   int `json:"skipped"`
}

// Autofill feeds classified fragments into the session the way an editor
// would by hand: a question starts a new draft, options fill their lettered
// slot (or the next empty one), and an answer sets the answer letter.
// Explanation and plain fragments are skipped. A committable draft is
// committed before the next question starts and once more at the end.
// A draft edited before the run is flushed the same way when the first
// question arrives, so its content never leaks into that question.
func Autofill(s *Session, fragments []models.Fragment) AutofillReport {
	var report AutofillReport
	started := false

	flush := func() {
		if _, err := s.Commit(); err == nil {
			report.Committed++
			return
		}
		report.Discarded++
		s.ResetDraft()
	}

	for _, f := range fragments {
		switch f.Role {
		case models.RoleQuestion:
			if started || !draftEmpty(s.draft) {
				flush()
			}
			s.Assign(f, StemTarget())
			started = true
		case models.RoleOption:
			letter := f.Letter
			if !letter.Valid() {
				var ok bool
				if letter, ok = nextEmptyOption(s.draft); !ok {
					report.Skipped++
					continue
				}
			}
			s.Assign(f, OptionTarget(letter))
			started = true
		case models.RoleAnswer:
			if letter, ok := AnswerLetter(f.Text); ok {
				s.SetAnswer(letter)
			} else {
				report.Skipped++
			}
		default:
			report.Skipped++
		}
	}
	if started {
		flush()
	}
	return report
}

// AnswerLetter reads the option letter from the text of an answer fragment,
// e.g. "b", "(B) 4", "c) because" or "Option D".
func AnswerLetter(text string) (models.OptionLetter, bool) {
	if letter, ok := models.ParseOptionLetter(text); ok {
		return letter, true
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	if letter, ok := models.ParseOptionLetter(fields[0]); ok {
		return letter, true
	}
	if len(fields) > 1 && strings.EqualFold(fields[0], "option") {
		return models.ParseOptionLetter(fields[1])
	}
	return "", false
}

func draftEmpty(draft models.QuestionDraft) bool {
	if strings.TrimSpace(draft.Stem) != "" || len(draft.Images) > 0 {
		return false
	}
	for _, text := range draft.Options {
		if strings.TrimSpace(text) != "" {
			return false
		}
	}
	return true
}

func nextEmptyOption(draft models.QuestionDraft) (models.OptionLetter, bool) {
	for i, text := range draft.Options {
		if strings.TrimSpace(text) == "" {
			return models.LetterAt(i)
		}
	}
	return "", false
}
