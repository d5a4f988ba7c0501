package models

import "strings"

type OptionLetter string

const (
	LetterA OptionLetter = "A"
	LetterB OptionLetter = "B"
	LetterC OptionLetter = "C"
	LetterD OptionLetter = "D"
)

// OptionCount is the fixed number of options on every question.
const OptionCount = 4

var Letters = [OptionCount]OptionLetter{LetterA, LetterB, LetterC, LetterD}

// Index returns the 0-based slot of the letter, or -1 if it is not A-D.
func (l OptionLetter) Index() int {
	for i, letter := range Letters {
		if letter == l {
			return i
		}
	}
	return -1
}

func (l OptionLetter) Valid() bool {
	return l.Index() >= 0
}

// LetterAt returns the letter for a 0-based option slot.
func LetterAt(index int) (OptionLetter, bool) {
	if index < 0 || index >= OptionCount {
		return "", false
	}
	return Letters[index], true
}

// ParseOptionLetter accepts the usual ways an answer key names an option:
// "b", "B", "(b)", "b)", "B.", "Option B".
func ParseOptionLetter(s string) (OptionLetter, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len("option ") && strings.EqualFold(s[:len("option ")], "option ") {
		s = strings.TrimSpace(s[len("option "):])
	}
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimRight(s, ").:")
	if len(s) != 1 {
		return "", false
	}
	letter := OptionLetter(strings.ToUpper(s))
	if !letter.Valid() {
		return "", false
	}
	return letter, true
}

// QuestionDraft is the single in-progress question of a session. Its
// validate tags define when the draft may be committed.
type QuestionDraft struct {
	Number  int                 `json:"number"`
	Stem    string              `json:"stem" validate:"nonblank"`
	Images  []string            `json:"images"`
	Options [OptionCount]string `json:"options" validate:"dive,nonblank"`
	Answer  OptionLetter        `json:"answer"`
}

// NewQuestionDraft returns an empty draft with the default answer.
func NewQuestionDraft(number int) QuestionDraft {
	return QuestionDraft{
		Number: number,
		Images: []string{},
		Answer: LetterA,
	}
}

// QuestionRecord is an immutable snapshot of a committed draft.
type QuestionRecord struct {
	Number  int                 `json:"number"`
	Stem    string              `json:"stem"`
	Images  []string            `json:"images"`
	Options [OptionCount]string `json:"options"`
	Answer  OptionLetter        `json:"answer"`
}

// Snapshot copies the draft into a record that shares no memory with it.
func (d QuestionDraft) Snapshot() QuestionRecord {
	images := make([]string, len(d.Images))
	copy(images, d.Images)
	return QuestionRecord{
		Number:  d.Number,
		Stem:    d.Stem,
		Images:  images,
		Options: d.Options,
		Answer:  d.Answer,
	}
}

// ExportSet is the ordered collection handed to the serializers.
type ExportSet []QuestionRecord
