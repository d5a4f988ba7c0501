package assembly

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/SAP-F-2025/question-extractor/internal/classifier"
	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/SAP-F-2025/question-extractor/internal/validator"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(s *Session, stem string, options ...string) {
	s.SetStem(stem)
	for i, text := range options {
		letter, _ := models.LetterAt(i)
		s.SetOption(letter, text)
	}
}

func TestSession_NewSession(t *testing.T) {
	s := NewSession(nil)

	draft := s.Draft()
	assert.Equal(t, 1, draft.Number)
	assert.Equal(t, models.LetterA, draft.Answer)
	assert.Empty(t, draft.Stem)
	assert.NotNil(t, draft.Images)
	assert.Empty(t, s.Committed())
	assert.False(t, s.CanCommit())
}

func TestSession_ClassifyAssignCommitScenario(t *testing.T) {
	c := classifier.MustNew(classifier.DefaultOptions())
	fragments := c.Classify("1. What is 2+2? • (a) 3 • (b) 4 • (c) 5 • (d) 6 Answer: b")
	require.Len(t, fragments, 6)

	s := NewSession(validator.New())
	s.Assign(fragments[0], StemTarget())
	for i, f := range fragments[1:5] {
		letter, _ := models.LetterAt(i)
		s.Assign(f, OptionTarget(letter))
	}
	s.SetAnswer(models.LetterB)

	require.True(t, s.CanCommit())
	record, err := s.Commit()
	require.NoError(t, err)

	want := models.QuestionRecord{
		Number:  1,
		Stem:    "What is 2+2?",
		Images:  []string{},
		Options: [models.OptionCount]string{"3", "4", "5", "6"},
		Answer:  models.LetterB,
	}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Errorf("Commit() mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_CanCommitTruthTable(t *testing.T) {
	values := []string{"", "  ", "\t\n", "x"}
	s := NewSession(nil)

	// Every combination of stem and option contents.
	for mask := 0; mask < 1<<10; mask++ {
		stem := values[mask&3]
		s.SetStem(stem)
		want := strings.TrimSpace(stem) != ""
		for i := 0; i < models.OptionCount; i++ {
			text := ""
			if mask&(1<<(2+i*2)) != 0 {
				text = "opt"
			} else if mask&(1<<(3+i*2)) != 0 {
				text = "   "
			}
			letter, _ := models.LetterAt(i)
			s.SetOption(letter, text)
			if strings.TrimSpace(text) == "" {
				want = false
			}
		}
		assert.Equal(t, want, s.CanCommit(), "mask %b", mask)
	}
}

func TestSession_CanCommitUnderInterleavedSetters(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	texts := []string{"", " ", "a", "b c"}

	for run := 0; run < 200; run++ {
		s := NewSession(nil)
		var stem string
		var options [models.OptionCount]string

		for step := 0; step < 12; step++ {
			text := texts[rng.Intn(len(texts))]
			switch rng.Intn(3) {
			case 0:
				s.SetStem(text)
				stem = text
			case 1:
				i := rng.Intn(models.OptionCount)
				s.SetOption(models.Letters[i], text)
				options[i] = text
			default:
				s.SetAnswer(models.Letters[rng.Intn(models.OptionCount)])
			}

			want := strings.TrimSpace(stem) != ""
			for _, o := range options {
				want = want && strings.TrimSpace(o) != ""
			}
			require.Equal(t, want, s.CanCommit(), "run %d step %d", run, step)
		}
	}
}

func TestSession_CommitAdvancesDraft(t *testing.T) {
	s := NewSession(nil)

	for n := 1; n <= 3; n++ {
		before := len(s.Committed())
		fill(s, "stem", "a", "b", "c", "d")
		s.SetAnswer(models.LetterC)

		record, err := s.Commit()
		require.NoError(t, err)
		assert.Equal(t, n, record.Number)

		assert.Len(t, s.Committed(), before+1)
		draft := s.Draft()
		assert.Equal(t, before+2, draft.Number)
		assert.Empty(t, draft.Stem)
		assert.Equal(t, [models.OptionCount]string{}, draft.Options)
		assert.Equal(t, models.LetterA, draft.Answer)
	}
}

func TestSession_CommitRejectsIncompleteDraft(t *testing.T) {
	s := NewSession(nil)
	fill(s, "Capital of France?", "Paris", "Rome", "Oslo")
	s.SetAnswer(models.LetterA)
	before := s.Draft()

	assert.False(t, s.CanCommit())
	_, err := s.Commit()
	require.Error(t, err)

	errs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "options[3]", errs[0].Field)
	assert.True(t, validator.IsValidationError(err))

	assert.Equal(t, before, s.Draft())
	assert.Empty(t, s.Committed())
	assert.Empty(t, s.ExportAll())
	assert.Equal(t, []string{"options[3]"}, s.Missing())
}

func TestSession_SettersIgnoreInvalidLetters(t *testing.T) {
	s := NewSession(nil)
	s.SetOption("E", "extra")
	s.SetAnswer("Z")

	draft := s.Draft()
	assert.Equal(t, [models.OptionCount]string{}, draft.Options)
	assert.Equal(t, models.LetterA, draft.Answer)
}

func TestSession_AnswerMayPrecedeOptionText(t *testing.T) {
	s := NewSession(nil)
	s.SetAnswer(models.LetterD)
	assert.Equal(t, models.LetterD, s.Draft().Answer)
	assert.Empty(t, s.Draft().Options[3])
}

func TestSession_ExportAllIsPure(t *testing.T) {
	s := NewSession(nil)
	fill(s, "one", "a", "b", "c", "d")
	_, err := s.Commit()
	require.NoError(t, err)
	fill(s, "two", "e", "f", "g", "h")
	s.SetAnswer(models.LetterD)

	draftBefore := s.Draft()
	committedBefore := s.Committed()
	canCommitBefore := s.CanCommit()

	first := s.ExportAll()
	second := s.ExportAll()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ExportAll() differs between calls (-first +second):\n%s", diff)
	}

	require.Len(t, first, 2)
	assert.Equal(t, 1, first[0].Number)
	assert.Equal(t, 2, first[1].Number)
	assert.Equal(t, models.LetterD, first[1].Answer)

	assert.Equal(t, draftBefore, s.Draft())
	assert.Equal(t, committedBefore, s.Committed())
	assert.Equal(t, canCommitBefore, s.CanCommit())

	// The exported set does not alias session state.
	first[0].Stem = "changed"
	assert.Equal(t, "one", s.Committed()[0].Stem)
}

func TestSession_ExportAllExcludesIncompleteDraft(t *testing.T) {
	s := NewSession(nil)
	fill(s, "one", "a", "b", "c", "d")
	_, err := s.Commit()
	require.NoError(t, err)
	s.SetStem("two")

	set := s.ExportAll()
	require.Len(t, set, 1)
	assert.Equal(t, "one", set[0].Stem)
}

func TestSession_ResetDraftKeepsNumber(t *testing.T) {
	s := NewSession(nil)
	fill(s, "one", "a", "b", "c", "d")
	_, err := s.Commit()
	require.NoError(t, err)

	fill(s, "two", "e", "f")
	s.SetAnswer(models.LetterB)
	s.ResetDraft()

	draft := s.Draft()
	assert.Equal(t, 2, draft.Number)
	assert.Empty(t, draft.Stem)
	assert.Equal(t, [models.OptionCount]string{}, draft.Options)
	assert.Equal(t, models.LetterA, draft.Answer)
	assert.Len(t, s.Committed(), 1)
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Target
		ok   bool
	}{
		{"stem", StemTarget(), true},
		{" STEM ", StemTarget(), true},
		{"option:b", OptionTarget(models.LetterB), true},
		{"D", OptionTarget(models.LetterD), true},
		{"(c)", OptionTarget(models.LetterC), true},
		{"option:e", Target{}, false},
		{"answer", Target{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTarget(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSession_AppendRenumbers(t *testing.T) {
	s := NewSession(nil)
	fill(s, "one", "a", "b", "c", "d")
	_, err := s.Commit()
	require.NoError(t, err)
	s.SetStem("draft in progress")

	require.NoError(t, s.Append([]models.QuestionRecord{
		{Number: 7, Stem: "imported", Options: [models.OptionCount]string{"w", "x", "y", "z"}, Answer: models.LetterC},
		{Number: 7, Stem: "imported again", Options: [models.OptionCount]string{"1", "2", "3", "4"}, Answer: models.LetterD},
	}))

	committed := s.Committed()
	require.Len(t, committed, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{committed[0].Number, committed[1].Number, committed[2].Number})
	assert.Equal(t, "imported", committed[1].Stem)
	assert.NotNil(t, committed[2].Images)

	draft := s.Draft()
	assert.Equal(t, 4, draft.Number)
	assert.Equal(t, "draft in progress", draft.Stem)
}

func TestSession_AppendRejectsIncompleteRecords(t *testing.T) {
	s := NewSession(nil)
	fill(s, "one", "a", "b", "c", "d")
	_, err := s.Commit()
	require.NoError(t, err)

	err = s.Append([]models.QuestionRecord{
		{Number: 1, Stem: "fine", Options: [models.OptionCount]string{"w", "x", "y", "z"}, Answer: models.LetterA},
		{Number: 2, Stem: "  ", Options: [models.OptionCount]string{"w", "", "y", "z"}, Answer: models.LetterA},
	})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{"records[1].stem", "records[1].options[1]"}, fields)

	assert.Len(t, s.Committed(), 1)
	assert.Equal(t, 2, s.Draft().Number)
}
