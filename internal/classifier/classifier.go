// Package classifier turns raw extracted text into an ordered sequence of
// role-tagged fragments. Classification is deterministic and never fails:
// text that no rule claims is either kept as plain filler or dropped.
package classifier

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/SAP-F-2025/question-extractor/internal/models"
)

type Strategy string

const (
	// StrategyBlock splits before every "<number>." / "<number>)" token and
	// decomposes each question block by its embedded markers.
	StrategyBlock Strategy = "block"
	// StrategyLine classifies every non-blank line on its own.
	StrategyLine Strategy = "line"
)

// DefaultMinPlainLength is the length unmatched text must exceed to be kept.
const DefaultMinPlainLength = 15

var (
	DefaultAnswerLabels      = []string{"Answer", "Ans", "Correct", "Solution"}
	DefaultExplanationLabels = []string{"Explanation", "Because", "Reason", "Solution"}
)

// ParseStrategy maps a configuration value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyBlock:
		return StrategyBlock, nil
	case StrategyLine:
		return StrategyLine, nil
	default:
		return "", fmt.Errorf("unknown classifier strategy %q", s)
	}
}

// Options configures a Classifier. Zero values fall back to the defaults.
type Options struct {
	Strategy          Strategy `yaml:"strategy"`
	MinPlainLength    int      `yaml:"min_plain_length"`
	AnswerLabels      []string `yaml:"answer_labels"`
	ExplanationLabels []string `yaml:"explanation_labels"`
}

func DefaultOptions() Options {
	return Options{
		Strategy:          StrategyBlock,
		MinPlainLength:    DefaultMinPlainLength,
		AnswerLabels:      DefaultAnswerLabels,
		ExplanationLabels: DefaultExplanationLabels,
	}
}

type Classifier struct {
	strategy    Strategy
	minPlain    int
	fingerprint string
	markers     *markers
	rules       []rule
	plain       []*regexp.Regexp
}

func New(opts Options) (*Classifier, error) {
	strategy, err := ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	if opts.MinPlainLength < 0 {
		return nil, fmt.Errorf("min plain length must not be negative, got %d", opts.MinPlainLength)
	}
	if opts.MinPlainLength == 0 {
		opts.MinPlainLength = DefaultMinPlainLength
	}
	if len(opts.AnswerLabels) == 0 {
		opts.AnswerLabels = DefaultAnswerLabels
	}
	if len(opts.ExplanationLabels) == 0 {
		opts.ExplanationLabels = DefaultExplanationLabels
	}

	m := compileMarkers(strategy, opts.AnswerLabels, opts.ExplanationLabels)
	fingerprint := fmt.Sprintf("%s|%d|%s|%s", strategy, opts.MinPlainLength,
		strings.Join(opts.AnswerLabels, ","), strings.Join(opts.ExplanationLabels, ","))
	return &Classifier{
		strategy:    strategy,
		minPlain:    opts.MinPlainLength,
		fingerprint: fingerprint,
		markers:     m,
		rules:       buildRules(m),
		plain:       []*regexp.Regexp{m.questionStop, m.optionStop, m.answerStop, m.explanationStop},
	}, nil
}

// MustNew is New for static options; it panics on invalid options.
func MustNew(opts Options) *Classifier {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Classifier) Strategy() Strategy {
	return c.strategy
}

// Fingerprint identifies the configuration; two classifiers with the same
// fingerprint produce the same fragments for the same text.
func (c *Classifier) Fingerprint() string {
	return c.fingerprint
}

// Classify classifies one unit of text. SourceOrder starts at 0.
func (c *Classifier) Classify(text string) []models.Fragment {
	fragments := []models.Fragment{}
	order := 0
	for _, chunk := range c.chunks(text) {
		c.classifyChunk(chunk, func(role models.FragmentRole, fragmentText string, letter models.OptionLetter) {
			fragments = append(fragments, models.Fragment{
				Role:        role,
				Text:        fragmentText,
				SourceOrder: order,
				Letter:      letter,
			})
			order++
		})
	}
	return fragments
}

// ClassifyPage classifies one page handed over by a text source. A page
// whose extraction failed, or that carries no text layer, yields a single
// plain sentinel fragment describing the problem.
func (c *Classifier) ClassifyPage(page models.PageText) []models.Fragment {
	var fragments []models.Fragment
	switch page.Status {
	case models.PageNoText, models.PageFailed:
		fragments = []models.Fragment{{Role: models.RolePlain, Text: SentinelText(page)}}
	default:
		fragments = c.Classify(page.Text)
	}
	for i := range fragments {
		fragments[i].Page = page.Number
	}
	return fragments
}

// ClassifyDocument classifies pages in order. SourceOrder runs across the
// whole document.
func (c *Classifier) ClassifyDocument(pages []models.PageText) []models.Fragment {
	fragments := []models.Fragment{}
	for _, page := range pages {
		fragments = append(fragments, Renumber(c.ClassifyPage(page), len(fragments))...)
	}
	return fragments
}

// Renumber returns a copy of fragments whose SourceOrder starts at start.
func Renumber(fragments []models.Fragment, start int) []models.Fragment {
	out := make([]models.Fragment, len(fragments))
	for i, f := range fragments {
		f.SourceOrder = start + i
		out[i] = f
	}
	return out
}

// SentinelText is the notice emitted in place of a page without usable text.
func SentinelText(page models.PageText) string {
	if page.Status == models.PageNoText {
		return fmt.Sprintf("[Page %d] No extractable text was found on this page.", page.Number)
	}
	if page.Error != "" {
		return fmt.Sprintf("[Page %d] Text extraction failed: %s", page.Number, page.Error)
	}
	return fmt.Sprintf("[Page %d] Text extraction failed.", page.Number)
}

func (c *Classifier) chunks(text string) []string {
	if c.strategy == StrategyLine {
		return splitLines(text)
	}
	return c.splitBlocks(text)
}

// splitBlocks cuts text before every question marker.
func (c *Classifier) splitBlocks(text string) []string {
	var blocks []string
	start := 0
	for _, loc := range c.markers.questionStop.FindAllStringSubmatchIndex(text, -1) {
		if loc[2] > start {
			blocks = append(blocks, text[start:loc[2]])
			start = loc[2]
		}
	}
	blocks = append(blocks, text[start:])
	return blocks
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

type emitFunc func(role models.FragmentRole, text string, letter models.OptionLetter)

// classifyChunk applies the rules to the chunk until it is used up. Every
// claimed span is removed before the rules run again on what is left.
func (c *Classifier) classifyChunk(chunk string, emit emitFunc) {
	rest := normalize(chunk)
	for rest != "" {
		matched := false
		for _, r := range c.rules {
			sp, ok := r.match(rest)
			if !ok {
				continue
			}
			if text := normalize(sp.text); text != "" {
				emit(r.role, text, sp.letter)
			}
			rest = strings.TrimSpace(rest[sp.consumed:])
			matched = true
			break
		}
		if matched {
			continue
		}

		sp := plainSpan(rest, c.plain)
		if text := normalize(sp.text); c.keepPlain(text) {
			emit(models.RolePlain, text, "")
		}
		rest = strings.TrimSpace(rest[sp.consumed:])
	}
}

// keepPlain filters unmatched text: it must be longer than the threshold and
// not entirely upper case (headers and titles).
func (c *Classifier) keepPlain(text string) bool {
	if utf8.RuneCountInString(text) <= c.minPlain {
		return false
	}
	return strings.ToUpper(text) != text
}

// normalize collapses whitespace runs to a single space and trims.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
