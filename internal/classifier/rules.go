package classifier

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/SAP-F-2025/question-extractor/internal/models"
)

const (
	bullets     = `[•●▪◦*\-–]`
	letterToken = `(?:\(([a-d])\)|([a-d])[.)])`
)

// markers holds the compiled patterns shared by the rules. Lead patterns are
// anchored at the start of the remaining text; stop patterns find where the
// next marker begins inside a span (group 1 marks the marker itself).
type markers struct {
	questionLead    *regexp.Regexp
	optionLead      *regexp.Regexp
	answerLead      *regexp.Regexp
	explanationLead *regexp.Regexp

	questionStop    *regexp.Regexp
	optionStop      *regexp.Regexp
	answerStop      *regexp.Regexp
	explanationStop *regexp.Regexp
}

func compileMarkers(strategy Strategy, answerLabels, explanationLabels []string) *markers {
	m := &markers{
		questionLead: regexp.MustCompile(`^\d{1,4}[.)]\s+`),
		questionStop: regexp.MustCompile(`(?:^|\s)(\d{1,4}[.)]\s)`),
		optionStop:   regexp.MustCompile(`(?i)(?:^|\s)(` + bullets + `\s*(?:\([a-d]\)|[a-d][.)])|\([a-d]\))`),
	}

	// Options always accept a bullet followed by a letter token, or a bare
	// "(x)". The line strategy also accepts a bare leading bullet and a
	// leading "x)" / "x." token.
	optionLead := `(?i)^(?:` + bullets + `\s*` + letterToken + `|\(([a-d])\)`
	if strategy == StrategyLine {
		optionLead += `|([a-d])[.)]\s|` + bullets
	}
	optionLead += `)\s*`
	m.optionLead = regexp.MustCompile(optionLead)

	explanationOnly := subtractLabels(explanationLabels, answerLabels)

	if p := labelPattern(answerLabels); p != "" {
		m.answerLead = regexp.MustCompile(`(?i)^` + p + `\s*:\s*`)
		m.answerStop = regexp.MustCompile(`(?i)(?:^|\s)(` + p + `\s*:)`)
	}
	if p := labelPattern(explanationOnly); p != "" {
		m.explanationLead = regexp.MustCompile(`(?i)^` + p + `\s*:\s*`)
		m.explanationStop = regexp.MustCompile(`(?i)(?:^|\s)(` + p + `\s*:)`)
	}
	return m
}

// labelPattern builds an alternation that tries longer labels first.
func labelPattern(labels []string) string {
	cleaned := make([]string, 0, len(labels))
	for _, label := range labels {
		if label = strings.TrimSpace(label); label != "" {
			cleaned = append(cleaned, label)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	sort.SliceStable(cleaned, func(i, j int) bool {
		return len(cleaned[i]) > len(cleaned[j])
	})
	for i, label := range cleaned {
		cleaned[i] = regexp.QuoteMeta(label)
	}
	return `(?:` + strings.Join(cleaned, "|") + `)`
}

// subtractLabels drops from labels every entry present in claimed, ignoring case.
func subtractLabels(labels, claimed []string) []string {
	var out []string
	for _, label := range labels {
		taken := false
		for _, c := range claimed {
			if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(c)) {
				taken = true
				break
			}
		}
		if !taken {
			out = append(out, label)
		}
	}
	return out
}

// span is what a rule extracted from the start of the remaining text.
type span struct {
	text     string
	letter   models.OptionLetter
	consumed int
}

// rule is one (predicate, extractor) pair. Rules are evaluated in order and
// the first one whose lead matches claims the span.
type rule struct {
	name  string
	role  models.FragmentRole
	lead  *regexp.Regexp
	stops []*regexp.Regexp
}

func (r rule) match(rest string) (span, bool) {
	if r.lead == nil {
		return span{}, false
	}
	loc := r.lead.FindStringSubmatchIndex(rest)
	if loc == nil {
		return span{}, false
	}

	var letter models.OptionLetter
	for g := 1; g*2+1 < len(loc); g++ {
		if loc[g*2] >= 0 && loc[g*2+1] > loc[g*2] {
			letter = models.OptionLetter(strings.ToUpper(rest[loc[g*2]:loc[g*2+1]]))
			break
		}
	}

	body := rest[loc[1]:]
	end := nextStop(body, r.stops)
	return span{text: body[:end], letter: letter, consumed: loc[1] + end}, true
}

// plainSpan takes the unmatched text up to the next marker. It always
// consumes at least one rune so that classification makes progress.
func plainSpan(rest string, stops []*regexp.Regexp) span {
	_, size := utf8.DecodeRuneInString(rest)
	end := size + nextStop(rest[size:], stops)
	return span{text: rest[:end], consumed: end}
}

// nextStop returns the offset of the earliest marker in s, or len(s).
func nextStop(s string, stops []*regexp.Regexp) int {
	end := len(s)
	for _, stop := range stops {
		if stop == nil {
			continue
		}
		if loc := stop.FindStringSubmatchIndex(s); loc != nil && loc[2] < end {
			end = loc[2]
		}
	}
	return end
}

func buildRules(m *markers) []rule {
	all := []*regexp.Regexp{m.questionStop, m.optionStop, m.answerStop, m.explanationStop}
	return []rule{
		{name: "question", role: models.RoleQuestion, lead: m.questionLead, stops: all},
		{name: "option", role: models.RoleOption, lead: m.optionLead, stops: all},
		{name: "answer", role: models.RoleAnswer, lead: m.answerLead, stops: []*regexp.Regexp{m.questionStop, m.explanationStop}},
		{name: "explanation", role: models.RoleExplanation, lead: m.explanationLead, stops: []*regexp.Regexp{m.questionStop, m.answerStop}},
	}
}
