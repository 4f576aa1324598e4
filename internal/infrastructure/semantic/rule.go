package semantic

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/planforge/planforge/internal/core/domain"
)

const (
	maxTasks      = 15
	maxObjectives = 3
	maxDates      = 5
	maxNameLen    = 100
)

// RuleExtractor is the default, fully deterministic semantic stage. It
// recognizes tasks by verb stems, phases by stage keywords, and never fails
// on vague input.
type RuleExtractor struct {
	lex Lexicon
}

func NewRuleExtractor(lex Lexicon) *RuleExtractor {
	return &RuleExtractor{lex: lex}
}

var (
	durationPattern = regexp.MustCompile(`(\d+)\s*(day|week|month)s?`)
	datePatterns    = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
		regexp.MustCompile(`(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}`),
	}
)

func (e *RuleExtractor) ExtractEntities(_ context.Context, text string) (domain.Extraction, error) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return domain.Extraction{}, nil
	}

	var ex domain.Extraction
	contributing := 0

	for idx, sentence := range sentences {
		found := false

		if task, ok := e.taskFromSentence(sentence, idx); ok && len(ex.Tasks) < maxTasks {
			ex.Tasks = append(ex.Tasks, task)
			found = true
		}
		if marker, ok := e.phaseFromSentence(sentence, idx); ok {
			ex.Phases = append(ex.Phases, marker)
			found = true
		}
		if found {
			contributing++
		}
	}

	for i := 0; i < len(sentences) && i < maxObjectives; i++ {
		ex.Objectives = append(ex.Objectives, sentences[i])
	}
	ex.Dates = extractDates(text)

	ex.Confidence = float64(contributing) / float64(len(sentences))
	switch {
	case len(ex.Tasks) > 0 && len(ex.Phases) > 0:
		ex.Completeness = 1
	case len(ex.Tasks) > 0 || len(ex.Phases) > 0:
		ex.Completeness = 0.5
	}
	return ex, nil
}

func (e *RuleExtractor) taskFromSentence(sentence string, position int) (domain.TaskCandidate, bool) {
	fields := strings.Fields(sentence)
	if len(fields) < 2 {
		return domain.TaskCandidate{}, false
	}

	verbIdx := -1
	var kind domain.PhaseKind
	for i, f := range fields {
		word := trimWord(f)
		if word == "" {
			continue
		}
		if k, ok := matchKeyword(e.lex.TaskVerbs, word); ok {
			verbIdx = i
			kind = k
			break
		}
	}
	if verbIdx == -1 {
		return domain.TaskCandidate{}, false
	}

	name := windowName(fields, verbIdx, 1, 4)
	if name == "" || len(name) > maxNameLen {
		return domain.TaskCandidate{}, false
	}

	lower := strings.ToLower(sentence)
	return domain.TaskCandidate{
		Name:         name,
		Description:  truncate(sentence, 200),
		Priority:     e.estimatePriority(lower),
		DurationDays: estimateDurationDays(lower),
		Phase:        kind,
		Position:     position,
	}, true
}

func (e *RuleExtractor) phaseFromSentence(sentence string, position int) (domain.PhaseMarker, bool) {
	fields := strings.Fields(sentence)

	markerIdx := -1
	var kind domain.PhaseKind
	for i, f := range fields {
		word := trimWord(f)
		if word == "" {
			continue
		}
		k, ok := matchKeyword(e.lex.PhaseKeywords, word)
		if !ok {
			continue
		}
		if markerIdx == -1 {
			markerIdx = i
			kind = k
		}
		// A structural marker ("phase", "stage") takes its kind from any
		// stage keyword elsewhere in the sentence.
		if kind == domain.PhaseUnspecified && k != domain.PhaseUnspecified {
			kind = k
		}
	}
	if markerIdx == -1 {
		return domain.PhaseMarker{}, false
	}

	name := windowName(fields, markerIdx, 2, 3)
	if name == "" {
		return domain.PhaseMarker{}, false
	}
	if kind != domain.PhaseUnspecified {
		name = e.lex.PhaseName(kind)
	}
	return domain.PhaseMarker{Name: name, Kind: kind, Position: position}, true
}

func (e *RuleExtractor) estimatePriority(lowerSentence string) domain.Priority {
	for _, kw := range e.lex.PriorityHigh {
		if strings.Contains(lowerSentence, kw) {
			return domain.PriorityHigh
		}
	}
	for _, kw := range e.lex.PriorityLow {
		if strings.Contains(lowerSentence, kw) {
			return domain.PriorityLow
		}
	}
	return domain.PriorityMedium
}

func estimateDurationDays(lowerSentence string) int {
	m := durationPattern.FindStringSubmatch(lowerSentence)
	if m == nil {
		return 0
	}
	days := atoiSafe(m[1])
	switch m[2] {
	case "week":
		days *= 7
	case "month":
		days *= 30
	}
	if days > 30 {
		days = 30
	}
	return days
}

func extractDates(text string) []string {
	remaining := strings.ToLower(text)
	var out []string
	for _, p := range datePatterns {
		for _, m := range p.FindAllString(remaining, -1) {
			out = append(out, m)
		}
		// Blank matched spans so looser patterns cannot re-match inside them.
		remaining = p.ReplaceAllStringFunc(remaining, func(m string) string {
			return strings.Repeat(" ", len(m))
		})
		if len(out) >= maxDates {
			break
		}
	}
	if len(out) > maxDates {
		out = out[:maxDates]
	}
	return out
}

// matchKeyword matches a word against keyword stems: the word may extend the
// stem ("deploys" vs "deploy"), or a word of at least 4 runes may be a prefix
// of the stem ("test" vs "testing"). The longest matching stem wins, with a
// lexicographic tie-break, so results never depend on map iteration order.
func matchKeyword(stems map[string]domain.PhaseKind, word string) (domain.PhaseKind, bool) {
	best := ""
	var bestKind domain.PhaseKind
	for stem, kind := range stems {
		matches := strings.HasPrefix(word, stem) ||
			(len(word) >= 4 && strings.HasPrefix(stem, word))
		if !matches {
			continue
		}
		if len(stem) > len(best) || (len(stem) == len(best) && stem < best) {
			best = stem
			bestKind = kind
		}
	}
	return bestKind, best != ""
}

func trimWord(field string) string {
	return strings.ToLower(strings.Trim(field, ".,!?;:()'\""))
}

// windowName builds a title-cased name from the words around an anchor.
func windowName(fields []string, anchor, before, after int) string {
	start := anchor - before
	if start < 0 {
		start = 0
	}
	end := anchor + after
	if end > len(fields) {
		end = len(fields)
	}

	var sb strings.Builder
	for _, f := range fields[start:end] {
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return ' '
		}, f)
		for _, w := range strings.Fields(cleaned) {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(titleWord(w))
		}
	}
	return sb.String()
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
