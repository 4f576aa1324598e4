package semantic

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/planforge/planforge/internal/core/domain"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon drives the rule-based extractor and the synthesizer defaults.
// Keys are lowercase keyword stems matched by prefix against words.
type Lexicon struct {
	TaskVerbs     map[string]domain.PhaseKind `yaml:"task_verbs"`
	PhaseKeywords map[string]domain.PhaseKind `yaml:"phase_keywords"`
	PriorityHigh  []string                    `yaml:"priority_high"`
	PriorityLow   []string                    `yaml:"priority_low"`

	PhaseNames       map[domain.PhaseKind]string `yaml:"phase_names"`
	PhaseDefaultDays map[domain.PhaseKind]int    `yaml:"phase_default_days"`
	DefaultTasks     map[domain.PhaseKind]string `yaml:"default_tasks"`
}

// LoadLexicon reads the lexicon from path, or the embedded default when path
// is empty.
func LoadLexicon(path string) (Lexicon, error) {
	raw := defaultLexiconYAML
	if path != "" {
		fileRaw, err := os.ReadFile(path)
		if err != nil {
			return Lexicon{}, fmt.Errorf("read lexicon file: %w", err)
		}
		raw = fileRaw
	}

	var lex Lexicon
	if err := yaml.Unmarshal(raw, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon yaml: %w", err)
	}
	if len(lex.TaskVerbs) == 0 || len(lex.PhaseKeywords) == 0 {
		return Lexicon{}, fmt.Errorf("lexicon missing task_verbs or phase_keywords")
	}
	if len(lex.PhaseNames) == 0 {
		return Lexicon{}, fmt.Errorf("lexicon missing phase_names")
	}
	return lex, nil
}

// PhaseName resolves the display name of a canonical phase.
func (l Lexicon) PhaseName(kind domain.PhaseKind) string {
	if name, ok := l.PhaseNames[kind]; ok {
		return name
	}
	return "General"
}

// DefaultDays is the phase-typical duration used when the text carries no
// explicit duration hint.
func (l Lexicon) DefaultDays(kind domain.PhaseKind) int {
	if days, ok := l.PhaseDefaultDays[kind]; ok && days > 0 {
		return days
	}
	return 5
}
