package domain

// PhaseKind is the canonical project stage a task or marker maps to.
type PhaseKind string

const (
	PhaseResearch    PhaseKind = "research"
	PhaseDesign      PhaseKind = "design"
	PhaseDevelopment PhaseKind = "development"
	PhaseTesting     PhaseKind = "testing"
	PhaseDeployment  PhaseKind = "deployment"
	PhaseUnspecified PhaseKind = ""
)

// CanonicalPhaseOrder is the fallback stage sequence used when a document
// carries no recognizable phase structure.
var CanonicalPhaseOrder = []PhaseKind{
	PhaseResearch,
	PhaseDesign,
	PhaseDevelopment,
	PhaseTesting,
	PhaseDeployment,
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TaskCandidate is a unit of work identified in the text, before it is
// organized into a plan.
type TaskCandidate struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Priority     Priority  `json:"priority"`
	DurationDays int       `json:"duration_days,omitempty"`
	Phase        PhaseKind `json:"phase,omitempty"`
	Position     int       `json:"position"`
}

// PhaseMarker is a stage mention found in the text. Position is the index of
// the sentence it was found in and doubles as the ordering hint.
type PhaseMarker struct {
	Name     string    `json:"name"`
	Kind     PhaseKind `json:"kind"`
	Position int       `json:"position"`
}

// Extraction is everything the semantic stage recognized in a document.
// A zero-valued Extraction is legal: vague input degrades, it never errors.
type Extraction struct {
	Objectives []string        `json:"objectives,omitempty"`
	Tasks      []TaskCandidate `json:"tasks,omitempty"`
	Phases     []PhaseMarker   `json:"phases,omitempty"`
	Dates      []string        `json:"dates,omitempty"`

	// Confidence is the share of sentences that contributed anything.
	// Completeness is 1 when both tasks and phases were found, 0.5 when only
	// one kind was, 0 otherwise.
	Confidence   float64 `json:"confidence"`
	Completeness float64 `json:"completeness"`
}

func (e Extraction) Empty() bool {
	return len(e.Tasks) == 0 && len(e.Phases) == 0 && len(e.Objectives) == 0
}
