package planner

import "github.com/planforge/planforge/internal/core/domain"

// Templates carries the phase naming, fallback durations and scaffold tasks
// the synthesizer uses. Bootstrap derives one from the extraction lexicon so
// both stages agree on phase vocabulary.
type Templates struct {
	PhaseNames   map[domain.PhaseKind]string
	DefaultDays  map[domain.PhaseKind]int
	DefaultTasks map[domain.PhaseKind]string
}

func DefaultTemplates() Templates {
	return Templates{
		PhaseNames: map[domain.PhaseKind]string{
			domain.PhaseResearch:    "Research",
			domain.PhaseDesign:      "Design",
			domain.PhaseDevelopment: "Development",
			domain.PhaseTesting:     "Testing",
			domain.PhaseDeployment:  "Deployment",
		},
		DefaultDays: map[domain.PhaseKind]int{
			domain.PhaseResearch:    3,
			domain.PhaseDesign:      5,
			domain.PhaseDevelopment: 10,
			domain.PhaseTesting:     5,
			domain.PhaseDeployment:  2,
		},
		DefaultTasks: map[domain.PhaseKind]string{
			domain.PhaseResearch:    "Requirements Analysis",
			domain.PhaseDesign:      "System Design",
			domain.PhaseDevelopment: "Core Development",
			domain.PhaseTesting:     "Functional Testing",
			domain.PhaseDeployment:  "Production Deployment",
		},
	}
}

func (t Templates) phaseName(kind domain.PhaseKind) string {
	if name, ok := t.PhaseNames[kind]; ok {
		return name
	}
	return "General"
}

func (t Templates) defaultDays(kind domain.PhaseKind) int {
	if days, ok := t.DefaultDays[kind]; ok && days > 0 {
		return days
	}
	return 5
}

func (t Templates) defaultTask(kind domain.PhaseKind, phaseName string) string {
	if name, ok := t.DefaultTasks[kind]; ok && kind != domain.PhaseUnspecified {
		return name
	}
	return "Plan " + phaseName
}
