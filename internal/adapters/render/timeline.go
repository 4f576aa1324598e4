package render

import (
	"time"

	"github.com/planforge/planforge/internal/core/domain"
)

type Span struct {
	Label        string    `json:"label"`
	Phase        string    `json:"phase"`
	Start        time.Time `json:"start"`
	Finish       time.Time `json:"finish"`
	DurationDays int       `json:"duration_days"`
}

type Timeline struct {
	ProjectName string    `json:"project_name"`
	Start       time.Time `json:"start"`
	Finish      time.Time `json:"finish"`
	Phases      []Span    `json:"phases"`
	Tasks       []Span    `json:"tasks"`
}

// BuildTimeline projects a plan onto two span tracks, one per phase and one
// per task, for Gantt-style front ends.
func BuildTimeline(plan *domain.Plan) Timeline {
	timeline := Timeline{
		ProjectName: plan.ProjectName,
		Start:       plan.StartDate,
		Finish:      plan.Finish,
	}

	for _, phase := range plan.Phases {
		timeline.Phases = append(timeline.Phases, Span{
			Label:        phase.Name,
			Phase:        phase.Name,
			Start:        phase.Start,
			Finish:       phase.Finish,
			DurationDays: spanDays(phase.Start, phase.Finish),
		})
		for _, task := range phase.Tasks {
			timeline.Tasks = append(timeline.Tasks, Span{
				Label:        task.Name,
				Phase:        phase.Name,
				Start:        task.Start,
				Finish:       task.Finish,
				DurationDays: task.DurationDays,
			})
		}
	}
	return timeline
}
