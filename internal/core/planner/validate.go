package planner

import (
	"fmt"

	"github.com/planforge/planforge/internal/core/domain"
)

// Validate checks the structural soundness of a synthesized plan and returns
// a human-readable issue per violation. An empty slice means the plan is
// consistent.
func Validate(plan *domain.Plan) []string {
	var issues []string
	if plan == nil || len(plan.Phases) == 0 {
		return append(issues, "plan contains no phases")
	}

	seen := map[int]string{}
	for _, phase := range plan.Phases {
		if len(phase.Tasks) == 0 {
			issues = append(issues, fmt.Sprintf("phase %q contains no tasks", phase.Name))
		}
		for _, task := range phase.Tasks {
			if task.Name == "" {
				issues = append(issues, fmt.Sprintf("task %d has an empty name", task.ID))
			}
			if task.Finish.Before(task.Start) {
				issues = append(issues, fmt.Sprintf("task %d finishes before it starts", task.ID))
			}
			if prev, ok := seen[task.ID]; ok {
				issues = append(issues, fmt.Sprintf("task %d appears in both %q and %q", task.ID, prev, phase.Name))
				continue
			}
			seen[task.ID] = phase.Name
		}
	}
	return issues
}
