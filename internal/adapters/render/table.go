package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/planforge/planforge/internal/core/domain"
)

// dateLayout matches the scheduling-tool convention the exports target.
const dateLayout = "Mon 01/02/06"

// Columns is the fixed header of the tabular plan view.
var Columns = []string{
	"ID", "Name", "Active", "Task Mode", "Duration",
	"Start", "Finish", "Predecessors", "Outline Level", "Notes",
}

type Row struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Active       string `json:"active"`
	TaskMode     string `json:"task_mode"`
	Duration     string `json:"duration"`
	Start        string `json:"start"`
	Finish       string `json:"finish"`
	Predecessors string `json:"predecessors"`
	OutlineLevel string `json:"outline_level"`
	Notes        string `json:"notes"`
}

type Table struct {
	ProjectName string   `json:"project_name"`
	Columns     []string `json:"columns"`
	Rows        []Row    `json:"rows"`
}

// BuildTable flattens a plan into scheduling-tool rows: a level-0 summary row
// for the whole project, then each phase as a level-1 group row followed by
// its tasks. Group rows carry no ID so Predecessors always reference task IDs.
func BuildTable(plan *domain.Plan) Table {
	table := Table{
		ProjectName: plan.ProjectName,
		Columns:     Columns,
	}

	table.Rows = append(table.Rows, Row{
		ID:           "0",
		Name:         plan.ProjectName,
		Active:       "Yes",
		TaskMode:     "Auto Scheduled",
		Duration:     formatDuration(plan.TotalDays),
		Start:        plan.StartDate.Format(dateLayout),
		Finish:       plan.Finish.Format(dateLayout),
		OutlineLevel: "0",
		Notes:        plan.Description,
	})

	for _, phase := range plan.Phases {
		table.Rows = append(table.Rows, Row{
			Name:         phase.Name,
			Active:       "Yes",
			TaskMode:     "Auto Scheduled",
			Duration:     formatDuration(spanDays(phase.Start, phase.Finish)),
			Start:        phase.Start.Format(dateLayout),
			Finish:       phase.Finish.Format(dateLayout),
			OutlineLevel: "1",
		})
		for _, task := range phase.Tasks {
			row := Row{
				ID:           strconv.Itoa(task.ID),
				Name:         task.Name,
				Active:       "Yes",
				TaskMode:     "Auto Scheduled",
				Duration:     formatDuration(task.DurationDays),
				Start:        task.Start.Format(dateLayout),
				Finish:       task.Finish.Format(dateLayout),
				OutlineLevel: strconv.Itoa(task.OutlineLevel),
				Notes:        taskNotes(task),
			}
			if task.Predecessor != 0 {
				row.Predecessors = strconv.Itoa(task.Predecessor)
			}
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}

func spanDays(start, finish time.Time) int {
	return int(finish.Sub(start).Hours() / 24)
}

func formatDuration(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func taskNotes(task domain.Task) string {
	notes := fmt.Sprintf("Priority: %s.", titleCase(string(task.Priority)))
	if task.Notes != "" {
		notes += " " + task.Notes
	}
	return notes
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
