package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/planforge/planforge/internal/core/domain"
)

func fixturePlan() *domain.Plan {
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	return &domain.Plan{
		ID:          "plan-1",
		DocumentID:  "doc-1",
		ProjectName: "Launch",
		Description: "Ship the product.",
		StartDate:   start,
		Finish:      start.AddDate(0, 0, 15),
		TotalDays:   15,
		Phases: []domain.Phase{
			{
				Name: "Development", Kind: domain.PhaseDevelopment, Order: 1,
				Start: start, Finish: start.AddDate(0, 0, 10),
				Tasks: []domain.Task{
					{ID: 1, Name: "Build Service", Notes: "Core work.", Priority: domain.PriorityHigh,
						DurationDays: 10, Start: start, Finish: start.AddDate(0, 0, 10), OutlineLevel: 2},
				},
			},
			{
				Name: "Testing", Kind: domain.PhaseTesting, Order: 2,
				Start: start.AddDate(0, 0, 5), Finish: start.AddDate(0, 0, 10),
				Tasks: []domain.Task{
					{ID: 2, Name: "Run Load Tests", Priority: domain.PriorityMedium,
						DurationDays: 5, Start: start.AddDate(0, 0, 5), Finish: start.AddDate(0, 0, 10),
						Predecessor: 1, OutlineLevel: 3},
				},
			},
		},
	}
}

func TestBuildTable(t *testing.T) {
	table := BuildTable(fixturePlan())

	if len(table.Rows) != 5 {
		t.Fatalf("rows = %d, want summary + 2 phases + 2 tasks", len(table.Rows))
	}

	summary := table.Rows[0]
	if summary.ID != "0" || summary.Name != "Launch" || summary.OutlineLevel != "0" {
		t.Errorf("summary row = %+v", summary)
	}
	if summary.Duration != "15 days" {
		t.Errorf("summary duration = %q", summary.Duration)
	}
	if summary.Start != "Mon 03/02/26" {
		t.Errorf("summary start = %q", summary.Start)
	}

	devPhase := table.Rows[1]
	if devPhase.Name != "Development" || devPhase.OutlineLevel != "1" {
		t.Errorf("phase row = %+v", devPhase)
	}
	if devPhase.ID != "" || devPhase.Predecessors != "" {
		t.Errorf("phase row carries task fields: %+v", devPhase)
	}
	if devPhase.Duration != "10 days" {
		t.Errorf("phase duration = %q", devPhase.Duration)
	}

	first := table.Rows[2]
	if first.Notes != "Priority: High. Core work." {
		t.Errorf("task notes = %q", first.Notes)
	}
	if first.Predecessors != "" {
		t.Errorf("first task predecessors = %q, want empty", first.Predecessors)
	}

	second := table.Rows[4]
	if second.Predecessors != "1" {
		t.Errorf("second task predecessors = %q, want 1", second.Predecessors)
	}
	if second.OutlineLevel != "3" {
		t.Errorf("second task outline level = %q", second.OutlineLevel)
	}
}

func TestBuildTableSingleDayDuration(t *testing.T) {
	plan := fixturePlan()
	plan.Phases[0].Tasks[0].DurationDays = 1

	table := BuildTable(plan)
	if got := table.Rows[2].Duration; got != "1 day" {
		t.Errorf("duration = %q, want 1 day", got)
	}
}

func TestBuildTimeline(t *testing.T) {
	timeline := BuildTimeline(fixturePlan())

	if len(timeline.Phases) != 2 {
		t.Fatalf("phase spans = %d, want 2", len(timeline.Phases))
	}
	if len(timeline.Tasks) != 2 {
		t.Fatalf("task spans = %d, want 2", len(timeline.Tasks))
	}
	if timeline.Tasks[1].Phase != "Testing" {
		t.Errorf("second task phase = %q", timeline.Tasks[1].Phase)
	}
	if timeline.Phases[0].DurationDays != 10 {
		t.Errorf("first phase span = %d days", timeline.Phases[0].DurationDays)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, fixturePlan()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("records = %d, want header + 5 rows", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(Columns, ",") {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "Launch" || records[2][1] != "Development" || records[3][1] != "Build Service" {
		t.Errorf("unexpected row names: %v / %v / %v", records[1], records[2], records[3])
	}
}
