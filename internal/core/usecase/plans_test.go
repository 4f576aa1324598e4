package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/planforge/planforge/internal/core/domain"
	"github.com/planforge/planforge/internal/core/planner"
)

func storedPlan(t *testing.T, documentID string) *domain.Plan {
	t.Helper()
	synth := planner.New(planner.DefaultTemplates())
	plan, err := synth.Synthesize(planner.Request{
		DocumentID:  documentID,
		ProjectName: "Launch",
		StartDate:   time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Extraction:  testExtraction(),
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	plan.ID = "plan-1"
	return plan
}

func TestPlanQueryGetByDocumentID(t *testing.T) {
	plan := storedPlan(t, "doc-1")
	plans := &planRepoFake{byDoc: map[string]*domain.Plan{"doc-1": plan}}
	uc := NewPlanQueryUseCase(&docRepoFake{}, plans)

	got, err := uc.GetByDocumentID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByDocumentID: %v", err)
	}
	if got.ID != "plan-1" {
		t.Errorf("plan id = %q", got.ID)
	}
}

func TestPlanQueryGetMissing(t *testing.T) {
	uc := NewPlanQueryUseCase(&docRepoFake{}, &planRepoFake{byDoc: map[string]*domain.Plan{}})

	_, err := uc.GetByDocumentID(context.Background(), "absent")
	if !domain.IsKind(err, domain.ErrPlanNotFound) {
		t.Fatalf("err = %v, want plan not found", err)
	}
}

func TestRescheduleShiftsAllDates(t *testing.T) {
	plan := storedPlan(t, "doc-1")
	oldStart := plan.StartDate
	oldSpan := plan.Finish.Sub(plan.StartDate)
	plans := &planRepoFake{byDoc: map[string]*domain.Plan{"doc-1": plan}}
	uc := NewPlanQueryUseCase(&docRepoFake{}, plans)

	newStart := oldStart.AddDate(0, 1, 0)
	got, err := uc.Reschedule(context.Background(), "doc-1", newStart)
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	if !got.StartDate.Equal(newStart) {
		t.Errorf("start = %v, want %v", got.StartDate, newStart)
	}
	if got.Finish.Sub(got.StartDate) != oldSpan {
		t.Errorf("span changed: %v, want %v", got.Finish.Sub(got.StartDate), oldSpan)
	}
	for _, phase := range got.Phases {
		for _, task := range phase.Tasks {
			if task.Start.Before(newStart) {
				t.Errorf("task %d starts before new plan start", task.ID)
			}
		}
	}
	if plans.saved == nil {
		t.Fatal("rescheduled plan not persisted")
	}
}

func TestRescheduleRequiresStartDate(t *testing.T) {
	uc := NewPlanQueryUseCase(&docRepoFake{}, &planRepoFake{})

	_, err := uc.Reschedule(context.Background(), "doc-1", time.Time{})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
}
