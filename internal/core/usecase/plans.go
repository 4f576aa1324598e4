package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planforge/planforge/internal/core/domain"
	"github.com/planforge/planforge/internal/core/ports"
)

type PlanQueryUseCase struct {
	docs  ports.DocumentRepository
	plans ports.PlanRepository
}

func NewPlanQueryUseCase(docs ports.DocumentRepository, plans ports.PlanRepository) *PlanQueryUseCase {
	return &PlanQueryUseCase{docs: docs, plans: plans}
}

func (uc *PlanQueryUseCase) GetByDocumentID(ctx context.Context, documentID string) (*domain.Plan, error) {
	plan, err := uc.plans.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch plan by document id: %w", err)
	}
	return plan, nil
}

func (uc *PlanQueryUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

// Reschedule shifts every date in a finished plan so it starts at newStart,
// keeping durations and dependencies intact, and persists the result.
func (uc *PlanQueryUseCase) Reschedule(ctx context.Context, documentID string, newStart time.Time) (*domain.Plan, error) {
	if newStart.IsZero() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "reschedule plan",
			errors.New("start date is required"))
	}

	plan, err := uc.plans.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch plan by document id: %w", err)
	}

	plan.Shift(newStart)

	if err := uc.plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("save rescheduled plan: %w", err)
	}
	return plan, nil
}
