package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/planforge/planforge/internal/core/domain"
	"github.com/planforge/planforge/internal/core/planner"
	"github.com/planforge/planforge/internal/core/ports"
)

// planNamespace seeds deterministic plan IDs: rebuilding the same document
// always yields the same plan ID.
var planNamespace = uuid.MustParse("7c9e3a52-1f4b-4d8e-9c6a-2b5d8f013e47")

type BuildPlanUseCase struct {
	docs       ports.DocumentRepository
	plans      ports.PlanRepository
	loader     ports.DocumentLoader
	normalizer ports.TextNormalizer
	extractor  ports.EntityExtractor
	synth      *planner.Synthesizer
	graph      ports.GraphProjector
}

func NewBuildPlanUseCase(
	docs ports.DocumentRepository,
	plans ports.PlanRepository,
	loader ports.DocumentLoader,
	normalizer ports.TextNormalizer,
	extractor ports.EntityExtractor,
	synth *planner.Synthesizer,
	graph ports.GraphProjector,
) *BuildPlanUseCase {
	return &BuildPlanUseCase{
		docs:       docs,
		plans:      plans,
		loader:     loader,
		normalizer: normalizer,
		extractor:  extractor,
		synth:      synth,
		graph:      graph,
	}
}

func (uc *BuildPlanUseCase) BuildByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	plan, err := uc.buildPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.plans.Save(ctx, plan); err != nil {
		err = fmt.Errorf("save plan: %w", err)
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	uc.projectGraph(ctx, plan)

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *BuildPlanUseCase) buildPipeline(ctx context.Context, documentID string) (*domain.Plan, error) {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	plan, err := runPipeline(ctx, pipelineDeps{
		loader:     uc.loader,
		normalizer: uc.normalizer,
		extractor:  uc.extractor,
		synth:      uc.synth,
	}, doc)
	if err != nil {
		return nil, err
	}

	plan.ID = uuid.NewSHA1(planNamespace, []byte(doc.ID)).String()
	plan.CreatedAt = time.Now().UTC()
	return plan, nil
}

// projectGraph mirrors the plan into the graph store on a best-effort basis;
// the plan is already durable, so projection failures only log.
func (uc *BuildPlanUseCase) projectGraph(ctx context.Context, plan *domain.Plan) {
	if uc.graph == nil {
		return
	}
	if err := uc.graph.ProjectPlan(ctx, plan); err != nil {
		slog.Warn("plan_graph_projection_failed",
			slog.String("plan_id", plan.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (uc *BuildPlanUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.docs.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *BuildPlanUseCase) markFailed(ctx context.Context, documentID string, buildErr error) error {
	if buildErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, buildErr.Error())
}

// pipelineDeps groups the stages shared by asynchronous builds and
// synchronous previews.
type pipelineDeps struct {
	loader     ports.DocumentLoader
	normalizer ports.TextNormalizer
	extractor  ports.EntityExtractor
	synth      *planner.Synthesizer
}

func runPipeline(ctx context.Context, deps pipelineDeps, doc *domain.Document) (*domain.Plan, error) {
	raw, err := deps.loader.Load(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	text := deps.normalizer.Normalize(raw)
	if text == "" {
		return nil, domain.WrapError(domain.ErrEmptyDocument, "normalize text",
			fmt.Errorf("no analyzable text in %q", doc.Filename))
	}

	extraction, err := deps.extractor.ExtractEntities(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}

	plan, err := deps.synth.Synthesize(planner.Request{
		DocumentID:  doc.ID,
		ProjectName: doc.ProjectName,
		StartDate:   doc.StartDate,
		Extraction:  extraction,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize plan: %w", err)
	}

	if issues := planner.Validate(plan); len(issues) > 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate plan",
			fmt.Errorf("synthesis produced %d issues: %v", len(issues), issues))
	}
	return plan, nil
}
