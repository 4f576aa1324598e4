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

// PreviewPlanUseCase runs the full pipeline synchronously on an upload. The
// source bytes are staged in object storage only for the duration of the
// request; nothing is written to the database or the queue.
type PreviewPlanUseCase struct {
	storage ports.ObjectStorage
	deps    pipelineDeps
}

func NewPreviewPlanUseCase(
	storage ports.ObjectStorage,
	loader ports.DocumentLoader,
	normalizer ports.TextNormalizer,
	extractor ports.EntityExtractor,
	synth *planner.Synthesizer,
) *PreviewPlanUseCase {
	return &PreviewPlanUseCase{
		storage: storage,
		deps: pipelineDeps{
			loader:     loader,
			normalizer: normalizer,
			extractor:  extractor,
			synth:      synth,
		},
	}
}

func (uc *PreviewPlanUseCase) Preview(ctx context.Context, req ports.UploadRequest) (*domain.Plan, error) {
	format := domain.InferFormat(req.Filename, req.MimeType)
	if format == domain.FormatUnknown {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "preview plan",
			fmt.Errorf("file %q (%s)", req.Filename, req.MimeType))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("preview_%s_%s", id, sanitizeFilename(req.Filename))
	if err := uc.storage.Save(ctx, storageKey, req.Body); err != nil {
		return nil, fmt.Errorf("stage preview upload: %w", err)
	}
	defer func() {
		if err := uc.storage.Delete(ctx, storageKey); err != nil {
			slog.Warn("preview_cleanup_failed",
				slog.String("key", storageKey),
				slog.String("error", err.Error()),
			)
		}
	}()

	doc := &domain.Document{
		ID:          id,
		Filename:    req.Filename,
		MimeType:    req.MimeType,
		Format:      format,
		StoragePath: storageKey,
		ProjectName: projectNameOrDefault(req.ProjectName, req.Filename),
		StartDate:   startDateOrToday(req.StartDate, time.Now().UTC()),
	}

	plan, err := runPipeline(ctx, uc.deps, doc)
	if err != nil {
		return nil, err
	}
	plan.ID = uuid.NewSHA1(planNamespace, []byte(doc.ID)).String()
	plan.CreatedAt = time.Now().UTC()
	return plan, nil
}
