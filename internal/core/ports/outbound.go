package ports

import (
	"context"
	"io"

	"github.com/planforge/planforge/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
}

// PlanRepository persists finished plans, one per document.
type PlanRepository interface {
	Save(ctx context.Context, plan *domain.Plan) error
	GetByDocumentID(ctx context.Context, documentID string) (*domain.Plan, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes plan build requests.
type MessageQueue interface {
	PublishPlanRequested(ctx context.Context, documentID string) error
	SubscribePlanRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// DocumentLoader reads a stored document and emits its raw text.
type DocumentLoader interface {
	Load(ctx context.Context, doc *domain.Document) (string, error)
}

// TextNormalizer cleans raw text into analyzable text.
type TextNormalizer interface {
	Normalize(raw string) string
}

// EntityExtractor identifies objectives, tasks and phase markers in
// normalized text. Implementations degrade to an empty Extraction on vague
// input instead of erroring.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) (domain.Extraction, error)
}

// GraphProjector mirrors a plan's task dependency structure into an external
// graph store.
type GraphProjector interface {
	ProjectPlan(ctx context.Context, plan *domain.Plan) error
}
