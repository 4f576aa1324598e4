package ports

import (
	"context"
	"io"
	"time"

	"github.com/planforge/planforge/internal/core/domain"
)

// UploadRequest carries everything the caller declares about an upload.
type UploadRequest struct {
	Filename    string
	MimeType    string
	ProjectName string
	StartDate   time.Time
	Body        io.Reader
}

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, req UploadRequest) (*domain.Document, error)
}

// PlanBuilder is the inbound contract for asynchronous plan construction.
type PlanBuilder interface {
	BuildByID(ctx context.Context, documentID string) error
}

// PlanPreviewer runs the whole pipeline synchronously on an upload without
// persisting anything.
type PlanPreviewer interface {
	Preview(ctx context.Context, req UploadRequest) (*domain.Plan, error)
}

// PlanService is the inbound read/mutation model for finished plans.
type PlanService interface {
	GetByDocumentID(ctx context.Context, documentID string) (*domain.Plan, error)
	Reschedule(ctx context.Context, documentID string, newStart time.Time) (*domain.Plan, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}
