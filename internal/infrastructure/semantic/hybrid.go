package semantic

import (
	"context"
	"log/slog"

	"github.com/planforge/planforge/internal/core/domain"
	"github.com/planforge/planforge/internal/core/ports"
)

// Fallback chains two extractors: the primary (typically model-assisted) is
// tried first, and the secondary (rule-based) takes over when the primary
// errors or recognizes nothing. Extraction therefore never hard-fails on
// document content.
type Fallback struct {
	primary   ports.EntityExtractor
	secondary ports.EntityExtractor
}

func NewFallback(primary, secondary ports.EntityExtractor) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) ExtractEntities(ctx context.Context, text string) (domain.Extraction, error) {
	ex, err := f.primary.ExtractEntities(ctx, text)
	if err == nil && !ex.Empty() {
		return ex, nil
	}
	if err != nil {
		slog.Warn("primary_extractor_failed", "error", err)
	}
	return f.secondary.ExtractEntities(ctx, text)
}
