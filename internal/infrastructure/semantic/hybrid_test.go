package semantic

import (
	"context"
	"errors"
	"testing"

	"github.com/planforge/planforge/internal/core/domain"
)

type extractorFake struct {
	ex    domain.Extraction
	err   error
	calls int
}

func (f *extractorFake) ExtractEntities(context.Context, string) (domain.Extraction, error) {
	f.calls++
	if f.err != nil {
		return domain.Extraction{}, f.err
	}
	return f.ex, nil
}

func TestFallbackPrefersPrimary(t *testing.T) {
	primary := &extractorFake{ex: domain.Extraction{Tasks: []domain.TaskCandidate{{Name: "Build Api"}}}}
	secondary := &extractorFake{}

	ex, err := NewFallback(primary, secondary).ExtractEntities(context.Background(), "text")
	if err != nil {
		t.Fatalf("ExtractEntities() error = %v", err)
	}
	if len(ex.Tasks) != 1 || ex.Tasks[0].Name != "Build Api" {
		t.Fatalf("unexpected extraction %+v", ex)
	}
	if secondary.calls != 0 {
		t.Fatalf("secondary should not run when primary succeeds")
	}
}

func TestFallbackOnPrimaryError(t *testing.T) {
	primary := &extractorFake{err: errors.New("model down")}
	secondary := &extractorFake{ex: domain.Extraction{Objectives: []string{"o"}}}

	ex, err := NewFallback(primary, secondary).ExtractEntities(context.Background(), "text")
	if err != nil {
		t.Fatalf("ExtractEntities() error = %v", err)
	}
	if len(ex.Objectives) != 1 {
		t.Fatalf("expected secondary extraction, got %+v", ex)
	}
}

func TestFallbackOnEmptyPrimaryResult(t *testing.T) {
	primary := &extractorFake{}
	secondary := &extractorFake{ex: domain.Extraction{Tasks: []domain.TaskCandidate{{Name: "Test It"}}}}

	ex, err := NewFallback(primary, secondary).ExtractEntities(context.Background(), "text")
	if err != nil {
		t.Fatalf("ExtractEntities() error = %v", err)
	}
	if len(ex.Tasks) != 1 {
		t.Fatalf("expected secondary extraction, got %+v", ex)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("expected both extractors to run once, got %d/%d", primary.calls, secondary.calls)
	}
}
