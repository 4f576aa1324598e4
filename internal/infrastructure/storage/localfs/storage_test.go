package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planforge/planforge/internal/core/domain"
)

func TestStorageRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "doc_plan.txt", strings.NewReader("build the thing")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r, err := s.Open(ctx, "doc_plan.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(raw) != "build the thing" {
		t.Fatalf("content = %q", raw)
	}
}

func TestStorageOpenMissing(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = s.Open(context.Background(), "absent.txt")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want document not found", err)
	}
}

func TestStorageRejectsEscapingKeys(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"", "..", "../outside.txt", "nested/inside.txt", `nested\inside.txt`} {
		if err := s.Save(ctx, key, strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) accepted an escaping key", key)
		}
		if _, err := s.Open(ctx, key); err == nil {
			t.Errorf("Open(%q) accepted an escaping key", key)
		}
		if err := s.Delete(ctx, key); err == nil {
			t.Errorf("Delete(%q) accepted an escaping key", key)
		}
	}

	if entries, err := os.ReadDir(filepath.Dir(dir)); err == nil {
		for _, e := range entries {
			if e.Name() == "outside.txt" {
				t.Fatal("file written outside the base directory")
			}
		}
	}
}

func TestStorageDeleteIdempotent(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "gone.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "gone.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "gone.txt"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
