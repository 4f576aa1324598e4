package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/planforge/planforge/internal/core/domain"
	"github.com/planforge/planforge/internal/core/ports"
)

type docRepoFake struct {
	created   *domain.Document
	byID      map[string]*domain.Document
	statuses  []domain.DocumentStatus
	errors    []string
	createErr error
	getErr    error
	updateErr error
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *docRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.byID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "fake get", errors.New(id))
	}
	copyDoc := *doc
	return &copyDoc, nil
}

func (f *docRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statuses = append(f.statuses, status)
	f.errors = append(f.errors, errMessage)
	return nil
}

type storageFake struct {
	files   map[string][]byte
	deleted []string
	saveErr error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.files[key]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "fake open", errors.New(key))
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (f *storageFake) Delete(_ context.Context, key string) error {
	delete(f.files, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishPlanRequested(_ context.Context, documentID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribePlanRequested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func TestIngestUploadSuccess(t *testing.T) {
	repo := &docRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	doc, err := uc.Upload(context.Background(), ports.UploadRequest{
		Filename:    "roadmap 2026.txt",
		MimeType:    "text/plain",
		ProjectName: "Roadmap",
		StartDate:   start,
		Body:        bytes.NewBufferString("Research the market."),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("expected document id")
	}
	if doc.Status != domain.StatusUploaded {
		t.Errorf("status = %q, want uploaded", doc.Status)
	}
	if doc.Format != domain.FormatTXT {
		t.Errorf("format = %q, want txt", doc.Format)
	}
	if doc.ProjectName != "Roadmap" {
		t.Errorf("project name = %q", doc.ProjectName)
	}
	if !doc.StartDate.Equal(start) {
		t.Errorf("start date = %v, want %v", doc.StartDate, start)
	}

	if repo.created == nil || repo.created.ID != doc.ID {
		t.Fatal("document metadata not persisted")
	}
	if strings.Contains(doc.StoragePath, " ") {
		t.Errorf("storage key not sanitized: %q", doc.StoragePath)
	}
	if string(storage.files[doc.StoragePath]) != "Research the market." {
		t.Error("upload body not stored")
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Errorf("published = %v, want [%s]", queue.published, doc.ID)
	}
}

func TestIngestUploadDefaults(t *testing.T) {
	uc := NewIngestDocumentUseCase(&docRepoFake{}, &storageFake{}, &queueFake{})

	doc, err := uc.Upload(context.Background(), ports.UploadRequest{
		Filename: "launch-plan.txt",
		MimeType: "text/plain",
		Body:     bytes.NewBufferString("Deploy to customers."),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ProjectName != "launch-plan" {
		t.Errorf("project name = %q, want filename stem", doc.ProjectName)
	}
	if doc.StartDate.IsZero() {
		t.Error("start date not defaulted")
	}
	if h, m, s := doc.StartDate.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("default start date not midnight: %v", doc.StartDate)
	}
}

func TestIngestUploadRejectsUnsupportedFormat(t *testing.T) {
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(&docRepoFake{}, storage, queue)

	_, err := uc.Upload(context.Background(), ports.UploadRequest{
		Filename: "diagram.png",
		MimeType: "image/png",
		Body:     bytes.NewBufferString("binary"),
	})
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want unsupported format", err)
	}
	if len(storage.files) != 0 {
		t.Error("rejected upload reached storage")
	}
	if len(queue.published) != 0 {
		t.Error("rejected upload published event")
	}
}

func TestIngestUploadStorageFailure(t *testing.T) {
	storage := &storageFake{saveErr: errors.New("disk full")}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(&docRepoFake{}, storage, queue)

	_, err := uc.Upload(context.Background(), ports.UploadRequest{
		Filename: "plan.txt",
		MimeType: "text/plain",
		Body:     bytes.NewBufferString("x"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(queue.published) != 0 {
		t.Error("event published despite storage failure")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"my plan.txt":      "my_plan.txt",
		"../../etc/passwd": "passwd",
		"отчёт.docx":       "_____.docx",
		"":                 "document.bin",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
