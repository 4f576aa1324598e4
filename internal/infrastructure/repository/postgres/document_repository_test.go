package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/planforge/planforge/internal/core/domain"
)

func newDocumentRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestDocumentGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, format").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentGetByIDScansRow(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "format", "storage_path",
		"project_name", "start_date", "status", "error_message", "created_at", "updated_at",
	}).AddRow("doc-1", "plan.txt", "text/plain", "txt", "doc-1_plan.txt",
		"Launch", start, "ready", "", now, now)

	mock.ExpectQuery("SELECT id, filename, mime_type, format").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Format != domain.FormatTXT {
		t.Errorf("format = %q", doc.Format)
	}
	if doc.Status != domain.StatusReady {
		t.Errorf("status = %q", doc.Status)
	}
	if !doc.StartDate.Equal(start) {
		t.Errorf("start date = %v", doc.StartDate)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentCreateInsertsAllColumns(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          "doc-1",
		Filename:    "plan.txt",
		MimeType:    "text/plain",
		Format:      domain.FormatTXT,
		StoragePath: "doc-1_plan.txt",
		ProjectName: "Launch",
		StartDate:   now,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "plan.txt", "text/plain", "txt", "doc-1_plan.txt",
			"Launch", now, "uploaded", "", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
