package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/planforge/planforge/internal/core/domain"
)

type storageFake struct {
	files map[string][]byte
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
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
	return io.NopCloser(bytes.NewReader(f.files[key])), nil
}

func (f *storageFake) Delete(_ context.Context, key string) error {
	delete(f.files, key)
	return nil
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	var body strings.Builder
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func newLoaderWithFile(t *testing.T, doc *domain.Document, raw []byte) *Loader {
	t.Helper()
	storage := &storageFake{files: map[string][]byte{doc.StoragePath: raw}}
	return New(storage)
}

func TestLoadPlainText(t *testing.T) {
	doc := &domain.Document{Filename: "notes.txt", MimeType: "text/plain", StoragePath: "k"}
	l := newLoaderWithFile(t, doc, []byte("Build the prototype."))

	text, err := l.Load(context.Background(), doc)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text != "Build the prototype." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestLoadDOCXJoinsParagraphs(t *testing.T) {
	raw := buildDOCX(t, "Research the market.", "Design a prototype.")
	doc := &domain.Document{Filename: "plan.docx", StoragePath: "k"}
	l := newLoaderWithFile(t, doc, raw)

	text, err := l.Load(context.Background(), doc)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(text, "Research the market.") || !strings.Contains(text, "Design a prototype.") {
		t.Fatalf("missing paragraph text in %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Fatalf("expected paragraph boundary newline in %q", text)
	}
}

func TestLoadSniffsDOCXWithoutDeclaredFormat(t *testing.T) {
	raw := buildDOCX(t, "Deploy to customers.")
	doc := &domain.Document{Filename: "upload.bin", StoragePath: "k"}
	l := newLoaderWithFile(t, doc, raw)

	text, err := l.Load(context.Background(), doc)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(text, "Deploy to customers.") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestLoadCorruptPDF(t *testing.T) {
	doc := &domain.Document{Filename: "broken.pdf", MimeType: "application/pdf", StoragePath: "k"}
	l := newLoaderWithFile(t, doc, []byte("%PDF-1.7 this is not a real pdf"))

	_, err := l.Load(context.Background(), doc)
	if !domain.IsKind(err, domain.ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	doc := &domain.Document{Filename: "image.png", MimeType: "image/png", StoragePath: "k"}
	l := newLoaderWithFile(t, doc, []byte{0x89, 0x50, 0x4E, 0x47, 0x00})

	_, err := l.Load(context.Background(), doc)
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	doc := &domain.Document{Filename: "empty.txt", MimeType: "text/plain", StoragePath: "k"}
	l := newLoaderWithFile(t, doc, nil)

	_, err := l.Load(context.Background(), doc)
	if !domain.IsKind(err, domain.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestLoadWhitespaceOnlyDocumentIsEmpty(t *testing.T) {
	doc := &domain.Document{Filename: "blank.txt", MimeType: "text/plain", StoragePath: "k"}
	l := newLoaderWithFile(t, doc, []byte("   \n\t  "))

	_, err := l.Load(context.Background(), doc)
	if !domain.IsKind(err, domain.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestLoadInvalidUTF8Text(t *testing.T) {
	doc := &domain.Document{Filename: "weird.txt", MimeType: "text/plain", StoragePath: "k"}
	l := newLoaderWithFile(t, doc, []byte{0xff, 0xfe, 0xfd})

	_, err := l.Load(context.Background(), doc)
	if !domain.IsKind(err, domain.ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}
