package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/planforge/planforge/internal/core/domain"
	"github.com/planforge/planforge/internal/core/ports"
)

// Loader reads a stored document and extracts its raw text according to the
// declared or sniffed format.
type Loader struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Loader {
	return &Loader{storage: storage}
}

func (l *Loader) Load(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := l.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}
	if len(raw) == 0 {
		return "", domain.WrapError(domain.ErrEmptyDocument, "load document", errors.New("zero-length file"))
	}

	format := doc.Format
	if format == "" || format == domain.FormatUnknown {
		format = domain.InferFormat(doc.Filename, doc.MimeType)
	}
	if format == domain.FormatUnknown {
		format = sniffFormat(raw)
	}

	var text string
	switch format {
	case domain.FormatPDF:
		text, err = extractPDF(raw)
	case domain.FormatDOCX:
		text, err = extractDOCX(raw)
	case domain.FormatTXT:
		text, err = extractTXT(raw)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "load document",
			fmt.Errorf("file %q (%s)", doc.Filename, doc.MimeType))
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrEmptyDocument, "load document",
			fmt.Errorf("no text content in %q", doc.Filename))
	}
	return text, nil
}

func sniffFormat(raw []byte) domain.DocumentFormat {
	switch {
	case bytes.HasPrefix(raw, []byte("%PDF-")):
		return domain.FormatPDF
	case bytes.HasPrefix(raw, []byte("PK\x03\x04")):
		if hasZipEntry(raw, "word/document.xml") {
			return domain.FormatDOCX
		}
		return domain.FormatUnknown
	case utf8.Valid(raw):
		return domain.FormatTXT
	default:
		return domain.FormatUnknown
	}
}
