package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// DocumentFormat is the declared or inferred source format of an upload.
type DocumentFormat string

const (
	FormatPDF     DocumentFormat = "pdf"
	FormatDOCX    DocumentFormat = "docx"
	FormatTXT     DocumentFormat = "txt"
	FormatUnknown DocumentFormat = "unknown"
)

// InferFormat resolves the document format from the declared MIME type
// first, then from the filename extension.
func InferFormat(filename, mimeType string) DocumentFormat {
	switch strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0])) {
	case "application/pdf":
		return FormatPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FormatDOCX
	case "text/plain":
		return FormatTXT
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".txt", ".text", ".md":
		return FormatTXT
	}
	return FormatUnknown
}

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	Format      DocumentFormat `json:"format"`
	StoragePath string         `json:"storage_path"`
	ProjectName string         `json:"project_name"`
	StartDate   time.Time      `json:"start_date"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
