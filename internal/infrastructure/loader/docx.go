package loader

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/planforge/planforge/internal/core/domain"
)

// extractDOCX pulls the text runs out of word/document.xml. Paragraph
// boundaries become newlines so the normalizer can keep sentence structure.
func extractDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open docx archive", err)
	}

	var docEntry *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docEntry = f
			break
		}
	}
	if docEntry == nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open docx archive",
			errors.New("word/document.xml missing"))
	}

	rc, err := docEntry.Open()
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open docx document part", err)
	}
	defer rc.Close()

	return readWordprocessingText(rc)
}

func readWordprocessingText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	inTextRun := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", domain.WrapError(domain.ErrCorruptDocument, "parse docx xml", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inTextRun {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

func hasZipEntry(raw []byte, name string) bool {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}
