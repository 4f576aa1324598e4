package loader

import (
	"errors"
	"unicode/utf8"

	"github.com/planforge/planforge/internal/core/domain"
)

func extractTXT(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrCorruptDocument, "read plain text",
			errors.New("not valid utf-8"))
	}
	return string(raw), nil
}
