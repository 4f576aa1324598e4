package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Normalizer cleans raw extracted text into a single analyzable string:
// markup stripped, control characters dropped, whitespace collapsed,
// non-content symbols removed while sentence punctuation is kept.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

var markupPattern = regexp.MustCompile(`(?s)<\s*/?\s*[a-zA-Z][^>]*>`)

func (n *Normalizer) Normalize(raw string) string {
	text := raw
	if markupPattern.MatchString(text) {
		text = stripMarkup(text)
	}

	var sb strings.Builder
	sb.Grow(len(text))
	lastSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r) || unicode.IsControl(r):
			if !lastSpace {
				sb.WriteRune(' ')
				lastSpace = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || isContentPunct(r):
			sb.WriteRune(r)
			lastSpace = false
		default:
			// Non-content symbol: drop, but keep word separation.
			if !lastSpace {
				sb.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

func isContentPunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ';', ':', '-', '(', ')', '/', '\'', '_':
		return true
	default:
		return false
	}
}

// stripMarkup extracts the text content of tag-bearing input. PDF and TXT
// sources occasionally carry pasted HTML fragments.
func stripMarkup(text string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(text))

	var sb strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if skippedTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if skippedTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
			sb.WriteString(" ")
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}
}

func skippedTag(name string) bool {
	switch name {
	case "script", "style", "head":
		return true
	default:
		return false
	}
}
