package normalize

import (
	"strings"
	"testing"
	"unicode"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	n := New()
	got := n.Normalize("Research   the\n\n market.\t\tDesign a prototype.")
	want := "Research the market. Design a prototype."
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeOutputHasNoControlCharsOrWhitespaceRuns(t *testing.T) {
	n := New()
	got := n.Normalize("a\x00b\x07c\r\n\r\nd   e")
	for _, r := range got {
		if unicode.IsControl(r) {
			t.Fatalf("control character %q survived in %q", r, got)
		}
	}
	if strings.Contains(got, "  ") {
		t.Fatalf("whitespace run survived in %q", got)
	}
}

func TestNormalizeKeepsSentencePunctuation(t *testing.T) {
	n := New()
	got := n.Normalize("Test it! Deploy (carefully), then verify: done?")
	for _, want := range []string{"!", "(", ")", ",", ":", "?"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q kept in %q", want, got)
		}
	}
}

func TestNormalizeDropsNonContentSymbols(t *testing.T) {
	n := New()
	got := n.Normalize("Budget: $100 — approve ASAP ✓")
	if strings.ContainsAny(got, "$—✓") {
		t.Fatalf("non-content symbols survived in %q", got)
	}
	if !strings.Contains(got, "Budget: 100") {
		t.Fatalf("content lost in %q", got)
	}
}

func TestNormalizeStripsMarkup(t *testing.T) {
	n := New()
	got := n.Normalize("<html><head><title>x</title></head><body><p>Build the product.</p><script>alert(1)</script></body></html>")
	if strings.Contains(got, "<") || strings.Contains(got, "alert") || strings.Contains(got, "x") {
		t.Fatalf("markup or skipped content survived in %q", got)
	}
	if !strings.Contains(got, "Build the product.") {
		t.Fatalf("body text lost in %q", got)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := New()
	if got := n.Normalize(""); got != "" {
		t.Fatalf("Normalize(\"\") = %q, want empty", got)
	}
	if got := n.Normalize("   \n\t "); got != "" {
		t.Fatalf("Normalize(whitespace) = %q, want empty", got)
	}
}
