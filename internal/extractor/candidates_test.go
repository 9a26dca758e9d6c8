package extractor

import (
	"testing"

	"github.com/dgallion1/docstruct/internal/document"
)

func pageSeq(texts ...string) []document.Page {
	pages := make([]document.Page, len(texts))
	for i, text := range texts {
		pages[i] = document.Page{PageNumber: i + 1, Text: text}
	}
	return pages
}

func TestTOCCandidates_FrontWindow(t *testing.T) {
	pages := pageSeq(
		"Title page",
		"Table of Contents\nIntro .... 3",
		"body", "body", "body", "body",
		"Contents of the appendix listed here", // page 7, outside front window
		"body", "body", "body",
	)
	cands := tocCandidates(pages)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if cands[0] != pages[1].Text {
		t.Errorf("unexpected candidate %q", cands[0])
	}
}

func TestTOCCandidates_BackWindow(t *testing.T) {
	pages := pageSeq(
		"body", "body", "body", "body", "body", "body", "body",
		"Index\nalgae, 12\nbacteria, 31",
		"body",
		"body",
	)
	cands := tocCandidates(pages)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if cands[0] != pages[7].Text {
		t.Errorf("unexpected candidate %q", cands[0])
	}
}

func TestTOCCandidates_ShortDocumentNoDoubleCount(t *testing.T) {
	pages := pageSeq("Contents\nOne .... 2", "body", "body")
	cands := tocCandidates(pages)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate for short doc, got %d", len(cands))
	}
}
