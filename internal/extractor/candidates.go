package extractor

import (
	"strings"

	"github.com/dgallion1/docstruct/internal/document"
)

// Contents pages sit near the front in most documents; some textbooks put
// an index-style listing at the back. The front check carries a few
// non-english markers since the corpus is multilingual.
var frontTOCMarkers = []string{
	"table of contents", "contents", "index",
	"table des matières", "índice", "inhaltsverzeichnis",
}

var backTOCMarkers = []string{"table of contents", "contents", "index"}

const (
	frontTOCPages = 5
	backTOCPages  = 3
)

// tocCandidates collects page texts likely to hold a table of contents, in
// front-to-back order. Pages are never listed twice.
func tocCandidates(pages []document.Page) []string {
	var cands []string

	front := len(pages)
	if front > frontTOCPages {
		front = frontTOCPages
	}
	for _, p := range pages[:front] {
		if containsAnyMarker(p.Text, frontTOCMarkers) {
			cands = append(cands, p.Text)
		}
	}

	backStart := len(pages) - backTOCPages
	if backStart < front {
		backStart = front
	}
	for _, p := range pages[backStart:] {
		if containsAnyMarker(p.Text, backTOCMarkers) {
			cands = append(cands, p.Text)
		}
	}
	return cands
}

func containsAnyMarker(text string, markers []string) bool {
	lower := strings.ToLower(text)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
