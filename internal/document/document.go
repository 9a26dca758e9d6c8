package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Page is one page of extracted document text.
type Page struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	CharCount  int    `json:"char_count"`
	HasImage   bool   `json:"has_image"`
}

// OutlineEntry is one entry of a document's embedded outline (PDF
// bookmarks). Level is 1-based depth, Page the 1-based target page.
type OutlineEntry struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// Extraction is the page-oriented model every document is reduced to
// before structure detection. Local adapters, the remote extraction
// service and the pre-extracted API endpoint all produce this shape.
type Extraction struct {
	Filename      string         `json:"filename"`
	FileSizeBytes int64          `json:"file_size_bytes,omitempty"`
	TotalPages    int            `json:"total_pages"`
	Pages         []Page         `json:"pages"`
	Outline       []OutlineEntry `json:"outline,omitempty"`
	TOCCandidates []string       `json:"toc_candidates,omitempty"`
}

// Validate checks the structural contract: at least one page, page numbers
// contiguous from 1, and a matching total.
func (e *Extraction) Validate() error {
	if len(e.Pages) == 0 {
		return fmt.Errorf("extraction has no pages")
	}
	if e.TotalPages != len(e.Pages) {
		return fmt.Errorf("total_pages is %d but %d pages present", e.TotalPages, len(e.Pages))
	}
	for i, p := range e.Pages {
		if p.PageNumber != i+1 {
			return fmt.Errorf("pages out of order: index %d has page_number %d", i, p.PageNumber)
		}
	}
	return nil
}

// EnsureCharCounts fills in missing rune counts. Pre-extracted payloads may
// omit them.
func (e *Extraction) EnsureCharCounts() {
	for i := range e.Pages {
		if e.Pages[i].CharCount == 0 && e.Pages[i].Text != "" {
			e.Pages[i].CharCount = utf8.RuneCountInString(e.Pages[i].Text)
		}
	}
}

// PageText returns the text of one page, or "" when out of range.
func (e *Extraction) PageText(n int) string {
	if n < 1 || n > len(e.Pages) {
		return ""
	}
	return e.Pages[n-1].Text
}

// clampRange restricts [start, end] to the pages present. The second
// return is false when nothing of the range survives.
func (e *Extraction) clampRange(start, end int) (int, int, bool) {
	if start < 1 {
		start = 1
	}
	if end > len(e.Pages) {
		end = len(e.Pages)
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

// PageRangeText joins the raw text of pages start..end.
func (e *Extraction) PageRangeText(start, end int) string {
	start, end, ok := e.clampRange(start, end)
	if !ok {
		return ""
	}
	parts := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		parts = append(parts, e.Pages[n-1].Text)
	}
	return strings.Join(parts, "\n\n")
}

// FormattedRangeText joins pages start..end with page markers, the form
// stored on boxes so consumers can cite a page.
func (e *Extraction) FormattedRangeText(start, end int) string {
	start, end, ok := e.clampRange(start, end)
	if !ok {
		return ""
	}
	parts := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		parts = append(parts, fmt.Sprintf("=== PAGE %d ===\n%s", n, e.Pages[n-1].Text))
	}
	return strings.Join(parts, "\n\n")
}

// HasImageInRange reports whether any page in start..end carries an image.
func (e *Extraction) HasImageInRange(start, end int) bool {
	start, end, ok := e.clampRange(start, end)
	if !ok {
		return false
	}
	for n := start; n <= end; n++ {
		if e.Pages[n-1].HasImage {
			return true
		}
	}
	return false
}

var titleCaser = cases.Title(language.English)

// DisplayTitle derives a human title from the filename: extension dropped,
// separators spaced, words title-cased.
func (e *Extraction) DisplayTitle() string {
	base := filepath.Base(e.Filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return "Untitled Document"
	}
	return titleCaser.String(stem)
}

// ScrubText drops runes that survive bad extraction: private-use glyphs,
// the replacement character, and non-whitespace control codes.
func ScrubText(s string) string {
	clean := true
	for _, r := range s {
		if isGarbageRune(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isGarbageRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isGarbageRune(r rune) bool {
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	if r == 0xFFFD {
		return true
	}
	if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
		return true
	}
	return false
}
