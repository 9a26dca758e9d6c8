package hierarchy

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/docstruct/internal/document"
)

// Leading structural labels duplicate information the level already holds
// and are dropped from display titles.
var leadingLabelRe = regexp.MustCompile(`(?i)^(?:chapter|unit|section|part|module)\s+\d+\s*:?\s*`)

const maxTitleRunes = 100

// CleanTitle normalizes a raw heading: NFC form, extraction garbage
// dropped, whitespace collapsed, a leading "Chapter N:" style label
// stripped, overlong titles truncated. Returns "" when nothing usable
// remains.
func CleanTitle(raw string) string {
	s := norm.NFC.String(raw)
	s = document.ScrubText(s)
	s = strings.Join(strings.Fields(s), " ")
	s = leadingLabelRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if runes := []rune(s); len(runes) > maxTitleRunes {
		s = string(runes[:maxTitleRunes-3]) + "..."
	}
	return s
}
