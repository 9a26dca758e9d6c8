package hierarchy

import (
	"regexp"
	"strconv"
	"strings"
)

// Trailing page number forms: dot leaders ("Introduction ....... 12") take
// precedence over bare whitespace ("Introduction   12").
var (
	dotLeaderPageRe  = regexp.MustCompile(`\.{2,}\s*(\d+)\s*$`)
	whitespacePageRe = regexp.MustCompile(`\s+(\d+)\s*$`)
)

// numberingPatterns run most-specific-first so "1.2.3" is not consumed by
// the plain "1." pattern. Depth is dots in the matched token plus one.
var numberingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+\.\d+\.\d+)`),
	regexp.MustCompile(`^(\d+\.\d+)`),
	regexp.MustCompile(`^(\d+)\.`),
	regexp.MustCompile(`^([A-Z])\.`),
	regexp.MustCompile(`^([ivxlcdm]+)\.`),
}

const (
	minTOCLineLen  = 5
	indentPerLevel = 4
)

// fromTOCText parses table-of-contents candidate texts in order and keeps
// the first one that yields enough units.
func fromTOCText(candidates []string, totalPages int) []Unit {
	for _, text := range candidates {
		if units := parseTOC(text, totalPages); len(units) >= minUnits {
			return units
		}
	}
	return nil
}

// parseTOC reads one candidate page line by line. A usable line has a
// trailing page number inside the document; depth comes from leading
// indentation or a numbering token, whichever claims more.
func parseTOC(text string, totalPages int) []Unit {
	var cands []Candidate
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < minTOCLineLen {
			continue
		}
		page, ok := trailingPage(trimmed)
		if !ok || page < 1 || page > totalPages {
			continue
		}
		rawTitle := stripTrailingPage(trimmed)
		if rawTitle == "" {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		level := indent/indentPerLevel + 1
		numLevel, number := numberingLevel(rawTitle)
		if numLevel > level {
			level = numLevel
		}

		cands = append(cands, Candidate{Title: rawTitle, Level: level, Page: page, Number: number})
	}
	return Build(cands, totalPages)
}

func trailingPage(line string) (int, bool) {
	m := dotLeaderPageRe.FindStringSubmatch(line)
	if m == nil {
		m = whitespacePageRe.FindStringSubmatch(line)
	}
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func stripTrailingPage(line string) string {
	line = dotLeaderPageRe.ReplaceAllString(line, "")
	line = whitespacePageRe.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// numberingLevel reads depth from a leading numbering token; lines without
// one sit at level 1.
func numberingLevel(title string) (int, string) {
	for _, re := range numberingPatterns {
		if m := re.FindStringSubmatch(title); m != nil {
			return strings.Count(m[1], ".") + 1, m[1]
		}
	}
	return 1, ""
}
