package hierarchy

import "github.com/dgallion1/docstruct/internal/document"

// Unit is one detected structural unit of a document. IDs are local to a
// single detection run, 1-based in document order; ParentID 0 means the
// unit sits at the top of the tree.
type Unit struct {
	ID         int
	ParentID   int
	Title      string
	Level      int
	OrderIndex int
	PageStart  int
	PageEnd    int
	Number     string
}

// Strategy identifies which detection path produced the units.
type Strategy string

const (
	StrategyOutline  Strategy = "outline"
	StrategyTOCText  Strategy = "toc_text"
	StrategyFallback Strategy = "fallback"
	StrategyInferred Strategy = "inferred"
)

// minUnits is how many units a strategy must yield before it wins. A single
// unit carries no structure worth keeping.
const minUnits = 2

// DefaultFallbackPageSize is the page span of fallback units.
const DefaultFallbackPageSize = 15

// Detector finds the structural hierarchy of an extracted document.
type Detector struct {
	fallbackPageSize int
}

func NewDetector(fallbackPageSize int) *Detector {
	if fallbackPageSize <= 0 {
		fallbackPageSize = DefaultFallbackPageSize
	}
	return &Detector{fallbackPageSize: fallbackPageSize}
}

// Detect tries the embedded outline, then textual TOC parsing, then the
// fixed page partition. The first strategy yielding at least two units
// wins; the partition always yields something.
func (d *Detector) Detect(ext *document.Extraction) ([]Unit, Strategy) {
	if units := fromOutline(ext.Outline, ext.TotalPages); len(units) >= minUnits {
		return units, StrategyOutline
	}
	if units := fromTOCText(ext.TOCCandidates, ext.TotalPages); len(units) >= minUnits {
		return units, StrategyTOCText
	}
	return Fallback(ext.TotalPages, d.fallbackPageSize), StrategyFallback
}

// Candidate is an unlinked structural candidate: a heading at some depth
// starting on some page. Build turns an ordered candidate list into units.
type Candidate struct {
	Title  string
	Level  int
	Page   int
	Number string
}

// Build links candidates in document order into a unit tree. Parents come
// from a level-indexed stack holding the most recent unit per depth,
// truncated to the candidate's level before reading; a unit whose slot
// reads empty has no parent. Candidates with out-of-bounds pages or titles
// that clean to nothing are skipped.
func Build(cands []Candidate, totalPages int) []Unit {
	units := make([]Unit, 0, len(cands))
	// stack[l] is the id of the last unit seen at level l; slot 0 stays 0
	// so top-level units read "no parent" from it.
	stack := []int{0}

	for _, c := range cands {
		if c.Page < 1 || c.Page > totalPages {
			continue
		}
		title := CleanTitle(c.Title)
		if title == "" {
			continue
		}
		level := c.Level
		if level < 1 {
			level = 1
		}

		if len(stack) > level {
			stack = stack[:level]
		}
		id := len(units) + 1
		units = append(units, Unit{
			ID:         id,
			ParentID:   stack[len(stack)-1],
			Title:      title,
			Level:      level,
			OrderIndex: len(units),
			PageStart:  c.Page,
			Number:     c.Number,
		})
		for len(stack) <= level {
			stack = append(stack, 0)
		}
		stack[level] = id
	}

	assignEndPages(units, totalPages)
	return units
}

// assignEndPages closes each unit at the page before the next unit of the
// same or shallower level; the last such unit runs to the end of the
// document. Siblings therefore tile their parent's range with no gaps.
func assignEndPages(units []Unit, totalPages int) {
	for i := range units {
		end := totalPages
		for j := i + 1; j < len(units); j++ {
			if units[j].Level <= units[i].Level {
				end = units[j].PageStart - 1
				break
			}
		}
		units[i].PageEnd = end
	}
}
