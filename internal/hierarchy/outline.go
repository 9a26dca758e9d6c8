package hierarchy

import "github.com/dgallion1/docstruct/internal/document"

// fromOutline converts embedded outline entries to units. The outline is
// already ordered and carries explicit depths, so it maps straight onto
// candidates.
func fromOutline(entries []document.OutlineEntry, totalPages int) []Unit {
	if len(entries) == 0 {
		return nil
	}
	cands := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		cands = append(cands, Candidate{Title: e.Title, Level: e.Level, Page: e.Page})
	}
	return Build(cands, totalPages)
}
