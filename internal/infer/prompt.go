package infer

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docstruct/internal/document"
)

const structureInstructions = `You are analyzing the beginning of a document to find its chapter structure.

Return a JSON array of the chapters you can identify. Each element must have:
- "title": the chapter title as printed (string)
- "start_page": 1-based page where the chapter starts (integer)
- "end_page": 1-based page where the chapter ends (integer)

Rules:
- Only report chapters you see evidence for in the text
- Use the page markers to determine page numbers
- Order chapters by start_page
- Return an empty array [] if no chapter structure is visible

Respond with ONLY the JSON array, no other text.`

const (
	defaultPromptPages = 20
	maxCharsPerPage    = 2000
)

// BuildStructurePrompt formats the front of a document for structure
// inference. Pages carry explicit markers so the model can cite them.
func BuildStructurePrompt(filename string, pages []document.Page, maxPages int) string {
	if maxPages <= 0 {
		maxPages = defaultPromptPages
	}
	if len(pages) > maxPages {
		pages = pages[:maxPages]
	}

	var sb strings.Builder
	sb.WriteString(structureInstructions)
	sb.WriteString("\n\n---\nDocument: ")
	sb.WriteString(filename)
	sb.WriteString("\n---\n")
	for _, p := range pages {
		fmt.Fprintf(&sb, "=== PAGE %d ===\n", p.PageNumber)
		sb.WriteString(truncate(p.Text, maxCharsPerPage))
		sb.WriteString("\n")
	}
	return sb.String()
}
