package assemble

import (
	"fmt"
	"time"

	"github.com/dgallion1/docstruct/internal/classify"
	"github.com/dgallion1/docstruct/internal/content"
	"github.com/dgallion1/docstruct/internal/hierarchy"
)

// Version is stamped on every assembled artifact.
const Version = "1.0.0"

// Input is one detected unit together with its enrichment results.
type Input struct {
	Unit           hierarchy.Unit
	BoxType        classify.BoxType
	IsExercise     bool
	ExerciseType   string
	ExerciseNumber string
	Metrics        content.Metrics
	Text           string
	CharCount      int
	Preview        string
}

// Box is one unit in the full artifact.
type Box struct {
	ID             string           `json:"id"`
	ParentID       string           `json:"parent_id,omitempty"`
	Title          string           `json:"title"`
	Level          int              `json:"level"`
	OrderIndex     int              `json:"order_index"`
	PageStart      int              `json:"page_start"`
	PageEnd        int              `json:"page_end"`
	PageCount      int              `json:"page_count"`
	BoxType        classify.BoxType `json:"box_type"`
	Number         string           `json:"number,omitempty"`
	IsExercise     bool             `json:"is_exercise"`
	ExerciseType   string           `json:"exercise_type,omitempty"`
	ExerciseNumber string           `json:"exercise_number,omitempty"`
	PageRef        string           `json:"page_ref"`
	ContentPreview string           `json:"content_preview,omitempty"`
	Text           string           `json:"text,omitempty"`
	CharCount      int              `json:"char_count"`
	Metrics        content.Metrics  `json:"metrics"`
}

// IndexEntry is one unit in the index artifact: position and size only, no
// content payload.
type IndexEntry struct {
	ID         string `json:"id"`
	ParentID   string `json:"parent_id,omitempty"`
	Title      string `json:"title"`
	Level      int    `json:"level"`
	OrderIndex int    `json:"order_index"`
	PageStart  int    `json:"page_start"`
	PageEnd    int    `json:"page_end"`
	PageCount  int    `json:"page_count"`
	CharCount  int    `json:"char_count"`
	WordCount  int    `json:"word_count"`
}

// DocumentInfo identifies and classifies the processed document.
type DocumentInfo struct {
	ID             string              `json:"id"`
	Filename       string              `json:"filename"`
	Title          string              `json:"title"`
	DocType        classify.DocType    `json:"doc_type"`
	TypeConfidence float64             `json:"type_confidence"`
	IsScanned      bool                `json:"is_scanned"`
	Scan           classify.ScanResult `json:"scan"`
	Strategy       hierarchy.Strategy  `json:"strategy"`
	TotalPages     int                 `json:"total_pages"`
	FileSizeBytes  int64               `json:"file_size_bytes"`
	ProcessedAt    time.Time           `json:"processed_at"`
	Version        string              `json:"processor_version"`
}

// Stats aggregates structure counts plus drop diagnostics.
type Stats struct {
	TotalBoxes      int            `json:"total_boxes"`
	HierarchyLevels int            `json:"hierarchy_levels"`
	BoxesPerLevel   map[int]int    `json:"boxes_per_level"`
	BoxTypes        map[string]int `json:"box_types"`
	ExerciseCount   int            `json:"exercise_count"`
	DroppedUnits    int            `json:"dropped_units"`
}

// Result is the full artifact.
type Result struct {
	Document DocumentInfo `json:"document"`
	Boxes    []Box        `json:"boxes"`
	Stats    Stats        `json:"stats"`
}

// Index is the metadata-only artifact. It is built in the same pass as the
// full artifact, so ids, titles and tree shape always agree between the two.
type Index struct {
	DocumentID      string       `json:"document_id"`
	Filename        string       `json:"filename"`
	TotalPages      int          `json:"total_pages"`
	TotalBoxes      int          `json:"total_boxes"`
	HierarchyLevels int          `json:"hierarchy_levels"`
	BoxIndex        []IndexEntry `json:"box_index"`
}

// Assembler builds output artifacts from enriched units.
type Assembler struct {
	IncludeText bool
}

// Build produces both views in one pass. Page ranges are clamped to the
// document; units whose range inverts after clamping are dropped and
// counted, and their children reattach to the nearest surviving ancestor.
func (a *Assembler) Build(doc DocumentInfo, inputs []Input) (*Result, *Index) {
	if doc.Version == "" {
		doc.Version = Version
	}

	kept := make([]Input, 0, len(inputs))
	parentOf := make(map[int]int, len(inputs))
	dropped := 0
	for _, in := range inputs {
		parentOf[in.Unit.ID] = in.Unit.ParentID
		u := in.Unit
		if u.PageStart < 1 {
			u.PageStart = 1
		}
		if u.PageEnd > doc.TotalPages {
			u.PageEnd = doc.TotalPages
		}
		if u.PageStart > u.PageEnd {
			dropped++
			continue
		}
		in.Unit = u
		kept = append(kept, in)
	}

	outID := make(map[int]string, len(kept))
	for i, in := range kept {
		outID[in.Unit.ID] = fmt.Sprintf("box_%d", i+1)
	}
	// Parent chains only shorten, so following parentOf over dropped units
	// terminates at a survivor or at the root.
	resolveParent := func(id int) string {
		for id != 0 {
			if out, ok := outID[id]; ok {
				return out
			}
			id = parentOf[id]
		}
		return ""
	}

	stats := Stats{
		BoxesPerLevel: make(map[int]int),
		BoxTypes:      make(map[string]int),
		DroppedUnits:  dropped,
	}
	boxes := make([]Box, 0, len(kept))
	entries := make([]IndexEntry, 0, len(kept))

	for i, in := range kept {
		u := in.Unit
		id := fmt.Sprintf("box_%d", i+1)
		parent := resolveParent(u.ParentID)
		pageCount := u.PageEnd - u.PageStart + 1

		box := Box{
			ID:             id,
			ParentID:       parent,
			Title:          u.Title,
			Level:          u.Level,
			OrderIndex:     i,
			PageStart:      u.PageStart,
			PageEnd:        u.PageEnd,
			PageCount:      pageCount,
			BoxType:        in.BoxType,
			Number:         u.Number,
			IsExercise:     in.IsExercise,
			ExerciseType:   in.ExerciseType,
			ExerciseNumber: in.ExerciseNumber,
			PageRef:        fmt.Sprintf("%s#page=%d", doc.Filename, u.PageStart),
			ContentPreview: in.Preview,
			CharCount:      in.CharCount,
			Metrics:        in.Metrics,
		}
		if a.IncludeText {
			box.Text = in.Text
		}
		boxes = append(boxes, box)

		entries = append(entries, IndexEntry{
			ID:         id,
			ParentID:   parent,
			Title:      u.Title,
			Level:      u.Level,
			OrderIndex: i,
			PageStart:  u.PageStart,
			PageEnd:    u.PageEnd,
			PageCount:  pageCount,
			CharCount:  in.CharCount,
			WordCount:  in.Metrics.WordCount,
		})

		stats.BoxesPerLevel[u.Level]++
		stats.BoxTypes[string(in.BoxType)]++
		if in.IsExercise {
			stats.ExerciseCount++
		}
		if u.Level > stats.HierarchyLevels {
			stats.HierarchyLevels = u.Level
		}
	}
	stats.TotalBoxes = len(boxes)

	result := &Result{Document: doc, Boxes: boxes, Stats: stats}
	index := &Index{
		DocumentID:      doc.ID,
		Filename:        doc.Filename,
		TotalPages:      doc.TotalPages,
		TotalBoxes:      len(entries),
		HierarchyLevels: stats.HierarchyLevels,
		BoxIndex:        entries,
	}
	return result, index
}
