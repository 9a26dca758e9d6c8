package extractor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docstruct/internal/document"
)

// TextExtractor handles plain text. Pages split on form feeds; text
// without any becomes a single page.
type TextExtractor struct{}

func (t *TextExtractor) Extract(ctx context.Context, r io.Reader, filename string) (*document.Extraction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	rawPages := strings.Split(string(data), "\f")
	pages := make([]document.Page, 0, len(rawPages))
	for i, raw := range rawPages {
		text := cleanPageText(raw)
		pages = append(pages, document.Page{
			PageNumber: i + 1,
			Text:       text,
			CharCount:  utf8.RuneCountInString(text),
		})
	}

	ext := &document.Extraction{
		Filename:      filename,
		FileSizeBytes: int64(len(data)),
		TotalPages:    len(pages),
		Pages:         pages,
	}
	ext.TOCCandidates = tocCandidates(pages)
	return ext, nil
}
