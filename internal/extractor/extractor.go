package extractor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dgallion1/docstruct/internal/document"
)

// Service turns raw document bytes into the page-oriented extraction model.
type Service interface {
	Extract(ctx context.Context, r io.Reader, filename string) (*document.Extraction, error)
}

// SupportedExtensions lists the formats the local adapters handle. Other
// formats need the remote extraction service.
var SupportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
}

// Options configures local adapters.
type Options struct {
	PDFPlainTextFallback bool
}

// ForFile returns the local adapter for a filename.
func ForFile(filename string, opts Options) (Service, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFExtractor{PlainTextFallback: opts.PDFPlainTextFallback}, nil
	case ".txt":
		return &TextExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension has a local adapter.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// cleanPageText drops extraction garbage while preserving line structure:
// TOC parsing downstream reads one entry per line and leading indentation
// as depth, so only trailing whitespace and blank-line runs collapse.
func cleanPageText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = document.ScrubText(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.Trim(text, "\n")
}
