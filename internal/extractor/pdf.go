package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dgallion1/docstruct/internal/document"
)

// PDFExtractor reduces a PDF to the page model. pdfcpu drives the primary
// path (content streams, per-page image objects, embedded bookmarks); the
// plain-text library fills in pages whose content stream yields nothing.
type PDFExtractor struct {
	PlainTextFallback bool
}

func (p *PDFExtractor) Extract(ctx context.Context, r io.Reader, filename string) (*document.Extraction, error) {
	// Both PDF libraries want a seekable file of known size, so stage the
	// bytes in a temp file.
	tmp, err := os.CreateTemp("", "docstruct-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open temp file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if pdfCtx.PageCount < 1 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	var fallbackPages []string
	if p.PlainTextFallback {
		fallbackPages = plainTextPages(tmpPath, pdfCtx.PageCount)
	}

	pages := make([]document.Page, 0, pdfCtx.PageCount)
	for nr := 1; nr <= pdfCtx.PageCount; nr++ {
		text := pageText(pdfCtx, nr)
		if text == "" && nr-1 < len(fallbackPages) {
			text = fallbackPages[nr-1]
		}
		text = cleanPageText(text)
		pages = append(pages, document.Page{
			PageNumber: nr,
			Text:       text,
			CharCount:  utf8.RuneCountInString(text),
			HasImage:   pageHasImage(pdfCtx, nr),
		})
	}

	ext := &document.Extraction{
		Filename:      filename,
		FileSizeBytes: size,
		TotalPages:    pdfCtx.PageCount,
		Pages:         pages,
		Outline:       readOutline(tmpPath, pdfCtx.PageCount),
	}
	ext.TOCCandidates = tocCandidates(ext.Pages)
	return ext, nil
}

// pageText decodes the show-text operators of one page's content stream.
func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return decodeContentStream(data)
}

// String literals, including escaped parens inside them.
var pdfStringRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// decodeContentStream walks content stream operators, keeping show-text
// strings and turning positioning operators into line breaks so page text
// keeps a line structure.
func decodeContentStream(data []byte) string {
	var sb strings.Builder
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			writeShownText(&sb, line, "")
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			writeShownText(&sb, line, "\n")
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// writeShownText decodes every string literal on an operator line.
func writeShownText(sb *strings.Builder, line []byte, prefix string) {
	for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
		text := decodePDFString(m[1])
		if text == "" {
			continue
		}
		if prefix != "" {
			sb.WriteString(prefix)
		}
		sb.WriteString(text)
	}
}

// decodePDFString resolves the escape sequences of a PDF literal string.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b', 'f':
			// backspace and form feed never help text extraction
		case '(', ')', '\\':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// pageHasImage reports whether the page references image XObjects.
func pageHasImage(ctx *model.Context, pageNr int) bool {
	if ctx.Optimize == nil {
		return false
	}
	return len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0
}

// plainTextPages extracts per-page text with the plain-text PDF library.
// The fallback is best-effort: any error leaves the affected pages empty.
func plainTextPages(path string, pageCount int) []string {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	n := reader.NumPage()
	if n > pageCount {
		n = pageCount
	}
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			out = append(out, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		out = append(out, text)
	}
	return out
}

// readOutline loads embedded bookmarks, flattened depth-first. Entries
// pointing outside the document are skipped; their children still count.
func readOutline(path string, totalPages int) []document.OutlineEntry {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	bms, err := api.Bookmarks(f, model.NewDefaultConfiguration())
	if err != nil || len(bms) == 0 {
		return nil
	}

	var entries []document.OutlineEntry
	var walk func(bms []pdfcpu.Bookmark, level int)
	walk = func(bms []pdfcpu.Bookmark, level int) {
		for _, bm := range bms {
			title := strings.TrimSpace(bm.Title)
			if title != "" && bm.PageFrom >= 1 && bm.PageFrom <= totalPages {
				entries = append(entries, document.OutlineEntry{
					Level: level,
					Title: title,
					Page:  bm.PageFrom,
				})
			}
			walk(bm.Kids, level+1)
		}
	}
	walk(bms, 1)
	return entries
}
