package classify

import "github.com/dgallion1/docstruct/internal/document"

// ScanResult is the scanned-vs-text decision for a document.
type ScanResult struct {
	IsScanned       bool    `json:"is_scanned"`
	Confidence      float64 `json:"confidence"`
	SampleSize      int     `json:"sample_size"`
	AvgCharsPerPage int     `json:"avg_chars_per_page"`
	ImagePageRatio  float64 `json:"image_page_ratio"`
	TextPages       int     `json:"text_pages"`
	ImagePages      int     `json:"image_pages"`
	NeedsOCR        bool    `json:"needs_ocr"`
}

const (
	scanSampleSize   = 10
	textPageMinChars = 100
	scannedAvgChars  = 50
	mixedAvgChars    = 200
	imageHeavyRatio  = 0.8
)

// DetectScan samples the first pages and decides whether the document is
// image-based. A page counts as a text page only above textPageMinChars;
// the average divides text-page characters by the whole sample, so a run
// of near-empty pages drags it down.
func DetectScan(pages []document.Page) ScanResult {
	sampleSize := len(pages)
	if sampleSize > scanSampleSize {
		sampleSize = scanSampleSize
	}

	res := ScanResult{SampleSize: sampleSize}
	if sampleSize == 0 {
		return res
	}

	textChars := 0
	for _, p := range pages[:sampleSize] {
		if p.CharCount > textPageMinChars {
			res.TextPages++
			textChars += p.CharCount
		}
		if p.HasImage {
			res.ImagePages++
		}
	}

	res.AvgCharsPerPage = textChars / sampleSize
	res.ImagePageRatio = float64(res.ImagePages) / float64(sampleSize)

	switch {
	case res.AvgCharsPerPage < scannedAvgChars:
		res.IsScanned = true
		res.Confidence = 0.9
	case res.ImagePageRatio > imageHeavyRatio && res.AvgCharsPerPage < mixedAvgChars:
		res.IsScanned = true
		res.Confidence = 0.7
	default:
		res.IsScanned = false
		res.Confidence = 0.8
	}
	res.NeedsOCR = res.IsScanned
	return res
}
