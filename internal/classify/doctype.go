package classify

import (
	"regexp"
	"strings"

	"github.com/dgallion1/docstruct/internal/document"
)

// DocType labels the kind of educational document.
type DocType string

const (
	DocTextbook      DocType = "textbook"
	DocExercises     DocType = "exercises"
	DocPastQuestions DocType = "past_questions"
)

// DocTypeResult is the document-type decision with confidence.
type DocTypeResult struct {
	Type       DocType `json:"doc_type"`
	Confidence float64 `json:"confidence"`
}

var (
	pastFilenameWords     = []string{"past", "exam", "waec", "neco", "utme", "jamb"}
	exerciseFilenameWords = []string{"exercise", "practice", "drill", "worksheet"}

	questionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d+\.\s+[a-z]`),
		regexp.MustCompile(`question\s+\d+`),
		regexp.MustCompile(`\b[a-d]\)\s`),
		regexp.MustCompile(`\bchoose\b`),
		regexp.MustCompile(`\bselect\b`),
		regexp.MustCompile(`\banswer\b.*question`),
	}
	exercisePattern = regexp.MustCompile(`(exercise|practice|drill|activity)\s+\d+`)
	chapterPattern  = regexp.MustCompile(`(chapter|unit|section)\s+\d+`)
)

const (
	docTypeSamplePages  = 10
	questionCountCutoff = 20
	exerciseCountCutoff = 5
)

// DetectDocType classifies a document as textbook, exercises or past
// questions. Filename keywords dominate; counted content patterns over a
// front sample decide the rest.
func DetectDocType(filename string, pages []document.Page) DocTypeResult {
	name := strings.ToLower(filename)
	if containsAny(name, pastFilenameWords) {
		return DocTypeResult{Type: DocPastQuestions, Confidence: 0.9}
	}
	if containsAny(name, exerciseFilenameWords) {
		return DocTypeResult{Type: DocExercises, Confidence: 0.9}
	}

	sample := sampleText(pages, docTypeSamplePages)

	questions := 0
	for _, re := range questionPatterns {
		questions += len(re.FindAllString(sample, -1))
	}
	exercises := len(exercisePattern.FindAllString(sample, -1))
	chapters := len(chapterPattern.FindAllString(sample, -1))

	switch {
	case questions > questionCountCutoff:
		if strings.Contains(sample, "past") || strings.Contains(sample, "exam") {
			return DocTypeResult{Type: DocPastQuestions, Confidence: 0.85}
		}
		return DocTypeResult{Type: DocExercises, Confidence: 0.8}
	case exercises > exerciseCountCutoff:
		return DocTypeResult{Type: DocExercises, Confidence: 0.75}
	case chapters > 0:
		return DocTypeResult{Type: DocTextbook, Confidence: 0.8}
	default:
		return DocTypeResult{Type: DocTextbook, Confidence: 0.5}
	}
}

func sampleText(pages []document.Page, n int) string {
	if len(pages) > n {
		pages = pages[:n]
	}
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Text)
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}
