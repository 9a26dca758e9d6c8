package classify

import (
	"strings"
	"testing"

	"github.com/dgallion1/docstruct/internal/document"
)

func pagesWithText(texts ...string) []document.Page {
	pages := make([]document.Page, len(texts))
	for i, text := range texts {
		pages[i] = document.Page{PageNumber: i + 1, Text: text, CharCount: len(text)}
	}
	return pages
}

func TestDetectDocType_FilenameKeywordWins(t *testing.T) {
	cases := []struct {
		filename string
		want     DocType
	}{
		{"WAEC_Biology_2019.pdf", DocPastQuestions},
		{"jamb-prep.pdf", DocPastQuestions},
		{"past-papers.pdf", DocPastQuestions},
		{"algebra_worksheet.pdf", DocExercises},
		{"Practice_Problems.pdf", DocExercises},
	}
	for _, c := range cases {
		res := DetectDocType(c.filename, pagesWithText("chapter 1 of a plain textbook"))
		if res.Type != c.want {
			t.Errorf("%s: expected %s, got %s", c.filename, c.want, res.Type)
		}
		if res.Confidence != 0.9 {
			t.Errorf("%s: expected confidence 0.9, got %v", c.filename, res.Confidence)
		}
	}
}

func TestDetectDocType_ManyQuestionsWithExamContext(t *testing.T) {
	text := "past exam paper\n" + strings.Repeat("question 7 asks for the answer\n", 25)
	res := DetectDocType("document.pdf", pagesWithText(text))
	if res.Type != DocPastQuestions {
		t.Fatalf("expected past_questions, got %s", res.Type)
	}
	if res.Confidence != 0.85 {
		t.Errorf("expected confidence 0.85, got %v", res.Confidence)
	}
}

func TestDetectDocType_ManyQuestionsWithoutExamContext(t *testing.T) {
	text := strings.Repeat("question 7 on this topic\n", 25)
	res := DetectDocType("document.pdf", pagesWithText(text))
	if res.Type != DocExercises {
		t.Fatalf("expected exercises, got %s", res.Type)
	}
	if res.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %v", res.Confidence)
	}
}

func TestDetectDocType_ExerciseHeadings(t *testing.T) {
	text := "exercise 1\nexercise 2\nexercise 3\npractice 4\ndrill 5\nactivity 6\n"
	res := DetectDocType("document.pdf", pagesWithText(text))
	if res.Type != DocExercises {
		t.Fatalf("expected exercises, got %s", res.Type)
	}
	if res.Confidence != 0.75 {
		t.Errorf("expected confidence 0.75, got %v", res.Confidence)
	}
}

func TestDetectDocType_ChapterHeadingsMeanTextbook(t *testing.T) {
	res := DetectDocType("document.pdf", pagesWithText("Chapter 1 introduces the topic."))
	if res.Type != DocTextbook {
		t.Fatalf("expected textbook, got %s", res.Type)
	}
	if res.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %v", res.Confidence)
	}
}

func TestDetectDocType_DefaultsToTextbook(t *testing.T) {
	res := DetectDocType("document.pdf", pagesWithText("plain prose with no structure markers"))
	if res.Type != DocTextbook {
		t.Fatalf("expected textbook, got %s", res.Type)
	}
	if res.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %v", res.Confidence)
	}
}

func TestDetectDocType_SamplesOnlyFrontPages(t *testing.T) {
	// Question-dense pages beyond the sample must not flip the decision.
	texts := make([]string, 12)
	for i := range texts {
		texts[i] = "ordinary prose"
	}
	texts[11] = strings.Repeat("question 9 ", 30)

	res := DetectDocType("document.pdf", pagesWithText(texts...))
	if res.Type != DocTextbook || res.Confidence != 0.5 {
		t.Errorf("expected default textbook 0.5, got %s %v", res.Type, res.Confidence)
	}
}
