package questions

import (
	"regexp"
	"strings"

	"github.com/dgallion1/docstruct/internal/classify"
	"github.com/dgallion1/docstruct/internal/document"
)

// Question is one extracted question with its page of origin.
type Question struct {
	Number string `json:"number"`
	Text   string `json:"text"`
	Page   int    `json:"page"`
	Type   string `json:"type"`
}

// Result aggregates the questions found in a document.
type Result struct {
	TotalQuestions int            `json:"total_questions"`
	QuestionTypes  map[string]int `json:"question_types"`
	Questions      []Question     `json:"questions"`
}

// A question item starts on a numbered line ("12. ...") or an explicit
// label ("Question 12: ...") and continues until a blank line or the next
// item.
var (
	numberedItemRe  = regexp.MustCompile(`^\s*(\d+)\.\s+(\S.*)`)
	questionLabelRe = regexp.MustCompile(`(?i)^\s*question\s+(\d+)[:.]?\s+(\S.*)`)
	optionMarkRe    = regexp.MustCompile(`\b[A-D]\)`)
)

var interrogatives = []string{
	"what", "why", "how", "when", "where", "who", "which",
	"calculate", "solve", "find", "determine", "explain",
	"choose", "select", "answer", "state", "describe",
}

var typeRules = classify.Rules{
	{Outcome: "multiple_choice", Match: optionMarkRe.MatchString},
	{Outcome: "true_false", Match: containsAllFold("true", "false")},
	{Outcome: "calculation", Match: containsAnyFold("calculate", "compute", "solve")},
	{Outcome: "essay", Match: containsAnyFold("explain", "discuss", "describe", "essay")},
}

// Extract scans every page for question items and aggregates them with
// per-type counts.
func Extract(pages []document.Page) Result {
	all := []Question{}
	for _, p := range pages {
		all = append(all, ExtractPage(p.Text, p.PageNumber)...)
	}

	types := make(map[string]int)
	for _, q := range all {
		types[q.Type]++
	}
	return Result{
		TotalQuestions: len(all),
		QuestionTypes:  types,
		Questions:      all,
	}
}

// ExtractPage scans one page of text. Numbered items that do not read like
// questions (list entries, figure captions) are discarded.
func ExtractPage(text string, page int) []Question {
	var found []Question
	var buf strings.Builder
	number := ""
	open := false

	flush := func() {
		if !open {
			return
		}
		open = false
		body := strings.TrimSpace(buf.String())
		buf.Reset()
		if body == "" || !looksLikeQuestion(body) {
			return
		}
		found = append(found, Question{
			Number: number,
			Text:   body,
			Page:   page,
			Type:   detectType(body),
		})
	}

	start := func(num, rest string) {
		flush()
		number = num
		buf.WriteString(strings.TrimSpace(rest))
		open = true
	}

	for _, line := range strings.Split(text, "\n") {
		if m := numberedItemRe.FindStringSubmatch(line); m != nil {
			start(m[1], m[2])
			continue
		}
		if m := questionLabelRe.FindStringSubmatch(line); m != nil {
			start(m[1], m[2])
			continue
		}
		if !open {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		buf.WriteString(" ")
		buf.WriteString(trimmed)
	}
	flush()
	return found
}

// looksLikeQuestion accepts text with a question mark or an interrogative
// or task word anywhere in it.
func looksLikeQuestion(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	lower := strings.ToLower(text)
	for _, w := range interrogatives {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func detectType(text string) string {
	if outcome, ok := typeRules.First(text); ok {
		return outcome
	}
	return "short_answer"
}

func containsAnyFold(words ...string) func(string) bool {
	return func(s string) bool {
		lower := strings.ToLower(s)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
}

func containsAllFold(words ...string) func(string) bool {
	return func(s string) bool {
		lower := strings.ToLower(s)
		for _, w := range words {
			if !strings.Contains(lower, w) {
				return false
			}
		}
		return true
	}
}
