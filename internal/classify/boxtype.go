package classify

import (
	"regexp"
	"strings"
)

// BoxType classifies a structural unit by its title, falling back to its
// depth in the hierarchy.
type BoxType string

const (
	BoxChapter    BoxType = "chapter"
	BoxSection    BoxType = "section"
	BoxSubsection BoxType = "subsection"
	BoxParagraph  BoxType = "paragraph"
	BoxExercise   BoxType = "exercise"
	BoxQuiz       BoxType = "quiz"
	BoxSummary    BoxType = "summary"
	BoxExample    BoxType = "example"
	BoxDefinition BoxType = "definition"
	BoxNote       BoxType = "note"
)

// Keyword rules ordered by precedence: an exercise heading that also says
// "summary" is an exercise.
var boxTypeRules = Rules{
	Keyword(string(BoxExercise), "exercise", "problem", "practice"),
	Keyword(string(BoxQuiz), "question", "quiz", "test", "assessment"),
	Keyword(string(BoxSummary), "summary", "conclusion", "recap", "review"),
	Keyword(string(BoxExample), "example", "case study", "illustration"),
	Keyword(string(BoxDefinition), "definition", "glossary", "term", "concept"),
	Keyword(string(BoxNote), "note", "remark", "important", "remember"),
}

// ClassifyBoxType assigns a box type from title keywords; titles without a
// keyword are typed by level.
func ClassifyBoxType(title string, level int) BoxType {
	if outcome, ok := boxTypeRules.First(strings.ToLower(title)); ok {
		return BoxType(outcome)
	}
	switch level {
	case 1:
		return BoxChapter
	case 2:
		return BoxSection
	case 3:
		return BoxSubsection
	default:
		return BoxParagraph
	}
}

// ExerciseInfo describes a unit detected as an exercise.
type ExerciseInfo struct {
	Type   string `json:"exercise_type"`
	Number string `json:"exercise_number,omitempty"`
}

var exerciseTitleWords = []string{
	"exercise", "problem", "question", "quiz", "test", "practice", "activity",
}

var exerciseTypeRules = Rules{
	Keyword("multiple_choice", "multiple choice", "mcq"),
	Keyword("true_false", "true", "false"),
	Keyword("short_answer", "short answer", "brief"),
	Keyword("essay", "essay", "discuss"),
	Keyword("fill_blank", "fill", "blank"),
	Keyword("coding", "code", "program"),
}

var exerciseNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// DetectExercise reports whether a unit title marks exercise content, with
// the exercise type and the first numbering token found.
func DetectExercise(title string) (ExerciseInfo, bool) {
	lower := strings.ToLower(title)
	if !containsAny(lower, exerciseTitleWords) {
		return ExerciseInfo{}, false
	}
	info := ExerciseInfo{Type: "problem_solving"}
	if outcome, ok := exerciseTypeRules.First(lower); ok {
		info.Type = outcome
	}
	info.Number = exerciseNumberRe.FindString(title)
	return info, true
}
