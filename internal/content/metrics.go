package content

import (
	"regexp"
	"strings"
)

// Metrics summarizes the text of one structural unit.
type Metrics struct {
	WordCount               int  `json:"word_count"`
	EstimatedReadingMinutes int  `json:"estimated_reading_minutes"`
	HasImages               bool `json:"has_images"`
	HasCode                 bool `json:"has_code"`
	HasEquations            bool `json:"has_equations"`
}

// wordsPerMinute is the reading speed behind time estimates.
const wordsPerMinute = 200

var codeMarkers = []string{
	"def ", "function ", "func ", "class ", "import ", "#include",
	"public static", "console.log", "printf(", "print(", "```",
}

var (
	equationOpRe   = regexp.MustCompile(`\d\s*[=+\-*/^×÷]|[=+\-*/^×÷]\s*\d`)
	equationTokens = []string{"∑", "∫", "√", "≈", "≠", "≤", "≥", `\frac`, `\sum`, `\int`}
)

// Compute derives metrics from unit text. hasImages is carried from the
// page flags of the unit's range rather than inferred from text.
func Compute(text string, hasImages bool) Metrics {
	if strings.TrimSpace(text) == "" {
		m := Zero()
		m.HasImages = hasImages
		return m
	}

	words := len(strings.Fields(text))
	minutes := words / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return Metrics{
		WordCount:               words,
		EstimatedReadingMinutes: minutes,
		HasImages:               hasImages,
		HasCode:                 containsCode(text),
		HasEquations:            containsEquations(text),
	}
}

// Zero is the metrics value for units with no usable text. The reading
// estimate stays at the one minute floor.
func Zero() Metrics {
	return Metrics{EstimatedReadingMinutes: 1}
}

func containsCode(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range codeMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func containsEquations(text string) bool {
	if equationOpRe.MatchString(text) {
		return true
	}
	for _, tok := range equationTokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}
