package classify

import "strings"

// Rule pairs a predicate with the outcome reported when it matches.
type Rule struct {
	Outcome string
	Match   func(s string) bool
}

// Rules is an ordered rule list, evaluated first-match-wins.
type Rules []Rule

// First returns the outcome of the first matching rule.
func (rs Rules) First(s string) (string, bool) {
	for _, r := range rs {
		if r.Match(s) {
			return r.Outcome, true
		}
	}
	return "", false
}

// Keyword builds a rule that matches when s contains any of the words.
// Callers lowercase s themselves when they want case-insensitivity.
func Keyword(outcome string, words ...string) Rule {
	return Rule{
		Outcome: outcome,
		Match: func(s string) bool {
			return containsAny(s, words)
		},
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
