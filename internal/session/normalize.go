package session

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize prepares an answer for comparison: surrounding whitespace is
// trimmed and the text is case folded. No other transformation is applied,
// so accents and inner spacing still matter.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Matches reports whether the learner's answer equals the expected answer
// after normalization.
func Matches(answer, expected string) bool {
	return Normalize(answer) == Normalize(expected)
}
