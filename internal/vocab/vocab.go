// Package vocab defines the vocabulary catalog: languages, domains,
// language-independent word concepts and their translations.
package vocab

import (
	"fmt"
	"strings"
)

// Difficulty grades a word concept.
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// AllDifficulties lists difficulties from easiest to hardest.
var AllDifficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts any casing of a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// WordCount is the number of words drawn for a session at this difficulty.
func (d Difficulty) WordCount() int {
	switch d {
	case Medium:
		return 15
	case Hard:
		return 20
	default:
		return 10
	}
}

// Includes returns the difficulties a session at d draws from. Filtering is
// cumulative: a harder session also includes every easier word.
func (d Difficulty) Includes() []Difficulty {
	switch d {
	case Easy:
		return []Difficulty{Easy}
	case Medium:
		return []Difficulty{Easy, Medium}
	default:
		return []Difficulty{Easy, Medium, Hard}
	}
}

// Label is the human-readable name.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	}
	return string(d)
}

// SessionType decides which side of a translation pair is the prompt.
type SessionType string

const (
	// Comprehension prompts in the tested language, answers in the native one.
	Comprehension SessionType = "COMPREHENSION"
	// Expression prompts in the native language, answers in the tested one.
	Expression SessionType = "EXPRESSION"
	// Mixed picks a direction per item.
	Mixed SessionType = "MIXED"
)

var AllSessionTypes = []SessionType{Comprehension, Expression, Mixed}

func ParseSessionType(s string) (SessionType, error) {
	t := SessionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown session type %q", s)
	}
	return t, nil
}

func (t SessionType) Valid() bool {
	switch t {
	case Comprehension, Expression, Mixed:
		return true
	}
	return false
}

func (t SessionType) Label() string {
	switch t {
	case Comprehension:
		return "Comprehension"
	case Expression:
		return "Expression"
	case Mixed:
		return "Mixed"
	}
	return string(t)
}

// AllDomains is the domain code meaning "no domain filter".
const AllDomains = "ALL"

// Language is an ISO 639-1 coded language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Domain is a topic grouping of words.
type Domain struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// WordType is an optional part-of-speech tag.
type WordType string

const (
	Noun        WordType = "NOUN"
	Verb        WordType = "VERB"
	Adjective   WordType = "ADJECTIVE"
	Adverb      WordType = "ADVERB"
	Pronoun     WordType = "PRONOUN"
	Preposition WordType = "PREPOSITION"
	Other       WordType = "OTHER"
)

// Translation is one language's rendering of a concept.
type Translation struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// Word is a language-independent concept with its translations.
type Word struct {
	Concept      string        `json:"concept"`
	Domain       string        `json:"domain"`
	Difficulty   Difficulty    `json:"difficulty"`
	Type         WordType      `json:"word_type,omitempty"`
	Translations []Translation `json:"translations"`
}

// Text returns the concept's translation in lang.
func (w Word) Text(lang string) (string, bool) {
	for _, t := range w.Translations {
		if t.Language == lang {
			return t.Text, true
		}
	}
	return "", false
}

// Pair is one concept rendered in two languages, as drawn for a session.
type Pair struct {
	Concept    string
	Domain     string
	Difficulty Difficulty

	// FromID and ToID identify the stored translations.
	FromID string
	ToID   string

	From string // text in the native language
	To   string // text in the tested language
}
