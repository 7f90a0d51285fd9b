// Package wordgen asks an LLM for new vocabulary and turns the answer into a
// validated vocab.WordList ready for import.
package wordgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/wordiz/internal/llm"
	"github.com/abhisek/wordiz/internal/vocab"
)

// MaxCount caps the words requested in one call.
const MaxCount = 50

// ErrInvalidRequest is returned before any provider call is made.
var ErrInvalidRequest = errors.New("invalid word generation request")

// ErrInvalidList means the model answered with a list that cannot be
// imported.
var ErrInvalidList = errors.New("invalid generated word list")

// Config controls the Generator.
type Config struct {
	// MaxTokens is the token budget for one list.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxExclude limits how many known concepts are listed in the prompt.
	MaxExclude int
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		MaxExclude:  200,
	}
}

// Request describes the words wanted.
type Request struct {
	Domain     vocab.Domain
	Difficulty vocab.Difficulty

	// Languages every word must be translated into. At least two.
	Languages []vocab.Language

	Count int

	// Exclude lists concepts already in the catalog.
	Exclude []string
}

func (r Request) validate() error {
	switch {
	case r.Domain.Code == "":
		return fmt.Errorf("%w: domain is required", ErrInvalidRequest)
	case !r.Difficulty.Valid():
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, r.Difficulty)
	case len(r.Languages) < 2:
		return fmt.Errorf("%w: at least two languages are required", ErrInvalidRequest)
	case r.Count < 1 || r.Count > MaxCount:
		return fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, MaxCount)
	}
	seen := make(map[string]bool, len(r.Languages))
	for _, l := range r.Languages {
		if seen[l.Code] {
			return fmt.Errorf("%w: duplicate language %q", ErrInvalidRequest, l.Code)
		}
		seen[l.Code] = true
	}
	return nil
}

func (r Request) normalized() Request {
	r.Domain.Code = strings.ToUpper(r.Domain.Code)
	if r.Domain.Name == "" {
		r.Domain.Name = r.Domain.Code
	}
	langs := make([]vocab.Language, len(r.Languages))
	for i, l := range r.Languages {
		l.Code = strings.ToLower(l.Code)
		if l.Name == "" {
			l.Name = l.Code
		}
		langs[i] = l
	}
	r.Languages = langs
	return r
}

// Generator produces word lists with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

type wordOutput struct {
	Concept      string              `json:"concept"`
	WordType     string              `json:"word_type"`
	Translations []translationOutput `json:"translations"`
}

type translationOutput struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

type listOutput struct {
	Words []wordOutput `json:"words"`
}

// Generate returns up to req.Count new words. Duplicate and excluded
// concepts in the model's answer are dropped; a word missing one of the
// requested languages fails the whole call.
func (g *Generator) Generate(ctx context.Context, req Request) (*vocab.WordList, error) {
	req = req.normalized()
	if err := req.validate(); err != nil {
		return nil, err
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeWordGen)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req, g.config.MaxExclude)}},
		Schema:      WordListSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw listOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	wl, err := assemble(req, raw)
	if err != nil {
		return nil, err
	}

	// Same checks as an imported file.
	b, err := json.Marshal(wl)
	if err != nil {
		return nil, fmt.Errorf("encode word list: %w", err)
	}
	out, err := vocab.DecodeWordList(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidList, err)
	}
	return out, nil
}

func assemble(req Request, raw listOutput) (*vocab.WordList, error) {
	excluded := make(map[string]bool, len(req.Exclude))
	for _, c := range req.Exclude {
		excluded[normalizeConcept(c)] = true
	}

	wl := &vocab.WordList{
		Languages: req.Languages,
		Domains:   []vocab.Domain{req.Domain},
	}
	for _, w := range raw.Words {
		concept := normalizeConcept(w.Concept)
		if concept == "" || excluded[concept] {
			continue
		}

		word := vocab.Word{
			Concept:    concept,
			Domain:     req.Domain.Code,
			Difficulty: req.Difficulty,
			Type:       wordType(w.WordType),
		}
		byLang := make(map[string]string, len(w.Translations))
		for _, t := range w.Translations {
			byLang[strings.ToLower(strings.TrimSpace(t.Language))] = strings.TrimSpace(t.Text)
		}
		for _, l := range req.Languages {
			text := byLang[l.Code]
			if text == "" {
				return nil, fmt.Errorf("%w: concept %q has no %s translation", ErrInvalidList, concept, l.Name)
			}
			word.Translations = append(word.Translations, vocab.Translation{Language: l.Code, Text: text})
		}

		wl.Words = append(wl.Words, word)
		excluded[concept] = true
		if len(wl.Words) == req.Count {
			break
		}
	}
	if len(wl.Words) == 0 {
		return nil, fmt.Errorf("%w: no new words", ErrInvalidList)
	}
	return wl, nil
}

// normalizeConcept lowercases and joins words with underscores:
// "Living Room" becomes "living_room".
func normalizeConcept(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(s, "_", " "))), "_")
}

func wordType(s string) vocab.WordType {
	t := vocab.WordType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case vocab.Noun, vocab.Verb, vocab.Adjective, vocab.Adverb, vocab.Pronoun, vocab.Preposition:
		return t
	case "":
		return ""
	}
	return vocab.Other
}
