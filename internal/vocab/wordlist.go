package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// WordList is the interchange format for importing vocabulary.
type WordList struct {
	Languages []Language `json:"languages,omitempty"`
	Domains   []Domain   `json:"domains,omitempty"`
	Words     []Word     `json:"words"`
}

// WordListSchema is the JSON Schema every imported or generated word list
// must satisfy.
var WordListSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"languages": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"code": map[string]any{"type": "string", "pattern": "^[a-z]{2,3}$"},
					"name": map[string]any{"type": "string", "minLength": 1},
				},
				"required": []any{"code", "name"},
			},
		},
		"domains": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"code": map[string]any{"type": "string", "pattern": "^[A-Z_]+$"},
					"name": map[string]any{"type": "string", "minLength": 1},
				},
				"required": []any{"code", "name"},
			},
		},
		"words": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"concept": map[string]any{
						"type":        "string",
						"minLength":   1,
						"description": "Language-independent key, lowercase English with underscores",
					},
					"domain": map[string]any{
						"type":        "string",
						"pattern":     "^[A-Z_]+$",
						"description": "Domain code",
					},
					"difficulty": map[string]any{
						"type": "string",
						"enum": []any{"EASY", "MEDIUM", "HARD"},
					},
					"word_type": map[string]any{
						"type": "string",
						"enum": []any{"NOUN", "VERB", "ADJECTIVE", "ADVERB", "PRONOUN", "PREPOSITION", "OTHER"},
					},
					"translations": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"language": map[string]any{"type": "string", "pattern": "^[a-z]{2,3}$"},
								"text":     map[string]any{"type": "string", "minLength": 1},
							},
							"required": []any{"language", "text"},
						},
					},
				},
				"required": []any{"concept", "domain", "difficulty", "translations"},
			},
		},
	},
	"required": []any{"words"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func wordListSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go map literals with
		// typed slices, so round-trip through encoding/json.
		raw, err := json.Marshal(WordListSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal word list schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			compileErr = fmt.Errorf("parse word list schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://word-list.json", doc); err != nil {
			compileErr = fmt.Errorf("add word list schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile("schema://word-list.json")
	})
	return compiled, compileErr
}

// ParseWordList decodes and validates a word list. Schema violations and
// semantic problems (duplicate concepts, duplicate languages within a word)
// are both reported as errors.
func ParseWordList(r io.Reader) (*WordList, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return DecodeWordList(raw)
}

// DecodeWordList is ParseWordList over a byte slice.
func DecodeWordList(raw []byte) (*WordList, error) {
	schema, err := wordListSchema()
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode word list: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate word list: %w", err)
	}

	var wl WordList
	if err := json.Unmarshal(raw, &wl); err != nil {
		return nil, fmt.Errorf("decode word list: %w", err)
	}
	if err := wl.Check(); err != nil {
		return nil, err
	}
	return &wl, nil
}

// Check enforces the rules the schema cannot express.
func (wl *WordList) Check() error {
	concepts := make(map[string]bool, len(wl.Words))
	for _, w := range wl.Words {
		if concepts[w.Concept] {
			return fmt.Errorf("duplicate concept %q", w.Concept)
		}
		concepts[w.Concept] = true

		if !w.Difficulty.Valid() {
			return fmt.Errorf("concept %q: unknown difficulty %q", w.Concept, w.Difficulty)
		}

		langs := make(map[string]bool, len(w.Translations))
		for _, t := range w.Translations {
			if langs[t.Language] {
				return fmt.Errorf("concept %q: duplicate translation for %q", w.Concept, t.Language)
			}
			langs[t.Language] = true
		}
	}
	return nil
}
