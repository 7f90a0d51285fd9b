package wordgen

import "github.com/abhisek/wordiz/internal/llm"

// WordListSchema is the response shape asked of the model. Domain and
// difficulty come from the request, so the model only supplies words. It
// stays within the keywords OpenAI strict mode accepts; lengths and counts
// are checked after decoding.
var WordListSchema = &llm.Schema{
	Name:        "word-list",
	Description: "Vocabulary words with one translation per requested language",
	Strict:      true,
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"words": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"concept": map[string]any{
							"type":        "string",
							"description": "Language-independent key: the English word in lowercase, spaces replaced with underscores",
						},
						"word_type": map[string]any{
							"type":        "string",
							"enum":        []any{"NOUN", "VERB", "ADJECTIVE", "ADVERB", "PRONOUN", "PREPOSITION", "OTHER"},
							"description": "Part of speech",
						},
						"translations": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"language": map[string]any{
										"type":        "string",
										"description": "ISO 639-1 code of a requested language",
									},
									"text": map[string]any{
										"type":        "string",
										"description": "The word as a learner would type it, without article unless the language requires one",
									},
								},
								"required":             []any{"language", "text"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"concept", "word_type", "translations"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"words"},
		"additionalProperties": false,
	},
}
