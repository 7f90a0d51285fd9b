package wordgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a language teacher building vocabulary lists for flashcard practice.

Rules:
- Every word must belong to the requested topic and suit the requested difficulty.
- EASY words are everyday and concrete. MEDIUM words are common but less basic. HARD words are specific or uncommon.
- Give exactly one translation per requested language, using the language codes given.
- Write each translation the way a learner would type it: lowercase unless the language capitalises it (German nouns), no leading article, no punctuation.
- Prefer single words. Use a short phrase only when a language has no single-word equivalent.
- The concept key is the English word in lowercase with underscores instead of spaces.
- Never repeat a concept, and never use a concept from the "already known" list.`

func buildUserMessage(req Request, maxExclude int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s (%s)\n", req.Domain.Name, req.Domain.Code)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Number of words: %d\n", req.Count)

	b.WriteString("Languages:\n")
	for _, l := range req.Languages {
		fmt.Fprintf(&b, "- %s: %s\n", l.Code, l.Name)
	}

	b.WriteString("\nAlready known concepts:\n")
	b.WriteString(buildExclude(req.Exclude, maxExclude))
	return b.String()
}

// buildExclude keeps the last max concepts, comma separated.
func buildExclude(concepts []string, max int) string {
	if len(concepts) == 0 {
		return "None"
	}
	if max > 0 && len(concepts) > max {
		concepts = concepts[len(concepts)-max:]
	}
	return strings.Join(concepts, ", ")
}
