// Package generator produces candidate flashcards with a large language model.
//
// Output is advisory: the model is told which words to avoid but may still
// return them, and candidate ids are not trusted.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"flashdeck/internal/domain"
)

// ErrNoCards is returned when a response holds no usable cards
var ErrNoCards = errors.New("generator returned no cards")

// Generator produces candidate cards for a prompt
type Generator interface {
	Generate(ctx context.Context, p domain.Partition, prompt string, avoid []string) ([]domain.Flashcard, error)
}

// Suggester proposes new prompts from previous ones
type Suggester interface {
	SuggestPrompts(ctx context.Context, p domain.Partition, history []domain.PromptHistoryEntry) ([]string, error)
}

// DefaultSuggestions are offered when there is no history or the model fails
var DefaultSuggestions = []string{
	"Add 20 most common greetings",
	"Basic travel phrases and vocabulary",
	"Food and restaurant vocabulary",
}

type candidate struct {
	ID            string `json:"id"`
	NativeWord    string `json:"nativeWord"`
	TargetWord    string `json:"targetWord"`
	NativeExample string `json:"nativeExample"`
	TargetExample string `json:"targetExample"`
}

var (
	jsonArray   = regexp.MustCompile(`(?s)\[.*\]`)
	stringArray = regexp.MustCompile(`\[\s*"[^"]*"(?:\s*,\s*"[^"]*")*\s*\]`)
)

// systemPrompt builds the generation instructions for p
func systemPrompt(p domain.Partition, avoid []string) string {
	var b strings.Builder

	if p.IsDefinitionMode() {
		fmt.Fprintf(&b, "You are a language learning assistant that creates flashcards.\n"+
			"Generate %s vocabulary flashcards with a %s definition on the back, based on the user's prompt.\n",
			p.Native, p.Target)
	} else {
		fmt.Fprintf(&b, "You are a language learning assistant that creates flashcards.\n"+
			"Generate flashcards from %s to %s based on the user's prompt.\n",
			p.Native, p.Target)
	}

	if len(avoid) > 0 {
		fmt.Fprintf(&b, "IMPORTANT: DO NOT include these words that the user already knows: %s\n", strings.Join(avoid, ", "))
	}

	target := "word in " + p.Target
	if p.IsDefinitionMode() {
		target = "definition in " + p.Target
	}
	fmt.Fprintf(&b, `Return the result as a valid JSON array of flashcard objects with the following structure:
[
  {
    "id": "unique-id-1",
    "nativeWord": "word in %s",
    "targetWord": "%s",
    "nativeExample": "example sentence in %s",
    "targetExample": "example sentence in %s"
  }
]`, p.Native, target, p.Native, p.Target)

	return b.String()
}

// parseCards extracts flashcards from a model response
func parseCards(text string) ([]domain.Flashcard, error) {
	match := jsonArray.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("could not extract JSON from response: %w", ErrNoCards)
	}

	var candidates []candidate
	if err := json.Unmarshal([]byte(match), &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse generated cards: %w", err)
	}

	cards := make([]domain.Flashcard, 0, len(candidates))
	for _, c := range candidates {
		cards = append(cards, domain.Flashcard{
			ID:            c.ID,
			NativeWord:    strings.TrimSpace(c.NativeWord),
			TargetWord:    strings.TrimSpace(c.TargetWord),
			NativeExample: strings.TrimSpace(c.NativeExample),
			TargetExample: strings.TrimSpace(c.TargetExample),
		})
	}
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards, nil
}

// parseSuggestions extracts up to three prompt suggestions
func parseSuggestions(text string) []string {
	var suggestions []string

	if match := stringArray.FindString(text); match != "" {
		_ = json.Unmarshal([]byte(match), &suggestions)
	}

	if len(suggestions) == 0 {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimLeft(line, "0123456789.-*) ")
			line = strings.Trim(line, `"'`)
			if line != "" && !strings.HasPrefix(line, "```") {
				suggestions = append(suggestions, line)
			}
		}
	}

	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}
