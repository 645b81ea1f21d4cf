package generator

import (
	"context"
	"fmt"
	"strings"

	"flashdeck/internal/domain"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the subset of genai.Models used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates cards with Google's Gemini API
type Gemini struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// NewGemini creates a Gemini generator
func NewGemini(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newGemini(client.Models, model, logger), nil
}

func newGemini(models contentGenerator, model string, logger *zap.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		models: models,
		model:  model,
		logger: logger,
	}
}

// Generate asks the model for flashcards matching prompt
func (g *Gemini) Generate(ctx context.Context, p domain.Partition, prompt string, avoid []string) ([]domain.Flashcard, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt(p, avoid), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.2),
		TopK:              genai.Ptr[float32](40),
		TopP:              genai.Ptr[float32](0.95),
		MaxOutputTokens:   4096,
		ResponseMIMEType:  "application/json",
	}

	g.logger.Info("Requesting flashcards",
		zap.String("model", g.model),
		zap.String("partition", p.String()),
		zap.Int("avoid_words", len(avoid)),
	)

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	return parseCards(resp.Text())
}

// SuggestPrompts proposes three new prompts based on history
func (g *Gemini) SuggestPrompts(ctx context.Context, p domain.Partition, history []domain.PromptHistoryEntry) ([]string, error) {
	if len(history) == 0 {
		return DefaultSuggestions, nil
	}
	if len(history) > 10 {
		history = history[:10]
	}

	lines := make([]string, 0, len(history))
	for _, h := range history {
		lines = append(lines, fmt.Sprintf("- %q (%s to %s)", h.Prompt, h.Partition.Native, h.Partition.Target))
	}

	prompt := fmt.Sprintf(`You are an AI assistant helping with language learning flashcard generation.

Based on the user's previous prompts for flashcard generation, suggest 3 new, different prompts they might want to use next.

The user is currently learning %s from %s.

Previous prompts:
%s

Each suggestion should be concise (under 50 characters if possible) and different from the previous prompts.
Return ONLY a JSON array with 3 string suggestions.`, p.Target, p.Native, strings.Join(lines, "\n"))

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		TopK:             genai.Ptr[float32](40),
		TopP:             genai.Ptr[float32](0.95),
		MaxOutputTokens:  1024,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		g.logger.Warn("Prompt suggestion failed, using defaults", zap.Error(err))
		return DefaultSuggestions, nil
	}

	suggestions := parseSuggestions(resp.Text())
	if len(suggestions) == 0 {
		g.logger.Warn("Could not extract suggestions from response, using defaults")
		return DefaultSuggestions, nil
	}
	return suggestions, nil
}
