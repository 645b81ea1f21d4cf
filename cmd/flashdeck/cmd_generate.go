package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	generateDeck    string
	generateTimeout time.Duration
)

// generateCmd asks the model for new cards
var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate cards for a deck with Gemini",
	Long: `Generate flashcards from a free-text prompt, for example
"20 most common kitchen words". Words already in the language pair,
or deleted after being reviewed, are avoided.

Requires GEMINI_API_KEY or a key saved with "settings api-key".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

var generateSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest prompts based on earlier ones",
	Args:  cobra.NoArgs,
	RunE:  runGenerateSuggest,
}

func init() {
	generateCmd.Flags().StringVar(&generateDeck, "deck", "", "Deck to save the cards in (id or name)")
	generateCmd.PersistentFlags().DurationVar(&generateTimeout, "timeout", 2*time.Minute, "Generation timeout")
	_ = generateCmd.MarkFlagRequired("deck")

	generateCmd.AddCommand(generateSuggestCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}
	deck, err := resolveDeck(p, generateDeck)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), generateTimeout)
	defer cancel()

	gen, err := flash.Generation(ctx)
	if err != nil {
		return err
	}

	res, err := gen.Generate(ctx, p, deck.ID, strings.Join(args, " "))
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), res, func(w io.Writer) {
		fmt.Fprintf(w, "Saved %d new cards to %q", res.Saved, deck.Name)
		if res.Skipped > 0 || res.Invalid > 0 {
			fmt.Fprintf(w, " (%d already known, %d invalid)", res.Skipped, res.Invalid)
		}
		fmt.Fprintln(w)
	})
}

func runGenerateSuggest(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), generateTimeout)
	defer cancel()

	gen, err := flash.Generation(ctx)
	if err != nil {
		return err
	}

	suggestions := gen.Suggest(ctx, p)
	return render(cmd.OutOrStdout(), suggestions, func(w io.Writer) {
		for _, s := range suggestions {
			fmt.Fprintf(w, "- %s\n", s)
		}
	})
}
