package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"flashdeck/internal/domain"

	"github.com/spf13/cobra"
)

var (
	cardDeck          string
	cardNativeExample string
	cardTargetExample string
)

// cardCmd groups flashcard management
var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage flashcards of the current language pair",
}

var cardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards, optionally of one deck",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCards(cmd, false)
	},
}

var cardDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List cards due for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCards(cmd, true)
	},
}

var cardAddCmd = &cobra.Command{
	Use:   "add <native-word> <target-word>",
	Short: "Add a card to a deck",
	Args:  cobra.ExactArgs(2),
	RunE:  runCardAdd,
}

var cardDeleteCmd = &cobra.Command{
	Use:   "delete <card-id>...",
	Short: "Delete cards by id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCardDelete,
}

var cardMoveCmd = &cobra.Command{
	Use:   "move <deck> <card-id>...",
	Short: "Move cards to another deck",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCardMove,
}

func init() {
	cardListCmd.Flags().StringVar(&cardDeck, "deck", "", "Only cards of this deck (id or name)")
	cardDueCmd.Flags().StringVar(&cardDeck, "deck", "", "Only cards of this deck (id or name)")
	cardAddCmd.Flags().StringVar(&cardDeck, "deck", "", "Deck to add the card to (id or name)")
	cardAddCmd.Flags().StringVar(&cardNativeExample, "native-example", "", "Example sentence in the native language")
	cardAddCmd.Flags().StringVar(&cardTargetExample, "target-example", "", "Example sentence in the target language")
	_ = cardAddCmd.MarkFlagRequired("deck")

	cardCmd.AddCommand(cardListCmd)
	cardCmd.AddCommand(cardDueCmd)
	cardCmd.AddCommand(cardAddCmd)
	cardCmd.AddCommand(cardDeleteCmd)
	cardCmd.AddCommand(cardMoveCmd)
}

func listCards(cmd *cobra.Command, dueOnly bool) error {
	p, err := partition()
	if err != nil {
		return err
	}

	deckID := ""
	if cardDeck != "" {
		deck, err := resolveDeck(p, cardDeck)
		if err != nil {
			return err
		}
		deckID = deck.ID
	}

	var cards []domain.Flashcard
	if dueOnly {
		cards = flash.Cards.DueCards(p, deckID)
	} else {
		cards = flash.Cards.ListCards(p, deckID)
	}

	now := flash.Catalog.Now()
	return render(cmd.OutOrStdout(), cards, func(w io.Writer) {
		if len(cards) == 0 {
			fmt.Fprintln(w, "No cards")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNATIVE\tTARGET\tLEVEL\tNEXT")
		for _, c := range cards {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.ID, c.NativeWord, c.TargetWord, c.RepetitionLevel, domain.FormatUntil(c.NextReview, now))
		}
		tw.Flush()
	})
}

func runCardAdd(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}
	deck, err := resolveDeck(p, cardDeck)
	if err != nil {
		return err
	}

	card := domain.Flashcard{
		NativeWord:    args[0],
		TargetWord:    args[1],
		NativeExample: cardNativeExample,
		TargetExample: cardTargetExample,
		DeckID:        deck.ID,
	}
	res, err := flash.Cards.AddCard(p, card)
	if err != nil {
		return err
	}
	if res.Saved == 0 {
		return fmt.Errorf("card not saved: %w", flash.Catalog.Health())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s → %s to %q\n", card.NativeWord, card.TargetWord, deck.Name)
	return nil
}

func runCardDelete(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}

	removed := flash.Cards.DeleteCards(p, args)
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d of %d cards\n", removed, len(args))
	return nil
}

func runCardMove(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}
	deck, err := resolveDeck(p, args[0])
	if err != nil {
		return err
	}

	moved, err := flash.Cards.MoveCards(p, args[1:], deck.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved %d cards to %q\n", moved, deck.Name)
	return nil
}

// formatTime renders an optional timestamp for text output
func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
