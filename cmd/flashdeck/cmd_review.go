package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"flashdeck/internal/domain"
	"flashdeck/internal/service"

	"github.com/spf13/cobra"
)

var reviewDeck string

// reviewCmd runs an interactive review session on stdin/stdout
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review due cards",
	Long: `Review the cards that are due now, one at a time.

Press Enter to reveal the answer, then rate your recall with
1/again, 2/hard, 3/good or 4/easy. Type q to stop early; ratings
already given are kept.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewDeck, "deck", "", "Only review this deck (id or name)")
}

func runReview(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}

	deckID := ""
	if reviewDeck != "" {
		deck, err := resolveDeck(p, reviewDeck)
		if err != nil {
			return err
		}
		deckID = deck.ID
	}

	session := flash.Reviews.Start(p, deckID)
	return reviewLoop(session, p, cmd.InOrStdin(), cmd.OutOrStdout())
}

func reviewLoop(session *service.ReviewSession, p domain.Partition, in io.Reader, out io.Writer) error {
	_, total := session.Progress()
	if total == 0 {
		fmt.Fprintln(out, "Nothing is due right now.")
		return nil
	}

	scanner := bufio.NewScanner(in)
	reviewed := 0

	for {
		card, _, ok := session.Current()
		if !ok {
			break
		}
		index, _ := session.Progress()

		fmt.Fprintf(out, "\n[%d/%d] %s\n", index+1, total, card.NativeWord)
		if card.NativeExample != "" {
			fmt.Fprintf(out, "  %s\n", card.NativeExample)
		}
		fmt.Fprint(out, "Press Enter to show the answer (q to quit) ")
		if !scanner.Scan() || isQuit(scanner.Text()) {
			session.End()
			break
		}
		if err := session.Reveal(); err != nil {
			return err
		}

		fmt.Fprintf(out, "%s %s\n", answerLabel(p), card.TargetWord)
		if card.TargetExample != "" {
			fmt.Fprintf(out, "  %s\n", card.TargetExample)
		}

		rating, quit := readRating(scanner, out)
		if quit {
			session.End()
			break
		}

		updated, err := session.Rate(rating)
		if err != nil {
			return err
		}
		reviewed++
		if updated.ID != "" {
			fmt.Fprintf(out, "Next review: %s\n", formatTime(updated.NextReview))
		}
	}

	fmt.Fprintf(out, "\nReviewed %d of %d cards.\n", reviewed, total)
	return scanner.Err()
}

// readRating prompts until a valid rating or quit is entered
func readRating(scanner *bufio.Scanner, out io.Writer) (domain.Rating, bool) {
	for {
		fmt.Fprint(out, "Rate [1] again [2] hard [3] good [4] easy: ")
		if !scanner.Scan() {
			return 0, true
		}
		text := strings.TrimSpace(scanner.Text())
		if isQuit(text) {
			return 0, true
		}
		if r, err := parseRatingInput(text); err == nil {
			return r, false
		}
		fmt.Fprintln(out, "Please enter 1-4 or a rating name.")
	}
}

func parseRatingInput(text string) (domain.Rating, error) {
	if len(text) == 1 && text[0] >= '1' && text[0] <= '4' {
		return domain.Rating(text[0] - '0'), nil
	}
	return domain.ParseRating(text)
}

func isQuit(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	return text == "q" || text == "quit"
}

func answerLabel(p domain.Partition) string {
	if p.IsDefinitionMode() {
		return "Definition:"
	}
	return p.Target + ":"
}
