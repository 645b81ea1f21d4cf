package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"flashdeck/internal/domain"

	"github.com/spf13/cobra"
)

var deckDescription string

// deckCmd groups deck management
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks of the current language pair",
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks with card counts",
	Args:  cobra.NoArgs,
	RunE:  runDeckList,
}

var deckCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeckCreate,
}

var deckRenameCmd = &cobra.Command{
	Use:   "rename <deck> <new-name>",
	Short: "Rename a deck (and optionally change its description)",
	Args:  cobra.ExactArgs(2),
	RunE:  runDeckRename,
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete <deck>",
	Short: "Delete a deck together with all of its cards",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeckDelete,
}

func init() {
	deckCreateCmd.Flags().StringVarP(&deckDescription, "description", "d", "", "Deck description")
	deckRenameCmd.Flags().StringVarP(&deckDescription, "description", "d", "", "New description (kept when empty)")

	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckCreateCmd)
	deckCmd.AddCommand(deckRenameCmd)
	deckCmd.AddCommand(deckDeleteCmd)
}

func runDeckList(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}

	summary := flash.Stats.Summary(p)
	return render(cmd.OutOrStdout(), summary, func(w io.Writer) {
		if len(summary) == 0 {
			fmt.Fprintf(w, "No decks for %s\n", p)
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCARDS\tDUE")
		for _, s := range summary {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", s.Deck.ID, s.Deck.Name, s.Total, s.Due)
		}
		tw.Flush()
	})
}

func runDeckCreate(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}

	deck, err := flash.Decks.CreateDeck(p, args[0], deckDescription)
	if err != nil {
		return err
	}
	if deck.ID == "" {
		return flash.Catalog.Health()
	}

	return render(cmd.OutOrStdout(), deck, func(w io.Writer) {
		fmt.Fprintf(w, "Created deck %q (%s)\n", deck.Name, deck.ID)
	})
}

func runDeckRename(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}

	deck, err := resolveDeck(p, args[0])
	if err != nil {
		return err
	}
	deck.Name = args[1]
	if deckDescription != "" {
		deck.Description = deckDescription
	}
	if err := flash.Decks.UpdateDeck(p, deck); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Renamed deck %s to %q\n", deck.ID, strings.TrimSpace(deck.Name))
	return nil
}

func runDeckDelete(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}

	deck, err := resolveDeck(p, args[0])
	if err != nil {
		return err
	}

	removed := flash.Decks.DeleteDeck(p, deck.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %q and %d cards\n", deck.Name, removed)
	return nil
}

// resolveDeck finds a deck by id, or by name when the name is unambiguous
func resolveDeck(p domain.Partition, ref string) (domain.Deck, error) {
	if deck, ok := flash.Decks.GetDeck(p, ref); ok {
		return deck, nil
	}

	var matches []domain.Deck
	for _, d := range flash.Decks.ListDecks(p) {
		if strings.EqualFold(d.Name, strings.TrimSpace(ref)) {
			matches = append(matches, d)
		}
	}

	switch len(matches) {
	case 0:
		return domain.Deck{}, fmt.Errorf("%w: no deck %q in %s", domain.ErrNotFound, ref, p)
	case 1:
		return matches[0], nil
	}
	return domain.Deck{}, fmt.Errorf("%q matches %d decks, use the deck id", ref, len(matches))
}
