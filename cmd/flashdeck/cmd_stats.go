package main

import (
	"fmt"
	"io"

	"flashdeck/internal/domain"
	"flashdeck/internal/service"

	"github.com/spf13/cobra"
)

var statsDays int

// statsCmd shows deck totals and the review forecast
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show deck totals and upcoming reviews",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "Number of days to forecast")
}

type statsView struct {
	Partition domain.Partition      `json:"partition" yaml:"partition"`
	Decks     []service.DeckSummary `json:"decks" yaml:"decks"`
	Forecast  []domain.Day          `json:"forecast" yaml:"forecast"`
}

func runStats(cmd *cobra.Command, args []string) error {
	p, err := partition()
	if err != nil {
		return err
	}

	view := statsView{
		Partition: p,
		Decks:     flash.Stats.Summary(p),
		Forecast:  flash.Stats.Forecast(p, statsDays),
	}
	return render(cmd.OutOrStdout(), view, func(w io.Writer) {
		fmt.Fprintf(w, "%s\n\n", p)
		total, due := 0, 0
		for _, s := range view.Decks {
			fmt.Fprintf(w, "  %-24s %4d cards %4d due\n", s.Deck.Name, s.Total, s.Due)
			total += s.Total
			due += s.Due
		}
		fmt.Fprintf(w, "\n  %-24s %4d cards %4d due\n\nUpcoming reviews\n", "Total", total, due)
		for _, d := range view.Forecast {
			fmt.Fprintf(w, "  %-16s %d\n", d.DisplayString(), d.CardCount)
		}
	})
}
