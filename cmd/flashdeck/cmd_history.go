package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// historyCmd shows prompt, pair and avoidance history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show generation history",
}

var historyPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List recent generation prompts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts := flash.History.PromptHistory()
		return render(cmd.OutOrStdout(), prompts, func(w io.Writer) {
			for _, h := range prompts {
				fmt.Fprintf(w, "%s  [%s]  %s\n", h.Timestamp.Local().Format("2006-01-02 15:04"), h.Partition, h.Prompt)
			}
		})
	},
}

var historyPairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "List recently used language pairs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs := flash.History.RecentLanguagePairs()
		return render(cmd.OutOrStdout(), pairs, func(w io.Writer) {
			for _, e := range pairs {
				fmt.Fprintln(w, e.Partition)
			}
		})
	},
}

var historyAvoidCmd = &cobra.Command{
	Use:   "avoid",
	Short: "List words the generator is told to avoid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := partition()
		if err != nil {
			return err
		}
		words := flash.History.WordsToAvoid(p)
		return render(cmd.OutOrStdout(), words, func(w io.Writer) {
			for _, word := range words {
				fmt.Fprintln(w, word)
			}
		})
	},
}

var historyClearDeletedCmd = &cobra.Command{
	Use:   "clear-deleted",
	Short: "Forget deleted cards so their words can be generated again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := partition()
		if err != nil {
			return err
		}
		n := len(flash.History.DeletedWords(p))
		flash.History.ClearDeletedCards(p)
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot %d deleted cards in %s\n", n, p)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyPromptsCmd)
	historyCmd.AddCommand(historyPairsCmd)
	historyCmd.AddCommand(historyAvoidCmd)
	historyCmd.AddCommand(historyClearDeletedCmd)
}
