package main

import (
	"fmt"
	"io"
	"strings"

	"flashdeck/internal/domain"

	"github.com/spf13/cobra"
)

var intervals domain.RepetitionConfig

// settingsCmd manages global settings
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change review intervals and the generator key",
}

type settingsView struct {
	Intervals domain.RepetitionConfig `json:"intervals" yaml:"intervals"`
	APIKeySet bool                    `json:"apiKeySet" yaml:"apiKeySet"`
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view := settingsView{
			Intervals: flash.History.RepetitionConfig(),
			APIKeySet: flash.Config.GeminiAPIKey != "" || flash.History.APIKey() != "",
		}
		return render(cmd.OutOrStdout(), view, func(w io.Writer) {
			fmt.Fprintf(w, "Intervals: %s\n", view.Intervals)
			fmt.Fprintf(w, "Gemini API key: %s\n", map[bool]string{true: "set", false: "not set"}[view.APIKeySet])
		})
	},
}

var settingsIntervalsCmd = &cobra.Command{
	Use:   "intervals",
	Short: "Change review intervals",
	Long: `Change the delay after each rating. Only flags that are given change.

  --again  minutes
  --hard   hours
  --good   days
  --easy   days`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := flash.History.RepetitionConfig()
		flags := cmd.Flags()
		if flags.Changed("again") {
			cfg.Again = intervals.Again
		}
		if flags.Changed("hard") {
			cfg.Hard = intervals.Hard
		}
		if flags.Changed("good") {
			cfg.Good = intervals.Good
		}
		if flags.Changed("easy") {
			cfg.Easy = intervals.Easy
		}

		if err := flash.History.SetRepetitionConfig(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Intervals: %s\n", cfg)
		return nil
	},
}

var settingsAPIKeyCmd = &cobra.Command{
	Use:   "api-key [key]",
	Short: "Save the Gemini API key (no argument removes it)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = strings.TrimSpace(args[0])
		}
		flash.History.SetAPIKey(key)
		if key == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "API key saved")
		}
		return nil
	},
}

func init() {
	d := domain.DefaultRepetitionConfig
	settingsIntervalsCmd.Flags().Float64Var(&intervals.Again, "again", d.Again, "Minutes until an again card returns")
	settingsIntervalsCmd.Flags().Float64Var(&intervals.Hard, "hard", d.Hard, "Hours until a hard card returns")
	settingsIntervalsCmd.Flags().Float64Var(&intervals.Good, "good", d.Good, "Days until a good card returns")
	settingsIntervalsCmd.Flags().Float64Var(&intervals.Easy, "easy", d.Easy, "Days until an easy card returns")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsIntervalsCmd)
	settingsCmd.AddCommand(settingsAPIKeyCmd)
}
