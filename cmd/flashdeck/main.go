// Command flashdeck manages decks and flashcards and runs review sessions
// from the terminal.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"flashdeck/internal/app"
	"flashdeck/internal/config"
	"flashdeck/internal/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// Global flags
	verbose    bool
	nativeLang string
	targetLang string
	output     string

	flash  *app.App
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "flashdeck",
	Short: "Spaced-repetition flashcards for language learning",
	Long: `flashdeck keeps decks of word pairs per language pair and schedules
reviews with fixed again/hard/good/easy intervals.

Commands that work on decks or cards need a language pair. Pass it with
--native and --target, or omit both to reuse the most recently used pair.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flash != nil {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		} else if os.Getenv("LOG_LEVEL") == "" {
			level = "warn"
		}
		logger, err = app.NewLogger(level)
		if err != nil {
			return err
		}

		flash, err = app.New(cfg, logger)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&nativeLang, "native", "", "Native language of the pair")
	rootCmd.PersistentFlags().StringVar(&targetLang, "target", "", "Target language of the pair (same as --native for definitions)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")

	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	err := rootCmd.Execute()
	if flash != nil {
		if herr := flash.Catalog.Health(); herr != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", herr)
		}
		flash.Close()
	}
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

// partition resolves the language pair from flags or the most recent pair
func partition() (domain.Partition, error) {
	if nativeLang == "" && targetLang == "" {
		recent := flash.History.RecentLanguagePairs()
		if len(recent) == 0 {
			return domain.Partition{}, errors.New("no language pair given; use --native and --target")
		}
		return recent[0].Partition, nil
	}

	p := domain.NewPartition(nativeLang, targetLang)
	if err := p.Validate(); err != nil {
		return domain.Partition{}, err
	}
	if err := flash.History.RecordLanguagePair(p); err != nil {
		return domain.Partition{}, err
	}
	return p, nil
}

// render writes v as JSON or YAML, or calls text for the default format
func render(w io.Writer, v any, text func(io.Writer)) error {
	switch strings.ToLower(output) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case "text", "":
		text(w)
		return nil
	}
	return fmt.Errorf("unknown output format %q", output)
}
