package handler

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"flashdeck/internal/domain"
	"flashdeck/internal/service"
)

const pairPrompt = "Send a language pair like «English - French». Use the same language twice for definitions."

const (
	pairDataPrefix = "pair_"
	pairDataSep    = "|"
	maxCallbackLen = 64
)

var pairSeparator = regexp.MustCompile(`\s*(?:→|->|—|-|/|:)\s*`)

// parsePair reads "Native - Target" in a few common spellings
func parsePair(text string) (domain.Partition, error) {
	parts := pairSeparator.Split(strings.TrimSpace(text), -1)
	if len(parts) != 2 {
		return domain.Partition{}, fmt.Errorf("%w: expected two languages", domain.ErrValidation)
	}
	p := domain.NewPartition(parts[0], parts[1])
	if err := p.Validate(); err != nil {
		return domain.Partition{}, err
	}
	return p, nil
}

// pairData encodes p as callback data. ok is false when it does not fit.
func pairData(p domain.Partition) (string, bool) {
	if strings.Contains(p.Native, pairDataSep) || strings.Contains(p.Target, pairDataSep) {
		return "", false
	}
	data := pairDataPrefix + p.Native + pairDataSep + p.Target
	// telebot prefixes the unique with \f
	return data, len(data)+1 <= maxCallbackLen
}

func parsePairData(data string) (domain.Partition, bool) {
	native, target, ok := strings.Cut(strings.TrimPrefix(data, pairDataPrefix), pairDataSep)
	if !ok {
		return domain.Partition{}, false
	}
	p := domain.NewPartition(native, target)
	return p, p.Validate() == nil
}

func answerNoun(p domain.Partition) string {
	if p.IsDefinitionMode() {
		return p.Target + " definition"
	}
	return p.Target + " translation"
}

func menuText(p domain.Partition, deckName string) string {
	var b strings.Builder
	b.WriteString("🏠 Main menu\n\n")
	if p.IsZero() {
		b.WriteString("No language pair selected yet.")
		return b.String()
	}
	fmt.Fprintf(&b, "🌍 %s\n", p)
	if deckName == "" {
		b.WriteString("🗂 No deck selected")
	} else {
		fmt.Fprintf(&b, "🗂 %s", deckName)
	}
	return b.String()
}

func cardFront(card domain.Flashcard, index, total int) string {
	text := fmt.Sprintf("🧠 Card %d of %d\n\n%s", index+1, total, card.NativeWord)
	if card.NativeExample != "" {
		text += "\n\n💬 " + card.NativeExample
	}
	return text
}

func cardBack(card domain.Flashcard, index, total int) string {
	text := cardFront(card, index, total) + "\n\n➡️ " + card.TargetWord
	if card.TargetExample != "" {
		text += "\n\n💬 " + card.TargetExample
	}
	return text + "\n\nHow well did you remember it?"
}

func ratedText(card domain.Flashcard, rating domain.Rating, now time.Time) string {
	return fmt.Sprintf("Rated «%s» as %s, next review in %s", card.NativeWord, rating, domain.FormatUntil(card.NextReview, now))
}

func statsText(p domain.Partition, summary []service.DeckSummary, forecast []domain.Day) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n\n", p)

	if len(summary) == 0 {
		b.WriteString("No decks yet.")
		return b.String()
	}

	total, due := 0, 0
	for _, s := range summary {
		fmt.Fprintf(&b, "🗂 %s: %d cards, %d due\n", s.Deck.Name, s.Total, s.Due)
		total += s.Total
		due += s.Due
	}
	fmt.Fprintf(&b, "\nTotal: %d cards, %d due now\n", total, due)

	if len(forecast) > 0 {
		b.WriteString("\n📅 Upcoming reviews\n")
		for _, d := range forecast {
			fmt.Fprintf(&b, "%s: %d\n", d.DisplayString(), d.CardCount)
		}
	}
	return b.String()
}
