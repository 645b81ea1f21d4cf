package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlashcard_Validate(t *testing.T) {
	tests := []struct {
		name          string
		card          Flashcard
		expectedError bool
	}{
		{
			name:          "valid card",
			card:          Flashcard{NativeWord: "hello", TargetWord: "bonjour", DeckID: "d1"},
			expectedError: false,
		},
		{
			name:          "blank native word",
			card:          Flashcard{NativeWord: "   ", TargetWord: "bonjour", DeckID: "d1"},
			expectedError: true,
		},
		{
			name:          "empty target word",
			card:          Flashcard{NativeWord: "hello", DeckID: "d1"},
			expectedError: true,
		},
		{
			name:          "missing deck",
			card:          Flashcard{NativeWord: "hello", TargetWord: "bonjour"},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			if tt.expectedError {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlashcard_IsDue(t *testing.T) {
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, Flashcard{}.IsDue(now), "never reviewed cards are due")
	assert.True(t, Flashcard{NextReview: &past}.IsDue(now))
	assert.True(t, Flashcard{NextReview: &now}.IsDue(now), "due exactly at next review")
	assert.False(t, Flashcard{NextReview: &future}.IsDue(now))
}

func TestFlashcard_AvoidWord(t *testing.T) {
	card := Flashcard{NativeWord: "dog", TargetWord: "chien"}

	assert.Equal(t, "chien", card.AvoidWord(NewPartition("English", "French")))
	assert.Equal(t, "dog", card.AvoidWord(NewPartition("English", "English")))
}

func TestFormatUntil(t *testing.T) {
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name     string
		next     *time.Time
		expected string
	}{
		{"never reviewed", nil, "Not reviewed yet"},
		{"overdue", at(-time.Hour), "Due now"},
		{"one minute", at(time.Minute + time.Second), "1 minute"},
		{"minutes", at(10 * time.Minute), "10 minutes"},
		{"hours", at(3 * time.Hour), "3 hours"},
		{"one day", at(25 * time.Hour), "1 day"},
		{"days", at(4 * 24 * time.Hour), "4 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatUntil(tt.next, now))
		})
	}
}
