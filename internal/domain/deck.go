package domain

import "time"

// Deck groups flashcards inside one partition
type Deck struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// UnassignedDeck is the bucket for cards whose deck no longer exists
const UnassignedDeck = "unassigned"
