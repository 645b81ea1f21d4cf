package domain

import (
	"fmt"
	"strings"
)

// Partition scopes decks and cards to a (native, target) language pair
type Partition struct {
	Native string `json:"nativeLanguage" yaml:"nativeLanguage"`
	Target string `json:"targetLanguage" yaml:"targetLanguage"`
}

// NewPartition creates a partition with trimmed language names
func NewPartition(native, target string) Partition {
	return Partition{
		Native: strings.TrimSpace(native),
		Target: strings.TrimSpace(target),
	}
}

// Validate checks that both languages are set
func (p Partition) Validate() error {
	if strings.TrimSpace(p.Native) == "" || strings.TrimSpace(p.Target) == "" {
		return fmt.Errorf("%w: native and target language are required", ErrValidation)
	}
	return nil
}

// IsZero reports whether the partition is unset
func (p Partition) IsZero() bool {
	return p == Partition{}
}

// IsDefinitionMode reports whether the target side holds definitions
// rather than translations
func (p Partition) IsDefinitionMode() bool {
	return p.Native == p.Target
}

// String returns a human readable form, e.g. "English → French"
func (p Partition) String() string {
	return p.Native + " → " + p.Target
}
