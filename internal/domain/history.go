package domain

import "time"

const (
	// MaxPromptHistory caps the stored generation prompts
	MaxPromptHistory = 20
	// MaxRecentPairs caps the recently used language pairs
	MaxRecentPairs = 10
)

// PromptHistoryEntry is a prompt previously sent to the generator
type PromptHistoryEntry struct {
	Prompt    string    `json:"prompt" yaml:"prompt"`
	Partition Partition `json:"partition" yaml:"partition"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// LanguagePairEntry is a recently used partition
type LanguagePairEntry struct {
	Partition Partition `json:"partition" yaml:"partition"`
	UsedAt    time.Time `json:"usedAt" yaml:"usedAt"`
}
