package repository

import (
	"errors"

	"flashdeck/internal/domain"
)

// ErrKeyNotFound is returned by Read when nothing is stored under a key
var ErrKeyNotFound = errors.New("key not found")

// Kind names a logical blob kept by the store
type Kind string

const (
	// Per-partition kinds
	KindDecks        Kind = "decks"
	KindCards        Kind = "cards"
	KindDeletedWords Kind = "deleted_words"

	// Global kinds, stored under the zero partition
	KindPromptHistory    Kind = "prompt_history"
	KindRecentPairs      Kind = "recent_pairs"
	KindRepetitionConfig Kind = "repetition_config"
	KindAPIKey           Kind = "api_key"
	KindAuthorizedUsers  Kind = "authorized_users"
)

// Key addresses one blob. Global kinds use the zero Partition.
type Key struct {
	Kind      Kind
	Partition domain.Partition
}

// PartitionKey builds a per-partition key
func PartitionKey(kind Kind, p domain.Partition) Key {
	return Key{Kind: kind, Partition: p}
}

// GlobalKey builds a key that is not scoped to a partition
func GlobalKey(kind Kind) Key {
	return Key{Kind: kind}
}

// Entry is a single write. A nil Value deletes the key.
type Entry struct {
	Key   Key
	Value []byte
}

// PartitionStore is a key-value store over serialized partitions
type PartitionStore interface {
	// Read returns the blob stored under key or ErrKeyNotFound
	Read(key Key) ([]byte, error)

	// Write applies all entries atomically
	Write(entries ...Entry) error

	// Partitions lists partitions that have a blob of the given kind
	Partitions(kind Kind) ([]domain.Partition, error)

	// Ping checks that the backend is reachable
	Ping() error
}
