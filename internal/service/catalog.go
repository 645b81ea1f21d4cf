package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"
	"flashdeck/internal/scheduler"

	"go.uber.org/zap"
)

// Catalog owns access to the partition store. Decks, cards and history
// services share one Catalog so that read-modify-write cycles on the same
// blobs are serialized and multi-blob changes are written atomically.
type Catalog struct {
	store  repository.PartitionStore
	logger *zap.Logger
	now    scheduler.Clock

	mu sync.Mutex

	errMu   sync.Mutex
	lastErr error
}

// Option configures a Catalog
type Option func(*Catalog)

// WithClock overrides the time source
func WithClock(clock scheduler.Clock) Option {
	return func(c *Catalog) {
		c.now = clock
	}
}

// NewCatalog creates a catalog over store
func NewCatalog(store repository.PartitionStore, logger *zap.Logger, opts ...Option) *Catalog {
	c := &Catalog{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health reports whether the backend is reachable and the last write succeeded.
// Store operations never fail on storage errors; frontends poll this instead.
func (c *Catalog) Health() error {
	if err := c.store.Ping(); err != nil {
		return fmt.Errorf("storage unavailable: %w", err)
	}

	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.lastErr != nil {
		return fmt.Errorf("last write failed: %w", c.lastErr)
	}
	return nil
}

// Now returns the catalog's current time
func (c *Catalog) Now() time.Time {
	return c.now()
}

// load decodes the blob under key into v. A missing key leaves v untouched
// and is not an error.
func (c *Catalog) load(key repository.Key, v any) error {
	data, err := c.store.Read(key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		c.logger.Error("Failed to read from store",
			zap.String("kind", string(key.Kind)),
			zap.String("partition", key.Partition.String()),
			zap.Error(err),
		)
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Error("Failed to decode stored value",
			zap.String("kind", string(key.Kind)),
			zap.String("partition", key.Partition.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (c *Catalog) decks(p domain.Partition) ([]domain.Deck, error) {
	var decks []domain.Deck
	err := c.load(repository.PartitionKey(repository.KindDecks, p), &decks)
	return decks, err
}

func (c *Catalog) cards(p domain.Partition) ([]domain.Flashcard, error) {
	var cards []domain.Flashcard
	err := c.load(repository.PartitionKey(repository.KindCards, p), &cards)
	return cards, err
}

func (c *Catalog) deletedWords(p domain.Partition) ([]domain.DeletedWord, error) {
	var words []domain.DeletedWord
	err := c.load(repository.PartitionKey(repository.KindDeletedWords, p), &words)
	return words, err
}

// entry encodes v for key
func entry(key repository.Key, v any) (repository.Entry, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return repository.Entry{}, err
	}
	return repository.Entry{Key: key, Value: data}, nil
}

// commit encodes and writes all values atomically. Failures are logged and
// remembered for Health; the change is dropped.
func (c *Catalog) commit(values map[repository.Key]any) bool {
	entries := make([]repository.Entry, 0, len(values))
	for key, v := range values {
		if v == nil {
			entries = append(entries, repository.Entry{Key: key})
			continue
		}
		e, err := entry(key, v)
		if err != nil {
			c.logger.Error("Failed to encode value", zap.String("kind", string(key.Kind)), zap.Error(err))
			c.setLastErr(err)
			return false
		}
		entries = append(entries, e)
	}

	if err := c.store.Write(entries...); err != nil {
		c.logger.Error("Failed to write to store, change dropped",
			zap.Int("entries", len(entries)),
			zap.Error(err),
		)
		c.setLastErr(err)
		return false
	}

	c.setLastErr(nil)
	return true
}

func (c *Catalog) setLastErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	c.lastErr = err
}
