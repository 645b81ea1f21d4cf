// Package memory provides an in-process PartitionStore. Nothing survives a
// restart; it backs tests and the "memory" storage driver.
package memory

import (
	"sort"
	"sync"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"
)

// KVStore implements repository.PartitionStore
type KVStore struct {
	mu   sync.RWMutex
	data map[repository.Key][]byte
}

// NewKVStore creates an empty store
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[repository.Key][]byte)}
}

// Read returns a copy of the stored value
func (s *KVStore) Read(key repository.Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	return clone(value), nil
}

// Write stores or deletes every entry under one lock
func (s *KVStore) Write(entries ...repository.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if e.Value == nil {
			delete(s.data, e.Key)
			continue
		}
		s.data[e.Key] = clone(e.Value)
	}
	return nil
}

// Partitions lists partitions holding the given kind, sorted by native then target
func (s *KVStore) Partitions(kind repository.Kind) ([]domain.Partition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var partitions []domain.Partition
	for key := range s.data {
		if key.Kind == kind && !key.Partition.IsZero() {
			partitions = append(partitions, key.Partition)
		}
	}

	sort.Slice(partitions, func(i, j int) bool {
		if partitions[i].Native != partitions[j].Native {
			return partitions[i].Native < partitions[j].Native
		}
		return partitions[i].Target < partitions[j].Target
	})
	return partitions, nil
}

// Ping always succeeds
func (s *KVStore) Ping() error {
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
