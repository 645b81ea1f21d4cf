package testutil

import (
	"context"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockPartitionStore is a mock for repository.PartitionStore
type MockPartitionStore struct {
	mock.Mock
}

func (m *MockPartitionStore) Read(key repository.Key) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPartitionStore) Write(entries ...repository.Entry) error {
	args := m.Called(entries)
	return args.Error(0)
}

func (m *MockPartitionStore) Partitions(kind repository.Kind) ([]domain.Partition, error) {
	args := m.Called(kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Partition), args.Error(1)
}

func (m *MockPartitionStore) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// MockGenerator is a mock for generator.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, p domain.Partition, prompt string, avoid []string) ([]domain.Flashcard, error) {
	args := m.Called(ctx, p, prompt, avoid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flashcard), args.Error(1)
}
