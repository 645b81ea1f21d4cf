package service

import (
	"testing"

	"flashdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_CheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		expected bool
	}{
		{name: "correct password", password: "secret123", expected: true},
		{name: "wrong password", password: "wrong", expected: false},
		{name: "empty password", password: "", expected: false},
	}

	f := newFixture(t)
	service := NewAuthService(f.catalog, "secret123")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.CheckPassword(tt.password))
		})
	}
}

func TestAuthService_AuthorizeUser(t *testing.T) {
	f := newFixture(t)
	service := NewAuthService(f.catalog, "secret123")

	ok, err := service.IsAuthorized(123)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, service.AuthorizeUser(123))
	require.NoError(t, service.AuthorizeUser(123))
	require.NoError(t, service.AuthorizeUser(456))

	ok, err = service.IsAuthorized(123)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.IsAuthorized(789)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_StorageErrors(t *testing.T) {
	store := new(testutil.MockPartitionStore)
	store.On("Read", mock.Anything).Return(nil, errUnavailable)
	service := NewAuthService(newMockCatalog(store), "secret123")

	ok, err := service.IsAuthorized(123)
	assert.ErrorIs(t, err, errUnavailable)
	assert.False(t, ok)

	assert.ErrorIs(t, service.AuthorizeUser(123), errUnavailable)
}
