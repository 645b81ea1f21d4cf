package service

import (
	"crypto/subtle"
	"slices"

	"flashdeck/internal/repository"
)

// AuthService handles authentication logic for the bot frontend
type AuthService struct {
	catalog     *Catalog
	botPassword string
}

// NewAuthService creates a new auth service
func NewAuthService(catalog *Catalog, botPassword string) *AuthService {
	return &AuthService{
		catalog:     catalog,
		botPassword: botPassword,
	}
}

// CheckPassword verifies if provided password matches
func (s *AuthService) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.botPassword)) == 1
}

// IsAuthorized checks if user is authorized
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	users, err := s.authorizedUsers()
	if err != nil {
		return false, err
	}
	return slices.Contains(users, userID), nil
}

// AuthorizeUser authorizes a user
func (s *AuthService) AuthorizeUser(userID int64) error {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	users, err := s.authorizedUsers()
	if err != nil {
		return err
	}
	if slices.Contains(users, userID) {
		return nil
	}

	users = append(users, userID)
	if !s.catalog.commit(map[repository.Key]any{
		repository.GlobalKey(repository.KindAuthorizedUsers): users,
	}) {
		return s.catalog.Health()
	}
	return nil
}

func (s *AuthService) authorizedUsers() ([]int64, error) {
	var users []int64
	err := s.catalog.load(repository.GlobalKey(repository.KindAuthorizedUsers), &users)
	return users, err
}
