// Package store persists user accounts.
package store

import (
	"context"
	"strings"
	"sync"

	"covera/internal/auth"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

// InMemoryStore is the development and test fallback for the user store.
// Lookups are keyed by ID and by lowercased email.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]auth.User
	byEmail map[string]id.UserID
}

// NewInMemory constructs an empty in-memory user store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.UserID]auth.User),
		byEmail: make(map[string]id.UserID),
	}
}

// Save inserts a new user. Returns sentinel.ErrConflict when the email is
// already taken.
func (s *InMemoryStore) Save(_ context.Context, user auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if existing, ok := s.byEmail[key]; ok && existing != user.ID {
		return sentinel.ErrConflict
	}
	s.byID[user.ID] = user
	s.byEmail[key] = user.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[userID]
	if !ok {
		return auth.User{}, sentinel.ErrNotFound
	}
	return user, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[emailKey(email)]
	if !ok {
		return auth.User{}, sentinel.ErrNotFound
	}
	return s.byID[userID], nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
