package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore implementa UserStore en memoria. Para desarrollo y tests.
type memoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account // keyed by username
}

// NewMemory crea un UserStore en memoria.
func NewMemory() UserStore {
	return &memoryStore{accounts: make(map[string]Account)}
}

func (s *memoryStore) ByUsername(ctx context.Context, username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[username]
	if !ok {
		return nil, ErrNotFound
	}
	out := a
	return &out, nil
}

func (s *memoryStore) Create(ctx context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.Username]; ok {
		return ErrDuplicate
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.accounts[a.Username] = *a
	return nil
}

func (s *memoryStore) Save(ctx context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.Username]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	s.accounts[a.Username] = *a
	return nil
}

func (s *memoryStore) Close() {}
