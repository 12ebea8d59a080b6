package session

import (
	"context"
	"errors"
	"sync"
)

var ErrNoSession = errors.New("no session for token")

// Store maps a bearer token to the authenticated user ID it belongs to.
type Store interface {
	UserID(ctx context.Context, token string) (string, error)
}

// MemoryStore is a process-local session store, used in tests and when no
// redis address is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]string)}
}

func (s *MemoryStore) Put(token, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
}

func (s *MemoryStore) UserID(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.sessions[token]
	if !ok {
		return "", ErrNoSession
	}
	return userID, nil
}
