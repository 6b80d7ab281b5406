package backend

import (
	"context"
	"sync"
)

type memorySessionStore struct {
	mu     sync.RWMutex
	secret string
}

// NewMemorySessionStore creates a session store that lives as long as the process.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{}
}

func (s *memorySessionStore) Get(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secret, nil
}

func (s *memorySessionStore) Set(_ context.Context, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = secret
	return nil
}

func (s *memorySessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = ""
	return nil
}

var _ SessionStore = (*memorySessionStore)(nil)
