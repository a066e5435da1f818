package memory

import (
	"context"
	"sync"
)

// Storage is an in-process repository.Storage for development and tests.
type Storage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStorage creates an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
