package memorykv

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-classroom/kv"
)

var _ kv.Store = (*Store)(nil)

// Store is an in-memory kv.Store
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

func New() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, kv.ErrKeyRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return kv.ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	if key == "" {
		return kv.ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key) // Already doesn't exist, no error
	return nil
}

// Len returns the number of stored keys
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
