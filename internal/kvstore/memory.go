package kvstore

import "sync"

// MemoryStore is an in-memory Store, used in tests and single-process runs.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(scope, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[scope][key]
	return value, ok, nil
}

func (s *MemoryStore) Set(scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values[scope] == nil {
		s.values[scope] = make(map[string]string)
	}
	s.values[scope][key] = value
	return nil
}

func (s *MemoryStore) Remove(scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values[scope], key)
	return nil
}
