package kv

import "sync"

// MemoryStore is an in-memory Store for tests.
// SetErr, when non-nil, is returned by every Set call, which lets tests
// simulate a full store without filling a disk.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]string
	SetErr error
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get returns the value stored under key, with ok=false when absent.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key, or fails with SetErr when one is configured.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.data[key] = value
	return nil
}

// Remove deletes key. Deleting an absent key is a no-op.
func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
