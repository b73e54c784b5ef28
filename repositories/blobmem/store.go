// Package blobmem implements an in-memory blob store, used in tests and
// when no data directory is configured.
package blobmem

import (
	"context"
	"sync"
)

// Store keeps blobs in a map
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New returns an empty in-memory store
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Get returns the blob stored under key, or (nil, nil) when absent
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Set stores a copy of the blob under key
func (s *Store) Set(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[key] = stored
	return nil
}
