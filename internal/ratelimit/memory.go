package ratelimit

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory. Entries are overwritten when a
// key starts a new window and are never purged, so the map grows with the
// number of distinct keys seen since startup.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	return record, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, record Record) error {
	s.mu.Lock()
	s.records[key] = record
	s.mu.Unlock()
	return nil
}

// Len reports the number of keys held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
