package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore implements Store in process memory. It backs dry runs and
// tests; nothing leaves the process.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record

	// FailUpserts makes the next N Upsert calls fail with
	// ErrServiceUnavailable. Test hook.
	FailUpserts int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Record)}
}

// EnsureCollection creates the named collection map if absent.
func (s *MemoryStore) EnsureCollection(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = make(map[string]Record)
	}
	return nil
}

// Upsert stores records keyed by ID, overwriting existing ones.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpserts > 0 {
		s.FailUpserts--
		return ErrServiceUnavailable
	}
	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = make(map[string]Record)
	}
	for _, rec := range records {
		if metadataSize(rec.Metadata) > MaxMetadataBytes {
			return fmt.Errorf("record %s: %w", rec.ID, ErrMetadataTooLarge)
		}
		s.collections[collection][rec.ID] = rec
	}
	return nil
}

func metadataSize(metadata map[string]string) int {
	data, err := json.Marshal(metadata)
	if err != nil {
		return 0
	}
	return len(data)
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// Count returns the number of records in a collection.
func (s *MemoryStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Get returns a stored record by ID.
func (s *MemoryStore) Get(collection, id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.collections[collection][id]
	return rec, ok
}
