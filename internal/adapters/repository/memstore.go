package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/samvat/rectify/pkg/metrics"
)

// defaultStoreCapacity bounds the in-memory store when no option overrides it.
const defaultStoreCapacity = 100000

// InMemoryStore implements Store with a mutex-guarded map. When bounded
// and full it evicts the oldest finished record; pending records are
// never evicted, so a full store of in-flight requests rejects writes.
type InMemoryStore struct {
	mu       sync.RWMutex
	records  map[string]Record
	order    []string
	capacity int
}

// NewInMemoryStore creates a new in-memory store with configuration options.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		capacity: defaultStoreCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.records = make(map[string]Record)
	metrics.UpdateStoreSize(0)
	return s
}

// Put inserts or replaces the record for its ID.
func (s *InMemoryStore) Put(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; !exists {
		if s.capacity > 0 && len(s.records) >= s.capacity {
			if !s.evictOldestFinished() {
				return fmt.Errorf("record %s: %w", rec.ID, ErrStoreFull)
			}
		}
		s.order = append(s.order, rec.ID)
	}

	s.records[rec.ID] = rec
	metrics.UpdateStoreSize(len(s.records))
	return nil
}

// Get returns the record for a request ID.
func (s *InMemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

// Count returns the number of records held.
func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// evictOldestFinished drops the oldest completed or failed record.
// Returns false when every live record is still pending.
// Must be called with s.mu held.
func (s *InMemoryStore) evictOldestFinished() bool {
	for i, id := range s.order {
		rec, live := s.records[id]
		if !live {
			continue
		}
		if rec.Status == StatusPending {
			continue
		}
		delete(s.records, id)
		s.order = append(s.order[:i], s.order[i+1:]...)
		return true
	}
	return false
}
