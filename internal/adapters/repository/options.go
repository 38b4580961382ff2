package repository

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithCapacity bounds the number of records kept in memory.
// capacity <= 0 removes the bound.
func WithCapacity(capacity int) Option {
	return func(s *InMemoryStore) {
		s.capacity = capacity
	}
}
