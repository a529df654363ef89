package memory

import (
	"context"
	"sync"

	"github.com/aretw0/enhance/pkg/domain"
)

// Store implements ports.OptionsStore in memory.
// Safe for concurrent use.
type Store struct {
	data domain.Options
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store seeded with initial options.
func NewStore(initial domain.Options) *Store {
	return &Store{
		data: initial.Clone(),
	}
}

// Merge shallow-merges opts into the stored mapping.
func (s *Store) Merge(ctx context.Context, opts domain.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = domain.Merge(s.data, opts)
	return nil
}

// Snapshot returns a copy so callers can't mutate the store by reference.
func (s *Store) Snapshot(ctx context.Context) (domain.Options, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone(), nil
}

// Reset removes every key.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = domain.Options{}
	return nil
}
