package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/journey/pkg/domain"
)

// Store implements ports.LedgerStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Ledger
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Ledger),
	}
}

// Save persists a deep copy of the ledger, similar to serialization.
func (s *Store) Save(ctx context.Context, slot string, ledger *domain.Ledger) error {
	copied := ledger.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[slot] = copied
	return nil
}

// Load retrieves a copy of the ledger so callers can't mutate store state by pointer.
func (s *Store) Load(ctx context.Context, slot string) (*domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger, ok := s.data[slot]
	if !ok {
		return nil, domain.ErrLedgerNotFound
	}
	return ledger.Clone(), nil
}

// Clear removes the slot.
func (s *Store) Clear(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, slot)
	return nil
}

// List returns the stored slots, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]string, 0, len(s.data))
	for slot := range s.data {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots, nil
}
