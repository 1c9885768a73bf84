package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	ports "budget/internal/sheets"
)

var (
	_ ports.SlotStore     = (*Store)(nil)
	_ ports.SlotInspector = (*Store)(nil)
)

// Store keeps slots in process memory. Values live as long as the Store.
type Store struct {
	mu    sync.Mutex
	slots map[string]string
}

func New() *Store {
	return &Store{slots: map[string]string{}}
}

// NewWithSlots returns a store pre-filled with the given slots.
func NewWithSlots(slots map[string]string) *Store {
	s := New()
	maps.Copy(s.slots, slots)
	return s
}

// Get returns the slot value or ports.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.slots[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return v, nil
}

// Set replaces the slot value.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = value
	return nil
}

// Keys returns the names of all written slots, sorted.
func (s *Store) Keys(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.slots)), nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
