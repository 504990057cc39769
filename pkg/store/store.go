// Package store provides a generic, thread-safe, in-memory key-value store
// that is filled wholesale and keeps the given order for deterministic listing.
package store

import "sync"

// Store is a generic, thread-safe, in-memory store for objects of type T.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string // listing order
}

// New creates an empty Store.
func New[T any]() *Store[T] {
	return &Store[T]{
		items: make(map[string]T),
		order: make([]string, 0),
	}
}

// Get retrieves an item by ID. Returns the item and true if found, zero value and false otherwise.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// List returns all items in listing order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.items[id])
	}
	return result
}

// ListIDs returns all IDs in listing order.
func (s *Store[T]) ListIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Count returns the number of items in the store.
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Replace swaps the whole content for items, keyed by id and kept in the given
// order. Readers see either the old or the new content, never a partial one.
func (s *Store[T]) Replace(ids []string, items []T) {
	next := make(map[string]T, len(items))
	order := make([]string, 0, len(items))
	for i, id := range ids {
		if _, dup := next[id]; !dup {
			order = append(order, id)
		}
		next[id] = items[i]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = next
	s.order = order
}
