package ecs

import "sync"

// Store is a container for values of a single component kind, mapping
// entity id to the entity's current value. Each store carries its own
// lock, so systems in the same parallel phase can touch different
// stores, or different ids in the same store, without coordinating.
type Store[T any] struct {
	mu         sync.RWMutex
	components map[EntityID]T
	entities   []EntityID
}

// NewStore creates an empty component store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[EntityID]T),
		entities:   make([]EntityID, 0, 64),
	}
}

// Set inserts or overwrites the value for an entity. It reports whether
// a new entry was inserted, as opposed to an existing one overwritten.
func (s *Store[T]) Set(e EntityID, val T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.components[e]
	if !exists {
		s.entities = append(s.entities, e)
	}
	s.components[e] = val
	return !exists
}

// Get retrieves the value for an entity.
func (s *Store[T]) Get(e EntityID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.components[e]
	return val, ok
}

// Has reports whether the entity has an entry in this store.
func (s *Store[T]) Has(e EntityID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[e]
	return ok
}

// Remove deletes the entry for an entity, returning the removed value
// if one was present.
func (s *Store[T]) Remove(e EntityID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.components[e]
	if !ok {
		var zero T
		return zero, false
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			s.entities[i] = s.entities[len(s.entities)-1]
			s.entities = s.entities[:len(s.entities)-1]
			break
		}
	}
	return val, true
}

// Entities returns a snapshot of all entity ids present in the store.
// The slice is a copy; iteration order is not meaningful.
func (s *Store[T]) Entities() []EntityID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]EntityID, len(s.entities))
	copy(result, s.entities)
	return result
}

// Len returns the number of entities with an entry in this store.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Clear removes all entries.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = make(map[EntityID]T)
	s.entities = s.entities[:0]
}
