// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"errors"
	"sync"
	"time"
)

// ErrEntityExists is returned by Store.Create when a record is already present.
var ErrEntityExists = errors.New("entity already tracked")

// Store owns one EntityState per active participant. A single mutex
// serializes the event path against the decay pass.
type Store struct {
	mu       sync.Mutex
	entities map[EntityID]*EntityState
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entities: make(map[EntityID]*EntityState),
		now:      time.Now,
	}
}

// Create starts a fresh record for a joining participant.
func (s *Store) Create(id EntityID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[id]; ok {
		return ErrEntityExists
	}
	s.entities[id] = newEntityState(id, name, s.now())
	return nil
}

// Replace discards any existing record and starts a fresh one.
func (s *Store) Replace(id EntityID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[id] = newEntityState(id, name, s.now())
}

// With runs fn against the record for id while holding the store lock.
// A default record is created if the entity has not been seen yet, which
// tolerates events that arrive before the join.
func (s *Store) With(id EntityID, fn func(*EntityState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.entities[id]
	if !ok {
		st = newEntityState(id, "", s.now())
		s.entities[id] = st
	}
	fn(st)
}

// Remove frees the record for id. It reports whether a record existed.
func (s *Store) Remove(id EntityID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[id]; !ok {
		return false
	}
	delete(s.entities, id)
	return true
}

// Snapshot returns a deep copy of the record for id without creating one.
func (s *Store) Snapshot(id EntityID) (EntityState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.entities[id]
	if !ok {
		return EntityState{}, false
	}
	return st.clone(), true
}

// Range calls fn for every record while holding the store lock.
func (s *Store) Range(fn func(*EntityState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.entities {
		fn(st)
	}
}

// Len returns the number of tracked entities.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entities)
}
