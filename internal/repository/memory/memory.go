// Package memory provides an in-memory repository used as a test double.
package memory

import (
	"context"
	"sync"

	"backlog/internal/domain"
	"backlog/internal/repository"
)

var _ repository.Repository = (*Store)(nil)

// Store keeps the state in memory. LoadErr and SaveErr, when set, are
// returned instead of performing the operation.
type Store struct {
	mu        sync.Mutex
	state     *domain.State
	lastSaved *domain.State
	saves     int

	LoadErr error
	SaveErr error
}

// New creates a store preset with a copy of state, or an empty state when nil
func New(preset *domain.State) *Store {
	if preset == nil {
		preset = domain.NewState()
	}
	return &Store{state: preset.Clone()}
}

// Load returns a copy of the current state
func (s *Store) Load(ctx context.Context) (*domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.state.Clone(), nil
}

// Save replaces the current state with a copy of state
func (s *Store) Save(ctx context.Context, state *domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.state = state.Clone()
	s.lastSaved = state.Clone()
	s.saves++
	return nil
}

// Saves returns the number of successful saves
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// LastSaved returns a copy of the most recently saved state, or nil
func (s *Store) LastSaved() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved.Clone()
}

// Snapshot returns a copy of the current state without going through Load
func (s *Store) Snapshot() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
