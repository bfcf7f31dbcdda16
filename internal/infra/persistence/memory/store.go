// Package memory provides the in-memory implementation of the persistence
// contract, used directly for tests and ephemeral environments and embedded
// by the durable drivers.
package memory

import (
	"context"
	"sync"

	"viewcore/pkg/query"
	"viewcore/pkg/record"
)

// Compile-time contract assertion.
var _ query.Store = (*Store)(nil)

// Store holds committed state in process memory. Sessions run over clones of
// the committed state; only a successful Apply replaces it.
type Store struct {
	mu    sync.RWMutex
	state record.State
}

// NewStore constructs a store over the given initial state. A nil state
// starts empty; declare tables with record.NewState first.
func NewStore(state record.State) *Store {
	if state == nil {
		state = record.State{}
	}
	return &Store{state: state.Clone()}
}

// Apply runs fn against a fresh session, then folds the session log into new
// committed state. The log is returned in append order. When fn errors the
// committed state is untouched and no log is reported.
func (s *Store) Apply(_ context.Context, fn func(*query.Session) error) ([]query.LoggedMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := query.NewSession(s.state)
	if err := fn(session); err != nil {
		return nil, err
	}
	applied := session.Pending()
	s.state = query.ReduceState(s.state, applied)
	return applied, nil
}

// View runs fn against a read-only session. Any descriptors fn records are
// discarded with the session.
func (s *Store) View(_ context.Context, fn func(*query.Session) error) error {
	s.mu.RLock()
	session := query.NewSession(s.state)
	s.mu.RUnlock()
	return fn(session)
}

// ExportState returns a deep copy of the committed state.
func (s *Store) ExportState() record.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ImportState replaces the committed state wholesale.
func (s *Store) ImportState(state record.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	return nil
}
