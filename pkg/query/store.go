package query

import (
	"context"

	"viewcore/pkg/record"
)

// Store is the minimal contract over durable backends: open a session, run
// caller logic against it, and either fold the recorded log into committed
// state or discard it. It mirrors the persistence abstraction of the store
// this layer defers its mutations to.
type Store interface {
	// Apply runs fn against a session over the committed state. When fn
	// returns nil the session log is reduced into new committed state,
	// persisted, and returned in order. When fn errors nothing is applied.
	Apply(ctx context.Context, fn func(*Session) error) ([]LoggedMutation, error)
	// View runs fn against a read-only session. Descriptors recorded during
	// fn are discarded.
	View(ctx context.Context, fn func(*Session) error) error
	// ExportState returns a deep copy of the committed state.
	ExportState() record.State
	// ImportState replaces the committed state wholesale. Durable backends
	// snapshot immediately and report the outcome.
	ImportState(record.State) error
}
