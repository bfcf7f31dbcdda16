// Package query implements the deferred-mutation query layer: ordered,
// narrowable views over record identifiers and single-record wrappers that
// record update and delete intents into an append-only log instead of
// touching authoritative state.
package query

import "viewcore/pkg/record"

// Manager is the narrow contract views and entities operate against. A
// manager owns the identifier field name, a read-only snapshot of id-indexed
// record data, and the mutation log sink. Session provides the reference
// implementation; tests may substitute any other.
type Manager interface {
	// IDField returns the field name carrying the identifier in rendered
	// records.
	IDField() string
	// RecordMap returns a snapshot of the authoritative id-to-record data at
	// call time. Callers must treat it as read-only.
	RecordMap() map[record.ID]record.Record
	// Append records a mutation descriptor. Descriptors must be appended in
	// the exact program order of the calls that produced them.
	Append(record.Mutation)
	// Get resolves one identifier to an entity wrapper. It returns
	// record.NotFoundError when no record with that identifier exists.
	Get(id record.ID) (*Entity, error)
}
