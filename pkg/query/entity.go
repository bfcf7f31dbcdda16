package query

import (
	"sort"

	"viewcore/pkg/record"
)

// Entity is a read/write lens over one record. It captures the record's
// field names at construction; that captured set fixes the shape Record()
// emits for the wrapper's whole lifetime. Update merges into the wrapper's
// local values immediately and appends the same deferred descriptor a view
// would, so the wrapper's local state runs ahead of the authoritative store
// until the log is applied elsewhere.
type Entity struct {
	manager    Manager
	id         record.ID
	fieldOrder []string
	fields     record.Record
}

// NewEntity wraps one record. The identifier field is prepended to the
// captured field list; the remaining captured names are the record's fields
// in sorted order. The record data is cloned.
func NewEntity(m Manager, id record.ID, data record.Record) *Entity {
	idField := m.IDField()
	names := make([]string, 0, len(data))
	for name := range data {
		if name != idField {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	fields := data.Clone()
	if fields == nil {
		fields = record.Record{}
	}
	fields[idField] = id
	return &Entity{
		manager:    m,
		id:         id,
		fieldOrder: append([]string{idField}, names...),
		fields:     fields,
	}
}

// ID returns the value of the identifier field among the current fields.
func (e *Entity) ID() record.ID {
	return e.fields[e.manager.IDField()]
}

// Record renders exactly the field set captured at construction. Fields
// merged in afterwards that were not in the captured set are held locally
// but never emitted here.
func (e *Entity) Record() record.Record {
	out := make(record.Record, len(e.fieldOrder))
	for _, name := range e.fieldOrder {
		out[name] = e.fields[name]
	}
	return out
}

// FieldNames returns the captured field list in order, identifier first.
func (e *Entity) FieldNames() []string {
	return append([]string(nil), e.fieldOrder...)
}

// Get returns the wrapper's current value for a field.
func (e *Entity) Get(field string) (any, bool) {
	v, ok := e.fields[field]
	return v, ok
}

// Set records a single-field update; it is shorthand for Update with a
// one-entry mapping.
func (e *Entity) Set(field string, value any) {
	e.Update(map[string]any{field: value})
}

// Update merges fields into the wrapper's local values immediately and
// appends one Update descriptor whose identifier sequence is exactly this
// wrapper's id. The manager's record data is not touched here.
func (e *Entity) Update(fields map[string]any) {
	for k, v := range fields {
		e.fields[k] = v
	}
	e.manager.Append(record.Mutation{
		Op:      record.OpUpdate,
		IDs:     []record.ID{e.ID()},
		Updater: record.Merge(fields),
	})
}

// Delete appends one Delete descriptor for this wrapper's id. The wrapper's
// local fields are left intact; it remains a readable lens.
func (e *Entity) Delete() {
	e.manager.Append(record.Mutation{
		Op:  record.OpDelete,
		IDs: []record.ID{e.ID()},
	})
}
