// Package record defines the value types shared by the query layer and the
// persistence backends: records, identifiers, mutation descriptors, match
// criteria, and normalized store state.
package record

// ID is an opaque identifier naming a record within a table. Values must be
// comparable in the map-key sense; the store never interprets them beyond
// equality.
type ID = any

// Record is a field name to value mapping for one entity. The authoritative
// copy lives in a Table's row map; copies handed out by the store are cloned
// at the top level and values are treated as immutable.
type Record map[string]any

// Clone returns a top-level copy of the record. A nil record clones to nil.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merged returns a new record containing r's fields overlaid with fields.
// Neither input is mutated.
func (r Record) Merged(fields map[string]any) Record {
	out := make(Record, len(r)+len(fields))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}
