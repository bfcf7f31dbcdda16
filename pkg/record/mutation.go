package record

import "errors"

// Op identifies the kind of a mutation descriptor.
type Op string

// Supported mutation operations recorded in the log.
const (
	// OpUpdate merges or rewrites the records named by IDs.
	OpUpdate Op = "update"
	// OpDelete removes the records named by IDs.
	OpDelete Op = "delete"
)

// ErrInvalidUpdater is returned when an update is requested with a MergeSpec
// that carries neither a field mapping nor a transform function. No
// descriptor is appended in that case.
var ErrInvalidUpdater = errors.New("record: updater is neither a field mapping nor a transform")

// MergeSpec describes how an update rewrites a record. It is a tagged
// variant: either a shallow field merge or a pure transform function. The
// zero value is invalid and rejected before any descriptor is appended.
type MergeSpec struct {
	fields    map[string]any
	transform func(Record) Record
}

// Merge builds a MergeSpec that shallow-merges fields into the target
// record. The mapping is cloned so later caller mutation cannot alter
// descriptors already in the log. A nil mapping yields a valid empty merge.
func Merge(fields map[string]any) MergeSpec {
	cloned := make(map[string]any, len(fields))
	for k, v := range fields {
		cloned[k] = v
	}
	return MergeSpec{fields: cloned}
}

// Transform builds a MergeSpec that replaces the target record with the
// result of fn. fn must be pure; it receives a clone and must return the
// full replacement record.
func Transform(fn func(Record) Record) MergeSpec {
	return MergeSpec{transform: fn}
}

// Defined reports whether the spec carries either variant.
func (s MergeSpec) Defined() bool {
	return s.fields != nil || s.transform != nil
}

// IsTransform reports whether the spec is function-shaped.
func (s MergeSpec) IsTransform() bool {
	return s.transform != nil
}

// Fields returns a copy of the merge mapping, or nil for transform specs.
func (s MergeSpec) Fields() map[string]any {
	if s.fields == nil {
		return nil
	}
	out := make(map[string]any, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

// Apply produces the record resulting from applying the spec to r. The input
// is never mutated: merges overlay a clone, transforms receive a clone. An
// undefined spec returns r's clone unchanged.
func (s MergeSpec) Apply(r Record) Record {
	if s.transform != nil {
		return s.transform(r.Clone())
	}
	if s.fields != nil {
		return r.Merged(s.fields)
	}
	return r.Clone()
}

// Mutation is a deferred intent to update or delete a set of records. It is
// appended to a log in program order and applied later by the store; the
// query layer never applies it.
type Mutation struct {
	Op      Op
	IDs     []ID
	Updater MergeSpec
}

// Log is the append-only sink mutation descriptors are recorded to. The
// query layer only ever appends; it never reads, reorders, or truncates.
type Log interface {
	Append(Mutation)
}
