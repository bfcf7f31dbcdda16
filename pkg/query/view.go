package query

import (
	"sort"

	"viewcore/pkg/record"
)

// View is an ordered, immutable handle over a sequence of record
// identifiers. Narrowing and reordering return new views; the receiver is
// never mutated. Update and Delete only append descriptors to the manager's
// log and never alter the manager's record data or the view's identifiers.
type View struct {
	manager Manager
	ids     []record.ID
}

// NewView builds a view over ids. The sequence is cloned; duplicates and
// order are preserved as given.
func NewView(m Manager, ids []record.ID) *View {
	return &View{manager: m, ids: append([]record.ID(nil), ids...)}
}

// IDs returns a copy of the identifier sequence.
func (v *View) IDs() []record.ID {
	return append([]record.ID(nil), v.ids...)
}

// Count returns the number of identifiers in the view.
func (v *View) Count() int {
	return len(v.ids)
}

// Exists reports whether the view holds at least one identifier.
func (v *View) Exists() bool {
	return len(v.ids) > 0
}

// Records materializes the view as full records in identifier order: the
// identifier field merged with whatever the manager currently holds for that
// id. An identifier with no backing record yields a record containing only
// the identifier field; stale ids are tolerated, not errors.
func (v *View) Records() []record.Record {
	data := v.manager.RecordMap()
	idField := v.manager.IDField()
	out := make([]record.Record, len(v.ids))
	for i, id := range v.ids {
		full := record.Record{idField: id}
		for k, val := range data[id] {
			full[k] = val
		}
		out[i] = full
	}
	return out
}

// At resolves the identifier at index through the manager's lookup. An
// out-of-range index hands an undefined identifier to the lookup, which
// fails with record.NotFoundError.
func (v *View) At(index int) (*Entity, error) {
	if index < 0 || index >= len(v.ids) {
		return v.manager.Get(nil)
	}
	return v.manager.Get(v.ids[index])
}

// First resolves the first identifier.
func (v *View) First() (*Entity, error) {
	return v.At(0)
}

// Last resolves the last identifier.
func (v *View) Last() (*Entity, error) {
	return v.At(len(v.ids) - 1)
}

// All returns a new view over the same identifiers with an independent
// sequence and the same manager.
func (v *View) All() *View {
	return NewView(v.manager, v.ids)
}

// Filter returns a new view keeping, in original order, every identifier
// whose full record matches the criteria.
func (v *View) Filter(c record.Criteria) *View {
	return v.narrow(c, true)
}

// Exclude returns a new view keeping, in original order, every identifier
// whose full record does not match the criteria. For any view and criteria,
// Filter and Exclude partition the identifier sequence.
func (v *View) Exclude(c record.Criteria) *View {
	return v.narrow(c, false)
}

func (v *View) narrow(c record.Criteria, keepMatching bool) *View {
	data := v.manager.RecordMap()
	idField := v.manager.IDField()
	kept := make([]record.ID, 0, len(v.ids))
	for _, id := range v.ids {
		full := record.Record{idField: id}
		for k, val := range data[id] {
			full[k] = val
		}
		if c.Matches(full) == keepMatching {
			kept = append(kept, id)
		}
	}
	return &View{manager: v.manager, ids: kept}
}

// OrderBy returns a new view sorted ascending by the full records' values at
// the given fields, evaluated left to right as tie-breakers. The sort is
// stable, so records equal on every listed field keep their prior relative
// order, and sorting twice by the same fields is idempotent.
func (v *View) OrderBy(fields ...string) *View {
	data := v.manager.RecordMap()
	idField := v.manager.IDField()
	full := func(id record.ID) record.Record {
		r := record.Record{idField: id}
		for k, val := range data[id] {
			r[k] = val
		}
		return r
	}
	ids := append([]record.ID(nil), v.ids...)
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := full(ids[i]), full(ids[j])
		for _, field := range fields {
			if c := record.CompareValues(a[field], b[field]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return &View{manager: v.manager, ids: ids}
}

// Update appends one Update descriptor covering the view's current
// identifier sequence. The updater must be a defined MergeSpec; otherwise
// record.ErrInvalidUpdater is returned and nothing is appended. An empty
// view still appends a descriptor with an empty identifier sequence.
func (v *View) Update(updater record.MergeSpec) error {
	if !updater.Defined() {
		return record.ErrInvalidUpdater
	}
	v.manager.Append(record.Mutation{
		Op:      record.OpUpdate,
		IDs:     append([]record.ID(nil), v.ids...),
		Updater: updater,
	})
	return nil
}

// Delete appends one Delete descriptor covering the view's current
// identifier sequence.
func (v *View) Delete() {
	v.manager.Append(record.Mutation{
		Op:  record.OpDelete,
		IDs: append([]record.ID(nil), v.ids...),
	})
}
