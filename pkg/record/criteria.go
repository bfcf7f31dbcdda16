package record

// Criteria selects records for Filter and Exclude. It is a tagged variant:
// either an exact-equality field mapping (logical AND across listed fields)
// or an arbitrary predicate over the full record. The zero value matches
// every record.
type Criteria struct {
	where map[string]any
	match func(Record) bool
}

// Where builds equality criteria: a record matches when every listed field
// is present with an equal value. The mapping is cloned.
func Where(fields map[string]any) Criteria {
	cloned := make(map[string]any, len(fields))
	for k, v := range fields {
		cloned[k] = v
	}
	return Criteria{where: cloned}
}

// Match builds predicate criteria. Errors or panics raised by fn propagate
// unchanged to the caller of the matching operation.
func Match(fn func(Record) bool) Criteria {
	return Criteria{match: fn}
}

// Matches reports whether r satisfies the criteria.
func (c Criteria) Matches(r Record) bool {
	if c.match != nil {
		return c.match(r)
	}
	for field, want := range c.where {
		got, ok := r[field]
		if !ok || got != want {
			return false
		}
	}
	return true
}
