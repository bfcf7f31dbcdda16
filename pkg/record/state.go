package record

import "sort"

// Table is one normalized bucket of records keyed by identifier. IDField
// names the field carrying the identifier when rows are rendered as full
// records; the row map itself is keyed externally and rows need not embed
// the identifier.
type Table struct {
	IDField string
	Rows    map[ID]Record
}

// NewTable builds an empty table using idField as the identifier field name.
func NewTable(idField string) Table {
	return Table{IDField: idField, Rows: make(map[ID]Record)}
}

// Clone deep-copies the table's row map and each row's top level.
func (t Table) Clone() Table {
	cloned := Table{IDField: t.IDField}
	if t.Rows != nil {
		cloned.Rows = make(map[ID]Record, len(t.Rows))
		for id, row := range t.Rows {
			cloned.Rows[id] = row.Clone()
		}
	}
	return cloned
}

// IDs returns every row identifier sorted by CompareValues, giving a
// deterministic enumeration order over the unordered row map.
func (t Table) IDs() []ID {
	out := make([]ID, 0, len(t.Rows))
	for id := range t.Rows {
		out = append(out, id)
	}
	sort.SliceStable(out, func(i, j int) bool { return CompareValues(out[i], out[j]) < 0 })
	return out
}

// State is the full normalized store state: tables by name.
type State map[string]Table

// NewState builds a state declaring the given tables, all using idField.
func NewState(idField string, tables ...string) State {
	s := make(State, len(tables))
	for _, name := range tables {
		s[name] = NewTable(idField)
	}
	return s
}

// Clone deep-copies every table.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	cloned := make(State, len(s))
	for name, table := range s {
		cloned[name] = table.Clone()
	}
	return cloned
}

// TableNames returns the declared table names in sorted order.
func (s State) TableNames() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
