package query

import (
	"sync"

	"viewcore/pkg/record"
)

// LoggedMutation tags a mutation descriptor with the table it targets.
// Session logs hold these so one ordered log can span every table touched
// within a logical pass.
type LoggedMutation struct {
	Table    string
	Mutation record.Mutation
}

// Session is the reference Manager implementation: a set of table-bound
// managers over one immutable state snapshot, sharing a single ordered
// mutation log. A session is a lens over exactly one snapshot; it must not
// be retained across an application of its log.
type Session struct {
	state record.State

	mu       sync.Mutex
	log      []LoggedMutation
	managers map[string]*TableManager
}

// NewSession opens a session over state. The snapshot is cloned, so later
// changes to the caller's state do not leak into the session.
func NewSession(state record.State) *Session {
	return &Session{
		state:    state.Clone(),
		managers: make(map[string]*TableManager),
	}
}

// Table returns the manager bound to the named table. Managers are cached
// per session so repeated calls share the same log sink.
func (s *Session) Table(name string) (*TableManager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.managers[name]; ok {
		return m, nil
	}
	table, ok := s.state[name]
	if !ok {
		return nil, record.UnknownTableError{Table: name}
	}
	m := &TableManager{session: s, name: name, table: table}
	s.managers[name] = m
	return m, nil
}

// Pending returns a copy of the ordered mutation log accumulated so far.
func (s *Session) Pending() []LoggedMutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LoggedMutation(nil), s.log...)
}

// append records one descriptor under the session lock, preserving program
// order across managers.
func (s *Session) append(table string, m record.Mutation) {
	s.mu.Lock()
	s.log = append(s.log, LoggedMutation{Table: table, Mutation: m})
	s.mu.Unlock()
}

// State returns the session's snapshot. Callers must treat it as read-only.
func (s *Session) State() record.State {
	return s.state
}

// Reduce folds the session log into a new state derived from the snapshot.
// Updates shallow-merge (or transform-replace) existing rows and skip
// identifiers with no row; deletes remove rows when present. The snapshot
// itself is not mutated and the log is left in place, so Reduce is pure and
// repeatable.
func (s *Session) Reduce() record.State {
	s.mu.Lock()
	log := append([]LoggedMutation(nil), s.log...)
	s.mu.Unlock()
	return ReduceState(s.state, log)
}

// ReduceState applies an ordered descriptor log to a clone of state and
// returns the result. Descriptors over unknown tables are skipped.
func ReduceState(state record.State, log []LoggedMutation) record.State {
	next := state.Clone()
	for _, entry := range log {
		table, ok := next[entry.Table]
		if !ok {
			continue
		}
		switch entry.Mutation.Op {
		case record.OpUpdate:
			for _, id := range entry.Mutation.IDs {
				row, ok := table.Rows[id]
				if !ok {
					continue
				}
				table.Rows[id] = entry.Mutation.Updater.Apply(row)
			}
		case record.OpDelete:
			for _, id := range entry.Mutation.IDs {
				delete(table.Rows, id)
			}
		}
	}
	return next
}

// TableManager is record.Log-shaped so descriptors can be appended through
// the narrowest possible surface.
var _ record.Log = (*TableManager)(nil)

// TableManager implements Manager for one table within a session. It also
// offers view constructors over the table's rows.
type TableManager struct {
	session *Session
	name    string
	table   record.Table
}

// Name returns the table name the manager is bound to.
func (m *TableManager) Name() string {
	return m.name
}

// IDField returns the identifier field name for the table.
func (m *TableManager) IDField() string {
	return m.table.IDField
}

// RecordMap returns a cloned snapshot of the table's rows.
func (m *TableManager) RecordMap() map[record.ID]record.Record {
	out := make(map[record.ID]record.Record, len(m.table.Rows))
	for id, row := range m.table.Rows {
		out[id] = row.Clone()
	}
	return out
}

// Append records a descriptor into the session log.
func (m *TableManager) Append(mut record.Mutation) {
	m.session.append(m.name, mut)
}

// Get resolves an identifier to an entity wrapper, failing with
// record.NotFoundError when the table holds no such row.
func (m *TableManager) Get(id record.ID) (*Entity, error) {
	row, ok := m.table.Rows[id]
	if !ok {
		return nil, record.NotFoundError{Table: m.name, ID: id}
	}
	return NewEntity(m, id, row), nil
}

// All returns a view over every row identifier in deterministic
// CompareValues order.
func (m *TableManager) All() *View {
	return NewView(m, m.table.IDs())
}

// Query returns a view over exactly the given identifiers in the given
// order. Identifiers need not resolve to rows; views tolerate stale ids.
func (m *TableManager) Query(ids ...record.ID) *View {
	return NewView(m, ids)
}
