package memory

import (
	"encoding/json"
	"fmt"
	"sort"

	"viewcore/pkg/record"
)

// TableSnapshot is the JSON wire shape of one table. Rows carry their
// identifier explicitly because JSON objects cannot key on arbitrary values.
// Identifiers round-trip through encoding/json, so numeric ids re-enter as
// float64.
type TableSnapshot struct {
	IDField string     `json:"id_field"`
	Rows    []SavedRow `json:"rows"`
}

// SavedRow pairs an identifier with its record fields.
type SavedRow struct {
	ID     record.ID     `json:"id"`
	Fields record.Record `json:"fields"`
}

// EncodeTable renders a table for persistence with rows in deterministic
// identifier order.
func EncodeTable(t record.Table) ([]byte, error) {
	snapshot := TableSnapshot{IDField: t.IDField, Rows: make([]SavedRow, 0, len(t.Rows))}
	for _, id := range t.IDs() {
		snapshot.Rows = append(snapshot.Rows, SavedRow{ID: id, Fields: t.Rows[id]})
	}
	return json.Marshal(snapshot)
}

// DecodeTable rebuilds a table from its wire shape.
func DecodeTable(raw []byte) (record.Table, error) {
	var snapshot TableSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return record.Table{}, fmt.Errorf("decode table: %w", err)
	}
	table := record.NewTable(snapshot.IDField)
	for _, row := range snapshot.Rows {
		table.Rows[row.ID] = row.Fields
	}
	return table, nil
}

// Buckets returns the persisted bucket names for a state in sorted order.
func Buckets(state record.State) []string {
	out := make([]string, 0, len(state))
	for name := range state {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
