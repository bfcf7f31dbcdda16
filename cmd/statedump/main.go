// Command statedump opens the configured persistent store and prints its
// committed state as JSON: per-table row counts by default, full rows with
// -rows. Storage selection follows the VIEWCORE_STORAGE_DRIVER environment
// variables.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"viewcore/internal/core"
	"viewcore/internal/infra/persistence/memory"
)

type tableDump struct {
	IDField string            `json:"id_field"`
	Count   int               `json:"count"`
	Rows    []memory.SavedRow `json:"rows,omitempty"`
}

var exitFunc = os.Exit

func main() {
	withRows := flag.Bool("rows", false, "include full rows in the dump")
	flag.Parse()

	if err := run(os.Stdout, *withRows); err != nil {
		fmt.Fprintln(os.Stderr, "statedump:", err)
		exitFunc(1)
	}
}

func run(w io.Writer, withRows bool) error {
	store, err := core.OpenStore(nil)
	if err != nil {
		return err
	}
	state := store.ExportState()

	dump := make(map[string]tableDump, len(state))
	for _, name := range state.TableNames() {
		table := state[name]
		td := tableDump{IDField: table.IDField, Count: len(table.Rows)}
		if withRows {
			for _, id := range table.IDs() {
				td.Rows = append(td.Rows, memory.SavedRow{ID: id, Fields: table.Rows[id]})
			}
		}
		dump[name] = td
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}
