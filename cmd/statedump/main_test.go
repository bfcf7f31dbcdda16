package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"viewcore/internal/core"
	"viewcore/pkg/query"
	"viewcore/pkg/record"
)

func seedStore(t *testing.T) {
	t.Helper()
	t.Setenv("VIEWCORE_STORAGE_DRIVER", "sqlite")
	t.Setenv("VIEWCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "state.db"))

	initial := record.NewState("id", "items")
	initial["items"].Rows["u1"] = record.Record{"name": "a"}
	initial["items"].Rows["u2"] = record.Record{"name": "b"}
	store, err := core.OpenStore(initial)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = store.Apply(context.Background(), func(s *query.Session) error {
		items, err := s.Table("items")
		if err != nil {
			return err
		}
		items.Query("u2").Delete()
		return nil
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestRunDumpsCounts(t *testing.T) {
	seedStore(t)

	var buf bytes.Buffer
	if err := run(&buf, false); err != nil {
		t.Fatalf("run: %v", err)
	}
	var dump map[string]tableDump
	if err := json.Unmarshal(buf.Bytes(), &dump); err != nil {
		t.Fatalf("decode: %v", err)
	}
	items, ok := dump["items"]
	if !ok {
		t.Fatalf("missing table in dump: %v", dump)
	}
	if items.IDField != "id" || items.Count != 1 {
		t.Fatalf("unexpected table dump: %+v", items)
	}
	if items.Rows != nil {
		t.Fatalf("rows should be omitted by default: %+v", items.Rows)
	}
}

func TestRunDumpsRows(t *testing.T) {
	seedStore(t)

	var buf bytes.Buffer
	if err := run(&buf, true); err != nil {
		t.Fatalf("run: %v", err)
	}
	var dump map[string]tableDump
	if err := json.Unmarshal(buf.Bytes(), &dump); err != nil {
		t.Fatalf("decode: %v", err)
	}
	rows := dump["items"].Rows
	if len(rows) != 1 || rows[0].ID != "u1" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows[0].Fields["name"] != "a" {
		t.Fatalf("unexpected fields: %v", rows[0].Fields)
	}
}

func TestRunFailsOnUnknownDriver(t *testing.T) {
	t.Setenv("VIEWCORE_STORAGE_DRIVER", "tape")
	var buf bytes.Buffer
	if err := run(&buf, false); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
