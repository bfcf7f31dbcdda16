package memory

import (
	"reflect"
	"testing"

	"viewcore/pkg/record"
)

func TestSnapshotRoundTrip(t *testing.T) {
	table := record.NewTable("id")
	table.Rows["u1"] = record.Record{"name": "a", "active": true}
	table.Rows["u2"] = record.Record{"name": "b"}

	raw, err := EncodeTable(table)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeTable(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.IDField != "id" {
		t.Fatalf("unexpected id field: %q", decoded.IDField)
	}
	if decoded.Rows["u1"]["name"] != "a" || decoded.Rows["u2"]["name"] != "b" {
		t.Fatalf("unexpected rows: %v", decoded.Rows)
	}
}

func TestSnapshotRowOrderIsDeterministic(t *testing.T) {
	table := record.NewTable("id")
	table.Rows["b"] = record.Record{}
	table.Rows["a"] = record.Record{}
	table.Rows["c"] = record.Record{}

	first, err := EncodeTable(table)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := EncodeTable(table)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(next) != string(first) {
			t.Fatalf("encoding is not deterministic")
		}
	}
}

func TestSnapshotNumericIdentifiersReenterAsFloat(t *testing.T) {
	table := record.NewTable("id")
	table.Rows[7] = record.Record{"name": "a"}

	raw, err := EncodeTable(table)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeTable(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded.Rows[float64(7)]; !ok {
		t.Fatalf("expected numeric id to decode as float64, rows: %v", decoded.Rows)
	}
}

func TestDecodeTableRejectsMalformed(t *testing.T) {
	if _, err := DecodeTable([]byte("{broken")); err == nil {
		t.Fatalf("expected error for malformed snapshot")
	}
}

func TestBucketsSorted(t *testing.T) {
	state := record.NewState("id", "zeta", "alpha", "mid")
	if got := Buckets(state); !reflect.DeepEqual(got, []string{"alpha", "mid", "zeta"}) {
		t.Fatalf("unexpected bucket order: %v", got)
	}
}
