package query

import (
	"errors"
	"reflect"
	"testing"

	"viewcore/pkg/record"
)

func newTestSession(t *testing.T) (*Session, *TableManager) {
	t.Helper()
	state := record.NewState("id", "items")
	state["items"].Rows[1] = record.Record{"name": "a", "rank": 3}
	state["items"].Rows[2] = record.Record{"name": "b", "rank": 1}
	state["items"].Rows[3] = record.Record{"name": "c", "rank": 1}
	session := NewSession(state)
	manager, err := session.Table("items")
	if err != nil {
		t.Fatalf("open table: %v", err)
	}
	return session, manager
}

func TestViewCountAndExists(t *testing.T) {
	_, m := newTestSession(t)
	v := m.Query(1, 2, 3)
	if v.Count() != 3 || !v.Exists() {
		t.Fatalf("unexpected count/exists: %d %v", v.Count(), v.Exists())
	}
	empty := m.Query()
	if empty.Count() != 0 || empty.Exists() {
		t.Fatalf("empty view should report zero and not exist")
	}
}

func TestViewRecordsMergeIdentifierField(t *testing.T) {
	_, m := newTestSession(t)
	records := m.Query(2, 1).Records()
	want := []record.Record{
		{"id": 2, "name": "b", "rank": 1},
		{"id": 1, "name": "a", "rank": 3},
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("got %v, want %v", records, want)
	}
}

func TestViewRecordsTolerateMissingIdentifiers(t *testing.T) {
	_, m := newTestSession(t)
	records := m.Query(1, 99).Records()
	if len(records) != 2 {
		t.Fatalf("expected one record per identifier, got %d", len(records))
	}
	if !reflect.DeepEqual(records[1], record.Record{"id": 99}) {
		t.Fatalf("stale id should render identifier-only record, got %v", records[1])
	}
}

func TestViewFilterExcludePartition(t *testing.T) {
	_, m := newTestSession(t)
	v := m.Query(1, 2, 3)
	c := record.Where(map[string]any{"name": "b"})

	kept := v.Filter(c)
	dropped := v.Exclude(c)

	if !reflect.DeepEqual(kept.IDs(), []record.ID{2}) {
		t.Fatalf("unexpected filter result: %v", kept.IDs())
	}
	if !reflect.DeepEqual(dropped.IDs(), []record.ID{1, 3}) {
		t.Fatalf("unexpected exclude result: %v", dropped.IDs())
	}
	if kept.Count()+dropped.Count() != v.Count() {
		t.Fatalf("filter and exclude must partition the view")
	}
	// The source view is untouched.
	if !reflect.DeepEqual(v.IDs(), []record.ID{1, 2, 3}) {
		t.Fatalf("narrowing mutated the source view: %v", v.IDs())
	}
}

func TestViewFilterWithPredicate(t *testing.T) {
	_, m := newTestSession(t)
	v := m.Query(1, 2, 3).Filter(record.Match(func(r record.Record) bool {
		rank, _ := r["rank"].(int)
		return rank == 1
	}))
	if !reflect.DeepEqual(v.IDs(), []record.ID{2, 3}) {
		t.Fatalf("unexpected predicate filter result: %v", v.IDs())
	}
}

func TestViewOrderByIsStableAndIdempotent(t *testing.T) {
	_, m := newTestSession(t)

	once := m.Query(3, 1, 2).OrderBy("name")
	if !reflect.DeepEqual(once.IDs(), []record.ID{1, 2, 3}) {
		t.Fatalf("unexpected order: %v", once.IDs())
	}
	twice := once.OrderBy("name")
	if !reflect.DeepEqual(twice.IDs(), once.IDs()) {
		t.Fatalf("reordering by the same field changed the sequence: %v", twice.IDs())
	}

	// Ties on rank keep prior relative order: ids 2 and 3 share rank 1.
	byRank := m.Query(3, 2, 1).OrderBy("rank")
	if !reflect.DeepEqual(byRank.IDs(), []record.ID{3, 2, 1}) {
		t.Fatalf("unexpected stable tie order: %v", byRank.IDs())
	}
}

func TestViewOrderByMultipleFields(t *testing.T) {
	_, m := newTestSession(t)
	v := m.Query(3, 2, 1).OrderBy("rank", "name")
	if !reflect.DeepEqual(v.IDs(), []record.ID{2, 3, 1}) {
		t.Fatalf("unexpected multi-key order: %v", v.IDs())
	}
}

func TestViewAtFirstLast(t *testing.T) {
	_, m := newTestSession(t)
	v := m.Query(3, 1, 2)

	first, err := v.First()
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.ID() != 3 {
		t.Fatalf("unexpected first id: %v", first.ID())
	}
	last, err := v.Last()
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last.ID() != 2 {
		t.Fatalf("unexpected last id: %v", last.ID())
	}
	middle, err := v.At(1)
	if err != nil {
		t.Fatalf("at: %v", err)
	}
	if middle.ID() != 1 {
		t.Fatalf("unexpected middle id: %v", middle.ID())
	}
}

func TestViewAtOutOfRangeIsNotFound(t *testing.T) {
	_, m := newTestSession(t)
	v := m.Query(1)

	var nfe record.NotFoundError
	if _, err := v.At(5); !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if _, err := v.At(-1); !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError for negative index, got %v", err)
	}
	if _, err := m.Query().First(); !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError for empty first, got %v", err)
	}
	if _, err := m.Query().Last(); !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError for empty last, got %v", err)
	}
}

func TestViewAllReturnsIndependentSequence(t *testing.T) {
	_, m := newTestSession(t)
	v := m.Query(2, 1)
	all := v.All()
	if !reflect.DeepEqual(all.IDs(), v.IDs()) {
		t.Fatalf("All should preserve order: %v vs %v", all.IDs(), v.IDs())
	}
	if all == v {
		t.Fatalf("All should return a distinct view value")
	}
}

func TestViewUpdateAppendsDescriptor(t *testing.T) {
	session, m := newTestSession(t)
	v := m.Query(1, 2)

	if err := v.Update(record.Merge(map[string]any{"name": "z"})); err != nil {
		t.Fatalf("update: %v", err)
	}

	log := session.Pending()
	if len(log) != 1 {
		t.Fatalf("expected one descriptor, got %d", len(log))
	}
	entry := log[0]
	if entry.Table != "items" || entry.Mutation.Op != record.OpUpdate {
		t.Fatalf("unexpected descriptor: %+v", entry)
	}
	if !reflect.DeepEqual(entry.Mutation.IDs, []record.ID{1, 2}) {
		t.Fatalf("unexpected descriptor ids: %v", entry.Mutation.IDs)
	}
	if got := entry.Mutation.Updater.Fields(); got["name"] != "z" {
		t.Fatalf("unexpected updater: %v", got)
	}

	// Authoritative data is untouched until the log is applied.
	if session.State()["items"].Rows[1]["name"] != "a" {
		t.Fatalf("update must not touch the snapshot")
	}
}

func TestViewUpdateRejectsUndefinedUpdater(t *testing.T) {
	session, m := newTestSession(t)
	err := m.Query(1).Update(record.MergeSpec{})
	if !errors.Is(err, record.ErrInvalidUpdater) {
		t.Fatalf("expected ErrInvalidUpdater, got %v", err)
	}
	if len(session.Pending()) != 0 {
		t.Fatalf("rejected update must not append a descriptor")
	}
}

func TestViewUpdateOnEmptyViewStillAppends(t *testing.T) {
	session, m := newTestSession(t)
	if err := m.Query().Update(record.Merge(map[string]any{"name": "z"})); err != nil {
		t.Fatalf("update: %v", err)
	}
	log := session.Pending()
	if len(log) != 1 || len(log[0].Mutation.IDs) != 0 {
		t.Fatalf("expected one empty-sequence descriptor, got %+v", log)
	}
}

func TestViewDeleteAppendsDescriptor(t *testing.T) {
	session, m := newTestSession(t)
	m.Query(3, 1).Delete()

	log := session.Pending()
	if len(log) != 1 || log[0].Mutation.Op != record.OpDelete {
		t.Fatalf("unexpected log: %+v", log)
	}
	if !reflect.DeepEqual(log[0].Mutation.IDs, []record.ID{3, 1}) {
		t.Fatalf("delete must preserve the view's id order: %v", log[0].Mutation.IDs)
	}
	if len(session.State()["items"].Rows) != 3 {
		t.Fatalf("delete must not touch the snapshot")
	}
}

func TestViewDescriptorIDsAreIndependent(t *testing.T) {
	session, m := newTestSession(t)
	v := m.Query(1, 2)
	if err := v.Update(record.Merge(map[string]any{"name": "z"})); err != nil {
		t.Fatalf("update: %v", err)
	}

	narrowed := v.Filter(record.Where(map[string]any{"name": "a"}))
	if !reflect.DeepEqual(narrowed.IDs(), []record.ID{1}) {
		t.Fatalf("unexpected narrowed ids: %v", narrowed.IDs())
	}
	log := session.Pending()
	if !reflect.DeepEqual(log[0].Mutation.IDs, []record.ID{1, 2}) {
		t.Fatalf("descriptor ids drifted after narrowing: %v", log[0].Mutation.IDs)
	}
}

func TestNewViewClonesInputSequence(t *testing.T) {
	_, m := newTestSession(t)
	ids := []record.ID{1, 2}
	v := NewView(m, ids)
	ids[0] = 99
	if !reflect.DeepEqual(v.IDs(), []record.ID{1, 2}) {
		t.Fatalf("view shares the caller's id slice: %v", v.IDs())
	}
}
