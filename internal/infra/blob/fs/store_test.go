package fs

import (
	"context"
	"io"
	"strings"
	"testing"

	"viewcore/internal/infra/blob/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected driver: %s", store.Driver())
	}

	info, err := store.Put(ctx, "logs/seg-000001.json", strings.NewReader(`{"n":1}`), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"entries": "1"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.ETag == "" || info.Size != int64(len(`{"n":1}`)) {
		t.Fatalf("unexpected info: %+v", info)
	}

	got, rc, err := store.Get(ctx, "logs/seg-000001.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil || string(body) != `{"n":1}` {
		t.Fatalf("unexpected body: %q %v", body, err)
	}
	if got.ContentType != "application/json" || got.Metadata["entries"] != "1" {
		t.Fatalf("metadata did not survive: %+v", got)
	}
}

func TestPutRejectsExistingKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if _, err := store.Put(ctx, "k", strings.NewReader("v1"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("v2"), core.PutOptions{}); err == nil {
		t.Fatalf("overwrite should be rejected")
	}
}

func TestKeySanitization(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for _, key := range []string{"", "  ", "../escape", "/abs/path", "a/../../b"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("key %q should be rejected", key)
		}
	}
}

func TestHeadAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if _, err := store.Put(ctx, "k", strings.NewReader("payload"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}

	head, err := store.Head(ctx, "k")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.Size != int64(len("payload")) {
		t.Fatalf("unexpected head size: %d", head.Size)
	}

	existed, err := store.Delete(ctx, "k")
	if err != nil || !existed {
		t.Fatalf("delete: %v %v", existed, err)
	}
	if _, err := store.Head(ctx, "k"); err == nil {
		t.Fatalf("head after delete should fail")
	}
	existed, err = store.Delete(ctx, "k")
	if err != nil || existed {
		t.Fatalf("second delete should report absence: %v %v", existed, err)
	}
}

func TestListByPrefixExcludesSidecars(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for _, key := range []string{"logs/b", "logs/a", "other/c"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	infos, err := store.List(ctx, "logs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "logs/a" || infos[1].Key != "logs/b" {
		t.Fatalf("unexpected listing: %+v", infos)
	}
	for _, info := range infos {
		if strings.HasSuffix(info.Key, ".meta") {
			t.Fatalf("sidecar leaked into listing: %s", info.Key)
		}
	}
}
