package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	blobcore "viewcore/internal/infra/blob/core"
	"viewcore/pkg/record"
)

// LogArchiver writes applied mutation-log segments to an object store as
// immutable JSON documents. Keys are sequenced per archiver instance and
// timestamped so segments list in application order.
type LogArchiver struct {
	store  blobcore.Store
	prefix string
	seq    uint64
	nowFn  func() time.Time
}

// NewLogArchiver constructs an archiver writing under prefix (default
// "mutlog").
func NewLogArchiver(store blobcore.Store, prefix string) *LogArchiver {
	if prefix == "" {
		prefix = "mutlog"
	}
	return &LogArchiver{
		store:  store,
		prefix: prefix,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// SegmentDocument is the archived wire shape of one applied segment.
type SegmentDocument struct {
	ArchivedAt time.Time      `json:"archived_at"`
	Entries    []SegmentEntry `json:"entries"`
}

// SegmentEntry pairs a table name with one descriptor in wire form.
type SegmentEntry struct {
	Table    string                `json:"table"`
	Mutation record.MutationRecord `json:"mutation"`
}

// Archive serializes the segment and writes it create-only. The returned
// info carries the object key and size.
func (a *LogArchiver) Archive(ctx context.Context, segment []LoggedMutation) (blobcore.Info, error) {
	doc := SegmentDocument{
		ArchivedAt: a.nowFn(),
		Entries:    make([]SegmentEntry, len(segment)),
	}
	for i, entry := range segment {
		doc.Entries[i] = SegmentEntry{
			Table:    entry.Table,
			Mutation: record.EncodeMutation(entry.Mutation),
		}
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return blobcore.Info{}, fmt.Errorf("encode segment: %w", err)
	}
	n := atomic.AddUint64(&a.seq, 1)
	key := fmt.Sprintf("%s/%s-%06d.json", a.prefix, doc.ArchivedAt.Format("20060102T150405"), n)
	info, err := a.store.Put(ctx, key, bytes.NewReader(payload), blobcore.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"entries": fmt.Sprintf("%d", len(doc.Entries))},
	})
	if err != nil {
		return blobcore.Info{}, fmt.Errorf("put segment: %w", err)
	}
	return info, nil
}

// List returns the archived segment infos under the archiver's prefix in key
// order.
func (a *LogArchiver) List(ctx context.Context) ([]blobcore.Info, error) {
	return a.store.List(ctx, a.prefix+"/")
}
