// Package fs implements an object Store on the local filesystem. Keys map to
// relative file paths under the root; a sidecar file (key + ".meta") stores
// content type and user metadata.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"viewcore/internal/infra/blob/core"
)

// Store implements core.Store using the local filesystem. It is intentionally
// simple and not concurrent-writer safe beyond per-file creation.
type Store struct {
	root string
}

// New returns a filesystem-backed object store rooted at path, creating it
// if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./segments"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Driver returns the object store driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// sanitizeKey rejects empty keys, traversal, and absolute paths.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key traversal")
	}
	return clean, nil
}

func (s *Store) pathFor(key string) (dataPath, metaPath string, err error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, k)
	metaPath = dataPath + ".meta"
	return
}

type metaFile struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Put stores a new object; errors if the key exists.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return core.Info{}, fmt.Errorf("object %s already exists", key)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return core.Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return core.Info{}, err
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, err
	}
	sum := sha256.Sum256(payload)
	etag := hex.EncodeToString(sum[:])
	if err := os.WriteFile(dataPath, payload, 0o644); err != nil {
		return core.Info{}, err
	}
	meta := metaFile{
		ContentType: opts.ContentType,
		Metadata:    core.CloneMetadata(opts.Metadata),
		ETag:        etag,
		Size:        int64(len(payload)),
		CreatedAt:   time.Now().UTC(),
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return core.Info{}, err
	}
	if err := os.WriteFile(metaPath, raw, 0o644); err != nil {
		return core.Info{}, err
	}
	return s.infoFor(key, dataPath, meta), nil
}

func (s *Store) readMeta(metaPath string) (metaFile, error) {
	raw, err := os.ReadFile(metaPath) // #nosec G304 -- path derives from sanitized key
	if err != nil {
		return metaFile{}, err
	}
	var meta metaFile
	if err := json.Unmarshal(raw, &meta); err != nil {
		return metaFile{}, err
	}
	return meta, nil
}

func (s *Store) infoFor(key, dataPath string, meta metaFile) core.Info {
	modified := meta.CreatedAt
	if st, err := os.Stat(dataPath); err == nil {
		modified = st.ModTime().UTC()
	}
	return core.Info{
		Key:          key,
		Size:         meta.Size,
		ContentType:  meta.ContentType,
		ETag:         meta.ETag,
		Metadata:     core.CloneMetadata(meta.Metadata),
		LastModified: modified,
	}
}

// Get returns object metadata and a reader over its content.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	meta, err := s.readMeta(metaPath)
	if err != nil {
		return core.Info{}, nil, fmt.Errorf("object %s not found", key)
	}
	f, err := os.Open(dataPath) // #nosec G304 -- path derives from sanitized key
	if err != nil {
		return core.Info{}, nil, fmt.Errorf("object %s not found", key)
	}
	return s.infoFor(key, dataPath, meta), f, nil
}

// Head returns object metadata only.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, err
	}
	meta, err := s.readMeta(metaPath)
	if err != nil {
		return core.Info{}, fmt.Errorf("object %s not found", key)
	}
	return s.infoFor(key, dataPath, meta), nil
}

// Delete removes the object and its sidecar, returning true if it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	_, statErr := os.Stat(dataPath)
	if errors.Is(statErr, fs.ErrNotExist) {
		return false, nil
	}
	if err := os.Remove(dataPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.Remove(metaPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return true, err
	}
	return true, nil
}

// List returns objects whose keys start with prefix, in key order.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	var out []core.Info
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(path, ".meta") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		meta, err := s.readMeta(path + ".meta")
		if err != nil {
			return nil // data without sidecar is not a tracked object
		}
		out = append(out, s.infoFor(key, path, meta))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
