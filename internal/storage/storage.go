// Package storage maps logical data paths to files under a configured cache
// root. Each payload has a timestamp sidecar recording when it was grabbed.
// The cache is process-local; cross-process writers are not coordinated.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DataPath identifies a cached payload: data/<family>/<key><ext>.
type DataPath struct {
	Family string
	Key    string
	Ext    string // includes the leading dot, e.g. ".html"
}

// String returns the logical form family/key.ext.
func (p DataPath) String() string {
	return p.Family + "/" + p.Key + p.Ext
}

// timestampFormat is the sidecar serialization format.
const timestampFormat = time.RFC3339

// Store is a file cache rooted at a single configurable directory.
type Store struct {
	root string
}

// New creates a store under the given root directory.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the configured cache root.
func (s *Store) Root() string { return s.root }

// PathFor returns the local file location for a data path.
func (s *Store) PathFor(p DataPath) string {
	return filepath.Join(s.root, "data", p.Family, p.Key+p.Ext)
}

// TimestampPathFor returns the grab-timestamp sidecar location.
func (s *Store) TimestampPathFor(p DataPath) string {
	return filepath.Join(s.root, "data", p.Family, p.Key+".timestamp")
}

// Exists reports whether a payload is cached.
func (s *Store) Exists(p DataPath) bool {
	info, err := os.Stat(s.PathFor(p))
	return err == nil && !info.IsDir()
}

// WritePayload stores raw bytes for a data path, creating parent directories.
// The write goes through a temp file and rename so readers never observe a
// partial payload.
func (s *Store) WritePayload(p DataPath, data []byte) error {
	path := s.PathFor(p)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), p.Key+".*")
	if err != nil {
		return fmt.Errorf("create temp payload: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write payload %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp payload: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish payload %s: %w", p, err)
	}
	return nil
}

// ReadTimestamp returns the grab timestamp for a data path, if recorded.
func (s *Store) ReadTimestamp(p DataPath) (time.Time, bool) {
	data, err := os.ReadFile(s.TimestampPathFor(p))
	if err != nil {
		return time.Time{}, false
	}
	ts, err := time.Parse(timestampFormat, string(data))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// WriteTimestamp records the grab timestamp for a data path.
func (s *Store) WriteTimestamp(p DataPath, ts time.Time) error {
	path := s.TimestampPathFor(p)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(ts.Format(timestampFormat)), 0o644); err != nil {
		return fmt.Errorf("write timestamp %s: %w", p, err)
	}
	return nil
}
