package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

// FileStore keeps a hierarchy document in a single JSON file.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	lenient bool
}

// FileOption configures a [FileStore].
type FileOption func(*FileStore)

// Lenient makes Load repair syntactically broken documents instead of
// failing.
func Lenient() FileOption {
	return func(s *FileStore) { s.lenient = true }
}

// NewFileStore creates a store backed by the file at path. The file does not
// need to exist yet.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the document path.
func (s *FileStore) Path() string { return s.path }

// Load reads the document. A missing file is an empty hierarchy.
func (s *FileStore) Load(ctx context.Context) (*hierarchy.Hierarchy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return hierarchy.New(), nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "read %s", s.path)
	}

	if s.lenient {
		return DecodeLenient(data)
	}
	return Decode(bytes.NewReader(data))
}

// Save writes h to a temporary file next to the document and renames it
// into place, so readers never observe a partial document.
func (s *FileStore) Save(ctx context.Context, h *hierarchy.Hierarchy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := Encode(&buf, h); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode %s", s.path)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".radialtree-*.json")
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrCodeStore, err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "close %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "chmod %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "replace %s", s.path)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
