package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	h, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}

func TestFileStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tree.json")
	s := NewFileStore(path)

	h, err := hierarchy.Merge(hierarchy.New(), hierarchy.LinkRequest{ParentID: "root", ChildIDs: []string{"x", "y"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, h); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(got.IDs(), []string{"root", "x", "y"}) {
		t.Errorf("IDs = %v", got.IDs())
	}
	if !slices.Equal(got.Children("root"), []string{"x", "y"}) {
		t.Errorf("Children(root) = %v", got.Children("root"))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the document", len(entries))
	}
}

func TestFileStoreLenient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte(`{"A": {"children": ["B"],}, "B": {"parent": "A"},}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileStore(path).Load(context.Background())
	if !errs.Is(err, errs.ErrCodeMalformedSnapshot) {
		t.Errorf("strict Load error = %v, want MALFORMED_SNAPSHOT", err)
	}

	h, err := NewFileStore(path, Lenient()).Load(context.Background())
	if err != nil {
		t.Fatalf("lenient Load: %v", err)
	}
	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
}

func TestFileStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewFileStore(filepath.Join(t.TempDir(), "tree.json"))
	if _, err := s.Load(ctx); err == nil {
		t.Error("Load with canceled context should fail")
	}
	if err := s.Save(ctx, hierarchy.New()); err == nil {
		t.Error("Save with canceled context should fail")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"file", Options{Path: filepath.Join(t.TempDir(), "a.json")}, ""},
		{"explicit file", Options{Backend: BackendFile, Path: filepath.Join(t.TempDir(), "a.json")}, ""},
		{"not json", Options{Path: "tree.yaml"}, errs.ErrCodeInvalidPath},
		{"unknown", Options{Backend: "s3"}, errs.ErrCodeInvalidConfig},
		{"mongo without uri", Options{Backend: BackendMongo}, errs.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.opts)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Open: %v", err)
				}
				s.Close()
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("Open error = %v, want code %s", err, tt.code)
			}
		})
	}
}
