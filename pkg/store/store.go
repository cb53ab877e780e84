package store

import (
	"context"
	"time"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

// Store is the interface for hierarchy persistence backends.
type Store interface {
	// Load returns the current snapshot. A store that holds nothing yet
	// returns an empty hierarchy, not an error.
	Load(ctx context.Context) (*hierarchy.Hierarchy, error)

	// Save replaces the stored snapshot with h, preserving its document
	// order.
	Save(ctx context.Context, h *hierarchy.Hierarchy) error

	// Close releases any resources held by the store.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// File backend.
	Path    string
	Lenient bool

	// Mongo backend.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	Timeout         time.Duration
}

// Open creates the backend named by opts.Backend. An empty backend means
// [BackendFile].
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		if err := errs.ValidateDocumentPath(opts.Path); err != nil {
			return nil, err
		}
		var fo []FileOption
		if opts.Lenient {
			fo = append(fo, Lenient())
		}
		return NewFileStore(opts.Path, fo...), nil
	case BackendMongo:
		s, err := NewMongoStore(ctx, MongoConfig{
			URI:        opts.MongoURI,
			Database:   opts.MongoDatabase,
			Collection: opts.MongoCollection,
			Timeout:    opts.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", opts.Backend)
	}
}
