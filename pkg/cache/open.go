package cache

import (
	"context"
	"time"

	errs "github.com/matzehuels/radialtree/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
	RedisDB   int
	TTL       time.Duration
	Namespace string
}

// Open creates the cache named by opts.Backend. An empty backend means
// [BackendNone].
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "file cache requires a directory")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeStore, err, "create cache dir %s", opts.Dir)
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisConfig{Addr: opts.RedisAddr, DB: opts.RedisDB})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend)
	}
}

// NewKeyer returns the keyer for opts: the default keyer, scoped by the
// namespace when one is set.
func NewKeyer(opts Options) Keyer {
	if opts.Namespace == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(NewDefaultKeyer(), opts.Namespace+":")
}
