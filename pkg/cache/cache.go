// Package cache stores computed scenes and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON entry per key under a directory, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: caching disabled
//
// # Keys
//
// Keys are produced by a [Keyer]. Scene keys hash the document content
// together with the layout options; artifact keys hash the scene fingerprint
// together with the render options. A [ScopedKeyer] prefixes every key, so
// several projects can share one Redis instance.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/radialtree/pkg/observability"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the cached value. hit is false on a miss or an expired
	// entry; a miss is not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Default entry lifetimes.
const (
	TTLScene    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Key types reported to [observability.CacheHooks].
const (
	KeyTypeScene    = "scene"
	KeyTypeArtifact = "artifact"
)

// Lookup is Get with hit/miss events reported to the registered cache hooks.
func Lookup(ctx context.Context, c Cache, keyType, key string) ([]byte, bool) {
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// Store is Set with the write reported to the registered cache hooks.
func Store(ctx context.Context, c Cache, keyType, key string, data []byte, ttl time.Duration) error {
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}
