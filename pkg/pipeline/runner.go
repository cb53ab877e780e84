package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/radialtree/pkg/cache"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
	"github.com/matzehuels/radialtree/pkg/layout"
	"github.com/matzehuels/radialtree/pkg/observability"
	"github.com/matzehuels/radialtree/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default entry lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, st store.Store, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	h, docHash, err := r.Load(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Hierarchy = h
	result.DocHash = docHash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = h.Len()
	result.Stats.EdgeCount = h.EdgeCount()

	r.Logger.Info("loaded hierarchy",
		"nodes", h.Len(),
		"edges", h.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	scene, sceneHit, err := r.LayoutWithCacheInfo(ctx, h, docHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = scene
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.PlacedCount = len(scene.Nodes)
	result.Stats.Disconnected = len(scene.Disconnected)
	result.CacheInfo.SceneHit = sceneHit

	r.Logger.Info("computed layout",
		"placed", len(scene.Nodes),
		"max_level", scene.MaxLevel,
		"cached", sceneHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, scene, h, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads a snapshot from st and returns it with the hash of its
// normalized encoding. Equal documents hash equally regardless of the
// legacy parent shapes they were written with.
func (r *Runner) Load(ctx context.Context, st store.Store) (*hierarchy.Hierarchy, string, error) {
	backend := backendName(st)
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, backend)
	start := time.Now()

	h, err := st.Load(ctx)
	if err != nil {
		hooks.OnLoadComplete(ctx, backend, 0, time.Since(start), err)
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := store.Encode(&buf, h); err != nil {
		hooks.OnLoadComplete(ctx, backend, h.Len(), time.Since(start), err)
		return nil, "", err
	}
	hooks.OnLoadComplete(ctx, backend, h.Len(), time.Since(start), nil)
	return h, cache.Hash(buf.Bytes()), nil
}

// LayoutWithCacheInfo builds the scene for h, consulting the cache under
// docHash. Pass an empty docHash to skip the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, h *hierarchy.Hierarchy, docHash string, opts Options) (*layout.Scene, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	var cacheKey string
	if docHash != "" {
		cacheKey = r.Keyer.SceneKey(docHash, opts.SceneKeyOpts())
		if !opts.Refresh {
			if data, hit := cache.Lookup(ctx, r.Cache, cache.KeyTypeScene, cacheKey); hit {
				var s layout.Scene
				if err := json.Unmarshal(data, &s); err == nil {
					return &s, true, nil // Cache hit
				}
				// If deserialization fails, fall through to recompute
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, h.Len())
	start := time.Now()

	s, err := layout.Build(h, opts.Layout)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLayoutComplete(ctx, len(s.Nodes), time.Since(start), nil)

	if len(s.Disconnected) > 0 {
		r.Logger.Warn("nodes unreachable from any root were not placed",
			"count", len(s.Disconnected),
			"nodes", s.Disconnected)
	}
	for _, sk := range s.Skipped {
		if sk.Reason == layout.SkipDegenerate {
			r.Logger.Debug("edge endpoints coincide, arrow skipped", "parent", sk.Parent, "child", sk.Child)
		}
	}

	if cacheKey != "" {
		if data, err := json.Marshal(s); err == nil {
			if err := cache.Store(ctx, r.Cache, cache.KeyTypeScene, cacheKey, data, r.ttl(cache.TTLScene)); err != nil {
				r.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
			}
		}
	}

	return s, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, h *hierarchy.Hierarchy, docHash string, opts Options) (*layout.Scene, error) {
	s, _, err := r.LayoutWithCacheInfo(ctx, h, docHash, opts)
	return s, err
}

// RenderWithCacheInfo renders every requested format. Artifacts are cached
// by scene fingerprint; hit is true only when all of them came from cache.
// h is needed for the DOT format, which is never cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *layout.Scene, h *hierarchy.Hierarchy, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	fingerprint := s.Fingerprint()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if !cacheable(format) || opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(fingerprint, opts.ArtifactKeyOpts(format))
		if data, hit := cache.Lookup(ctx, r.Cache, cache.KeyTypeArtifact, key); hit {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()

	rendered, err := Render(ctx, s, h, missing, opts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		if !cacheable(format) {
			continue
		}
		key := r.Keyer.ArtifactKey(fingerprint, opts.ArtifactKeyOpts(format))
		if err := cache.Store(ctx, r.Cache, cache.KeyTypeArtifact, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
		}
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *layout.Scene, h *hierarchy.Hierarchy, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, h, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func backendName(st store.Store) string {
	switch st.(type) {
	case *store.FileStore:
		return store.BackendFile
	case *store.MongoStore:
		return store.BackendMongo
	}
	return fmt.Sprintf("%T", st)
}

// cacheable reports whether a format is worth caching. DOT depends on the
// hierarchy rather than the scene and is cheap to regenerate.
func cacheable(format string) bool {
	return format != FormatDOT
}
