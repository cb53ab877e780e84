// Package config loads radialtree settings from TOML files, a .env file and
// RADIALTREE_* environment variables.
//
// Precedence (later overrides earlier):
//  1. [Default] values
//  2. $XDG_CONFIG_HOME/radialtree/config.toml (global)
//  3. ./radialtree.toml (project)
//  4. an explicit --config file, which must exist
//  5. RADIALTREE_* environment variables, after loading ./.env
//  6. CLI flags, applied by the caller
//
// Missing global and project files are silently ignored.
package config

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/matzehuels/radialtree/pkg/cache"
	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/geom"
	"github.com/matzehuels/radialtree/pkg/layout"
	"github.com/matzehuels/radialtree/pkg/store"
)

// Config holds all configuration for radialtree.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Arrow  ArrowConfig  `toml:"arrow"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds radial placement settings.
type LayoutConfig struct {
	RadiusScale float64 `toml:"radius_scale"`
	Spread      float64 `toml:"spread"` // radians
}

// ArrowConfig holds arrowhead dimensions in scene units.
type ArrowConfig struct {
	Width  float64 `toml:"width"`
	Length float64 `toml:"length"`
	Offset float64 `toml:"offset"`
}

// StoreConfig selects where the hierarchy document lives.
type StoreConfig struct {
	Backend         string `toml:"backend"` // "file" or "mongo"
	Path            string `toml:"path"`
	Lenient         bool   `toml:"lenient"` // repair hand-edited JSON on load
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig selects where rendered artifacts are cached.
type CacheConfig struct {
	Backend   string        `toml:"backend"` // "file", "redis" or "none"
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	RedisDB   int           `toml:"redis_db"`
	TTL       time.Duration `toml:"ttl"`
	Namespace string        `toml:"namespace"`
}

// RenderConfig holds output settings shared by the render and serve commands.
type RenderConfig struct {
	Formats   []string `toml:"formats"`
	Width     int      `toml:"width"`
	Height    int      `toml:"height"`
	Elevation float64  `toml:"elevation"` // degrees
	Azimuth   float64  `toml:"azimuth"`   // degrees
	Scale     float64  `toml:"scale"`     // pixels per scene unit, 0 fits the view
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	LogFile       string `toml:"log_file"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
	LogMaxAgeDays int    `toml:"log_max_age_days"`
	LogCompress   bool   `toml:"log_compress"`
}

// Known values accepted by [Config.Validate].
var (
	StoreBackends = []string{store.BackendFile, store.BackendMongo}
	CacheBackends = []string{cache.BackendFile, cache.BackendRedis, cache.BackendNone}
	RenderFormats = []string{"svg", "png", "pdf", "json", "dot"}
)

// Default returns the built-in configuration.
func Default() *Config {
	arrow := geom.DefaultArrowOptions()
	return &Config{
		Layout: LayoutConfig{
			RadiusScale: layout.DefaultRadiusScale,
			Spread:      layout.DefaultSpread,
		},
		Arrow: ArrowConfig{
			Width:  arrow.Width,
			Length: arrow.Length,
			Offset: arrow.Offset,
		},
		Store: StoreConfig{
			Backend:         store.BackendFile,
			Path:            "hierarchy.json",
			MongoDatabase:   store.DefaultMongoDatabase,
			MongoCollection: store.DefaultMongoCollection,
		},
		Cache: CacheConfig{
			Backend:   cache.BackendFile,
			Dir:       defaultCacheDir(),
			RedisAddr: "localhost:6379",
			TTL:       24 * time.Hour,
		},
		Render: RenderConfig{
			Formats:   []string{"svg"},
			Width:     800,
			Height:    800,
			Elevation: 30,
			Azimuth:   45,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			LogMaxSizeMB:  10,
			LogMaxBackups: 3,
			LogMaxAgeDays: 28,
			LogCompress:   true,
		},
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "radialtree")
	}
	return filepath.Join(dir, "radialtree")
}

// Validate checks the configuration for values no component can work with.
// Errors are coded [errs.ErrCodeInvalidConfig].
func (c *Config) Validate() error {
	if !(c.Layout.RadiusScale > 0) || math.IsInf(c.Layout.RadiusScale, 0) {
		return errs.New(errs.ErrCodeInvalidConfig, "layout.radius_scale must be positive, got %v", c.Layout.RadiusScale)
	}
	if c.Layout.Spread < 0 || math.IsNaN(c.Layout.Spread) || c.Layout.Spread > 2*math.Pi {
		return errs.New(errs.ErrCodeInvalidConfig, "layout.spread must be within [0, 2π], got %v", c.Layout.Spread)
	}
	arrow := []struct {
		name  string
		value float64
	}{{"width", c.Arrow.Width}, {"length", c.Arrow.Length}, {"offset", c.Arrow.Offset}}
	for _, a := range arrow {
		if a.value < 0 || math.IsNaN(a.value) {
			return errs.New(errs.ErrCodeInvalidConfig, "arrow.%s must not be negative, got %v", a.name, a.value)
		}
	}

	if !slices.Contains(StoreBackends, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store.backend %q (want one of %v)", c.Store.Backend, StoreBackends)
	}
	switch c.Store.Backend {
	case store.BackendFile:
		if err := errs.ValidateDocumentPath(c.Store.Path); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "store.path")
		}
	case store.BackendMongo:
		if c.Store.MongoURI == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
		}
	}

	if !slices.Contains(CacheBackends, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache.backend %q (want one of %v)", c.Cache.Backend, CacheBackends)
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if len(c.Render.Formats) == 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "render.formats must not be empty")
	}
	for _, f := range c.Render.Formats {
		if !slices.Contains(RenderFormats, f) {
			return errs.New(errs.ErrCodeInvalidConfig, "unknown render format %q (want one of %v)", f, RenderFormats)
		}
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "render.scale must not be negative")
	}
	return nil
}

// LayoutOptions converts the layout and arrow sections.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.RadiusScale = c.Layout.RadiusScale
	opts.Spread = c.Layout.Spread
	opts.Arrow.Width = c.Arrow.Width
	opts.Arrow.Length = c.Arrow.Length
	opts.Arrow.Offset = c.Arrow.Offset
	return opts
}

// StoreOptions converts the store section.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:         c.Store.Backend,
		Path:            c.Store.Path,
		Lenient:         c.Store.Lenient,
		MongoURI:        c.Store.MongoURI,
		MongoDatabase:   c.Store.MongoDatabase,
		MongoCollection: c.Store.MongoCollection,
	}
}

// CacheOptions converts the cache section.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Cache.RedisAddr,
		RedisDB:   c.Cache.RedisDB,
		TTL:       c.Cache.TTL,
		Namespace: c.Cache.Namespace,
	}
}
