// Package pipeline runs the load → layout → render pipeline shared by the
// CLI commands and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a hierarchy snapshot from a [store.Store]
//  2. Layout: build a [layout.Scene] (cached by document hash and options)
//  3. Render: produce artifacts (SVG, PNG, PDF, JSON, DOT), cached by scene
//     fingerprint and render options
//
// Each stage can be run on its own or as part of [Runner.Execute]. Stage
// timings and outcomes are reported to the registered
// [observability.PipelineHooks].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, st, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/radialtree/pkg/cache"
	"github.com/matzehuels/radialtree/pkg/config"
	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
	"github.com/matzehuels/radialtree/pkg/layout"
	"github.com/matzehuels/radialtree/pkg/render/radial"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// ContentType returns the MIME type served for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Layout options. The zero value means [layout.DefaultOptions].
	Layout layout.Options `json:"layout"`

	// Render options
	Formats  []string      `json:"formats,omitempty"`
	Width    int           `json:"width,omitempty"`
	Height   int           `json:"height,omitempty"`
	Camera   radial.Camera `json:"camera"`
	Scale    float64       `json:"scale,omitempty"`
	NoLabels bool          `json:"no_labels,omitempty"`
	NoAxes   bool          `json:"no_axes,omitempty"`
	Title    string        `json:"title,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromConfig builds pipeline options from loaded configuration.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Layout:  cfg.LayoutOptions(),
		Formats: slices.Clone(cfg.Render.Formats),
		Width:   cfg.Render.Width,
		Height:  cfg.Render.Height,
		Camera:  radial.Camera{Elevation: cfg.Render.Elevation, Azimuth: cfg.Render.Azimuth},
		Scale:   cfg.Render.Scale,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Hierarchy is the loaded snapshot.
	Hierarchy *hierarchy.Hierarchy

	// DocHash is the content hash of the normalized document.
	DocHash string

	// Scene is the computed geometry.
	Scene *layout.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	PlacedCount  int
	Disconnected int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SceneHit  bool // scene came from cache
	RenderHit bool // every artifact came from cache
}

// ValidateFormat checks that a format is supported. Errors are coded
// [errs.ErrCodeInvalidFormat].
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Layout == (layout.Options{}) {
		o.Layout = layout.DefaultOptions()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "image size must not be negative, got %dx%d", o.Width, o.Height)
	}
	if o.Width > radial.MaxDimension || o.Height > radial.MaxDimension {
		return errs.New(errs.ErrCodeInvalidInput, "image size %dx%d exceeds %d pixels per side",
			o.Width, o.Height, radial.MaxDimension)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"elevation", o.Camera.Elevation}, {"azimuth", o.Camera.Azimuth}, {"scale", o.Scale}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errs.New(errs.ErrCodeInvalidInput, "%s must be a finite number, got %v", f.name, f.v)
		}
	}
	if o.Width == 0 {
		o.Width = radial.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = radial.DefaultHeight
	}
	if o.Camera == (radial.Camera{}) {
		o.Camera = radial.DefaultCamera()
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale must not be negative, got %v", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SceneKeyOpts returns cache key options for scene computation.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		RadiusScale: o.Layout.RadiusScale,
		Spread:      o.Layout.Spread,
		ArrowWidth:  o.Layout.Arrow.Width,
		ArrowLength: o.Layout.Arrow.Length,
		ArrowOffset: o.Layout.Arrow.Offset,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Width:     o.Width,
		Height:    o.Height,
		Elevation: o.Camera.Elevation,
		Azimuth:   o.Camera.Azimuth,
		Scale:     o.Scale,
		Labels:    !o.NoLabels,
		Axes:      !o.NoAxes,
		Title:     o.Title,
	}
}

// radialOptions translates render settings for the radial sinks.
func (o *Options) radialOptions() []radial.Option {
	opts := []radial.Option{
		radial.WithSize(o.Width, o.Height),
		radial.WithCamera(o.Camera),
		radial.WithScale(o.Scale),
	}
	if o.NoLabels {
		opts = append(opts, radial.WithoutLabels())
	}
	if o.NoAxes {
		opts = append(opts, radial.WithoutAxes())
	}
	if o.Title != "" {
		opts = append(opts, radial.WithTitle(o.Title))
	}
	return opts
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
