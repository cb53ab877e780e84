// Package cli implements the radialtree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/radialtree/pkg/buildinfo"
	"github.com/matzehuels/radialtree/pkg/cache"
	"github.com/matzehuels/radialtree/pkg/config"
	"github.com/matzehuels/radialtree/pkg/observability"
	"github.com/matzehuels/radialtree/pkg/pipeline"
	"github.com/matzehuels/radialtree/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "radialtree"

	// sceneSuffix names scene files written next to the document.
	sceneSuffix = ".scene.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	storePath  string
	backend    string
	lenient    bool
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Radialtree lays out hierarchies as 3D radial trees",
		Long: `Radialtree places every node of a hierarchy document in 3D space: roots sit
on top of a cone, each generation one level lower, siblings fanned out by angle.
The resulting scene can be rendered to SVG, PNG, PDF, JSON or a Graphviz diagram,
edited link by link, browsed in the terminal or served over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: ./radialtree.toml, then global)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVarP(&c.storePath, "store", "s", "", "hierarchy document path (file backend)")
	pf.StringVar(&c.backend, "backend", "", "store backend: file, mongo")
	pf.BoolVar(&c.lenient, "lenient", false, "repair malformed JSON documents on load")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.unlinkCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and applies the persistent flags on top of it.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.storePath != "" {
		cfg.Store.Path = c.storePath
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.lenient {
		cfg.Store.Lenient = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg

	if c.verbose {
		registerLogHooks(c.Logger)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger.With("cmd", cmd.Name())))
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// openStore opens the configured hierarchy store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, c.Config.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	opts := c.Config.CacheOptions()
	r := pipeline.NewRunner(c.newCache(ctx, noCache), cache.NewKeyer(opts), c.Logger)
	r.TTL = opts.TTL
	return r
}

// newCache opens the configured cache. A cache that cannot be opened is
// replaced by a NullCache so it never blocks a run.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cc, err := cache.Open(ctx, c.Config.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "error", err)
		return cache.NewNullCache()
	}
	return cc
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags holds the render settings shared by render, visualize, serve
// and watch.
type renderFlags struct {
	formats   string
	width     int
	height    int
	elevation float64
	azimuth   float64
	scale     float64
	noLabels  bool
	noAxes    bool
	title     string
}

// register adds the render flags to cmd.
func (f *renderFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated)")
	fl.IntVar(&f.width, "width", 0, "image width in pixels")
	fl.IntVar(&f.height, "height", 0, "image height in pixels")
	fl.Float64Var(&f.elevation, "elevation", 0, "camera elevation in degrees")
	fl.Float64Var(&f.azimuth, "azimuth", 0, "camera azimuth in degrees")
	fl.Float64Var(&f.scale, "scale", 0, "pixels per scene unit (0 fits the view)")
	fl.BoolVar(&f.noLabels, "no-labels", false, "omit node labels")
	fl.BoolVar(&f.noAxes, "no-axes", false, "omit the X/Y/Z axis arrows")
	fl.StringVar(&f.title, "title", "", "document title")
}

// pipelineOptions merges the config defaults with the flags that were set.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *renderFlags) (pipeline.Options, error) {
	opts := pipeline.FromConfig(c.Config)
	opts.Logger = c.Logger

	changed := cmd.Flags().Changed
	if f.formats != "" || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("elevation") {
		opts.Camera.Elevation = f.elevation
	}
	if changed("azimuth") {
		opts.Camera.Azimuth = f.azimuth
	}
	if changed("scale") {
		opts.Scale = f.scale
	}
	opts.NoLabels = f.noLabels
	opts.NoAxes = f.noAxes
	opts.Title = f.title

	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// documentBase returns the path prefix used for files derived from the
// document: the file path without extension, or appName for other backends.
func (c *CLI) documentBase() string {
	if c.Config.Store.Backend != "" && c.Config.Store.Backend != store.BackendFile {
		return appName
	}
	p := c.Config.Store.Path
	return strings.TrimSuffix(p, filepath.Ext(p))
}

// registerLogHooks routes pipeline, cache and HTTP events to the logger.
func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}
