package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/radialtree/internal/server"
	"github.com/matzehuels/radialtree/pkg/config"
	"github.com/matzehuels/radialtree/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		logFile string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenes and renders over HTTP",
		Long: `Serve scenes and renders over HTTP.

Routes:
  GET    /healthz                      liveness check
  GET    /api/scene                    scene JSON (ETag = scene fingerprint)
  GET    /api/render/{format}          svg, png, pdf, json or dot
  GET    /api/nodes                    the stored document
  POST   /api/links                    {"parent": "A", "children": ["B"]}
  DELETE /api/links/{parent}/{child}   remove one relation

Render routes accept width, height, elevation, azimuth, scale, labels and
axes query parameters. Every request loads a fresh snapshot, so edits made
by 'link' or by hand are picked up immediately.

With --log-file the server log is also written to a rotating file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if cmd.Flags().Changed("log-file") {
				c.Config.Server.LogFile = logFile
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file, rotated by size")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	if lf := rotatingLog(c.Config.Server); lf != nil {
		defer lf.Close()
		c.Logger.SetOutput(io.MultiWriter(os.Stderr, lf))
		c.Logger.Info("logging to file", "path", lf.Filename)
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	opts := pipeline.FromConfig(c.Config)
	opts.Logger = c.Logger

	srv := server.New(st, runner, opts, c.Logger)
	printServing(displayAddr(c.Config.Server.Addr), c.Config.Store.Backend, cacheLocation(c.Config.CacheOptions()))
	err = srv.ListenAndServe(ctx, c.Config.Server.Addr)
	if errors.Is(err, context.Canceled) {
		c.Logger.Info("server stopped")
		return nil
	}
	return err
}

// rotatingLog returns the rotating log file configured for the server, or
// nil when none is set.
func rotatingLog(cfg config.ServerConfig) *lumberjack.Logger {
	if cfg.LogFile == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}
}

// displayAddr turns a listen address into a URL for the status line.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
