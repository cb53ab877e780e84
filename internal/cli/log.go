// Package cli implements the radialtree command-line interface.
//
// This package provides commands for computing radial tree layouts from a
// hierarchy document, rendering them, editing the document link by link and
// serving everything over HTTP. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute the scene and write it as JSON
//   - render: Generate SVG, PNG, PDF, JSON or DOT output
//   - visualize: Render a previously computed scene file
//   - diagram: Draw the plain parent/child graph with Graphviz
//   - link, unlink: Edit parent/child relations in the document
//   - show: Print node placements, or browse them with -i
//   - serve: Run the HTTP API
//   - watch: Re-render whenever the document changes
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/radialtree/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamps as "15:04:05.00", messages
// below level dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one pipeline pass, such as a watch re-render.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the given key/value pairs and a "took"
// field holding the elapsed time, rounded to the millisecond:
//
//	INFO re-rendered files=2 placed=14 took=12ms
func (p *progress) done(msg string, keyvals ...any) {
	took := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "took", took)...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. setup stores the command logger this way
// so helpers that only see a context, like watchFile, log through it.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or an
// info-level stderr logger when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return newLogger(os.Stderr, LogInfo)
}
