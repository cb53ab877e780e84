package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/pipeline"
	"github.com/matzehuels/radialtree/pkg/store"
)

// debounceInterval is the time to wait for rapid file changes to settle.
const debounceInterval = 100 * time.Millisecond

// watchCommand creates the watch command, which re-renders on every change
// of the document.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render whenever the document changes",
		Long: `Re-render whenever the document changes.

Watch renders once, then again every time the hierarchy document is written,
whether by an editor, by 'link' or by another program. Rapid successive
writes are coalesced. A render that fails (for example because the document
is half-written or has no root) is reported and watching continues.

Only the file store backend can be watched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, opts pipeline.Options, output string) error {
	if output == stdoutPath {
		return errs.New(errs.ErrCodeInvalidInput, "watch cannot write to stdout")
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	fs, ok := st.(*store.FileStore)
	if !ok {
		return errs.New(errs.ErrCodeUnsupported, "watch needs the file store backend, got %q", c.Config.Store.Backend)
	}

	runner := c.newRunner(ctx, false)
	defer runner.Close()

	render := func() {
		prog := newProgress(loggerFromContext(ctx))
		result, err := runner.Execute(ctx, st, opts)
		if err != nil {
			printStatus(statusFailed, "%s", errs.UserMessage(err))
			return
		}
		paths, err := writeArtifacts(artifactWriteParams{
			artifacts: result.Artifacts,
			formats:   opts.Formats,
			output:    output,
			base:      c.documentBase(),
		})
		if err != nil {
			printStatus(statusFailed, "%v", err)
			return
		}
		prog.done("re-rendered", "files", len(paths), "placed", result.Stats.PlacedCount)
		printArtifacts("Updated", paths...)
		printSceneStats(result.Stats, result.CacheInfo.SceneHit && result.CacheInfo.RenderHit)
	}

	render()
	printWatching(fs.Path())

	err = watchFile(ctx, fs.Path(), debounceInterval, render)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchFile calls onChange after path is written or created, once the
// writes have been quiet for debounce. It watches the parent directory so
// editors that replace the file by renaming are seen too. onChange runs on
// the calling goroutine. watchFile returns when ctx is done.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Base(path)
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			loggerFromContext(ctx).Warn("watch error", "error", err)

		case <-fire:
			onChange()
		}
	}
}
