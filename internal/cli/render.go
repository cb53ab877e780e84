package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/radialtree/pkg/pipeline"
)

// renderCommand creates the render command: load, layout and render in one
// step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   renderFlags
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the hierarchy to SVG, PNG, PDF, JSON or DOT",
		Long: `Render the hierarchy to SVG, PNG, PDF, JSON or DOT.

Render runs the whole pipeline: it loads the document, computes the scene and
writes one file per requested format next to the document (or under the -o
base path). JSON output is written as <base>.scene.json.

The radial view is drawn with an orthographic camera; --elevation and
--azimuth move it. DOT output is the plain parent/child graph for Graphviz.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple), - for stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", describeFormats(opts.Formats)))
	spinner.Start()

	result, err := runner.Execute(ctx, st, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
		base:      c.documentBase(),
	})
	if err != nil {
		return err
	}
	if output == stdoutPath {
		return nil
	}

	printArtifacts("Render complete", paths...)
	printSceneStats(result.Stats, result.CacheInfo.SceneHit && result.CacheInfo.RenderHit)
	printUnplaced(result.Scene.Disconnected)
	return nil
}

// describeFormats renders a format list for messages.
func describeFormats(formats []string) string {
	if len(formats) == 1 {
		return formats[0]
	}
	return fmt.Sprintf("%d formats", len(formats))
}
