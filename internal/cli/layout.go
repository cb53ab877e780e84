package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/radialtree/pkg/pipeline"
	"github.com/matzehuels/radialtree/pkg/render/radial"
)

// layoutCommand creates the layout command for computing the scene.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the 3D scene from the hierarchy document",
		Long: `Compute the 3D scene from the hierarchy document.

The layout command assigns every node a depth, an angle and a 3D position,
and computes one segment and one arrowhead per parent/child relation. The
output is a scene.json file (same format as 'render -f json') that can be
rendered to SVG/PNG/PDF with the 'visualize' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <document>.scene.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// runLayout loads the document, computes the scene, and writes it.
func (c *CLI) runLayout(ctx context.Context, output string, noCache, refresh bool) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	opts := pipeline.FromConfig(c.Config)
	opts.Logger = c.Logger
	opts.Refresh = refresh

	spinner := newSpinnerWithContext(ctx, "Loading document...")
	spinner.Start()

	h, docHash, err := runner.Load(ctx, st)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load: %w", err)
	}
	spinner.Update("Computing layout...")

	scene, cacheHit, err := runner.LayoutWithCacheInfo(ctx, h, docHash, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := radial.RenderJSON(scene)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = c.documentBase() + sceneSuffix
	}
	if err := writeFile(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath == stdoutPath {
		return nil
	}

	printArtifacts("Layout complete", outputPath)
	printSceneStats(pipeline.Stats{
		NodeCount:    h.Len(),
		EdgeCount:    h.EdgeCount(),
		Disconnected: len(scene.Disconnected),
	}, cacheHit)
	printUnplaced(scene.Disconnected)
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
